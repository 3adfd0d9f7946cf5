package repository

import (
	"context"
	"errors"

	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

var ErrClientNotFound = errors.New("client not found")

// ClientRepository é o cadastro de clientes. GetClient devolve nil, nil quando
// o código não existe. ListClients devolve os clientes em ordem de cadastro.
type ClientRepository interface {
	GetClient(ctx context.Context, code string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)
	SaveOrUpdate(ctx context.Context, client *domain.Client) error
	DeleteClient(ctx context.Context, code string) error
}
