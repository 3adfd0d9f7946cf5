// Package accessing decide quem pode ver o quê: o administrador pelo código
// configurado e cada cliente pelo próprio código, desde que esteja ativo.
package accessing

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
)

type Gate interface {
	AuthorizeAdmin(code string) error
	AuthorizeClient(ctx context.Context, code string) (*domain.Client, error)
}

type Service struct {
	clientRepository repository.ClientRepository
	adminCode        string
}

func NewService(clientRepository repository.ClientRepository, adminCode string) Gate {
	return &Service{
		clientRepository: clientRepository,
		adminCode:        adminCode,
	}
}

// AuthorizeAdmin compara o código com o configurado. Um código configurado
// vazio nunca autoriza.
func (s *Service) AuthorizeAdmin(code string) error {
	if s.adminCode == "" || code != s.adminCode {
		return NewAccessError(ErrUnauthorized, apiErrors.ErrUnauthorized, "")
	}
	return nil
}

func (s *Service) AuthorizeClient(ctx context.Context, code string) (*domain.Client, error) {
	if code == "" {
		return nil, NewAccessError(ErrUnauthorized, apiErrors.ErrUnauthorized, "")
	}

	client, err := s.clientRepository.GetClient(ctx, code)
	if err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao buscar cliente no cadastro")
		return nil, NewAccessError(ErrRegistryFailure, apiErrors.ErrStorageFailure, code)
	}

	if client == nil {
		return nil, NewAccessError(ErrClientNotFound, apiErrors.ErrClientNotFound, code)
	}

	if !client.Active {
		return nil, NewAccessError(ErrClientInactive, apiErrors.ErrClientInactive, code)
	}

	return client, nil
}
