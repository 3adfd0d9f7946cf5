package dashboard

import (
	"errors"
	"fmt"

	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/analyzing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
)

var (
	ErrClientNotFound       = errors.New("cliente não encontrado")
	ErrMalformedSpreadsheet = normalizing.ErrMalformedSpreadsheet
	ErrNotEnoughClients     = errors.New("são necessários ao menos dois clientes com dados para o comparativo")
	ErrRegistryOperation    = errors.New("erro ao acessar cadastro de clientes")
	ErrStorageOperation     = errors.New("erro ao ler planilha do cliente")
)

// DashboardError é um erro do cálculo do painel com o código da API
type DashboardError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	ClientCode string // Cliente envolvido
	Details    string // Detalhes adicionais
}

func (e *DashboardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *DashboardError) Unwrap() error {
	return e.Err
}

func NewDashboardError(err error, code string, clientCode string, details string) *DashboardError {
	return &DashboardError{
		Err:        err,
		Code:       code,
		ClientCode: clientCode,
		Details:    details,
	}
}

// rangeError traduz os erros de seleção de intervalo para os códigos da API
func rangeError(err error, clientCode string) *DashboardError {
	switch {
	case errors.Is(err, analyzing.ErrInvertedRange):
		return NewDashboardError(analyzing.ErrInvertedRange, apiErrors.ErrInvertedRange, clientCode, err.Error())
	case errors.Is(err, analyzing.ErrUnknownPeriod):
		return NewDashboardError(analyzing.ErrUnknownPeriod, apiErrors.ErrUnknownPeriod, clientCode, err.Error())
	default:
		return NewDashboardError(analyzing.ErrEmptyRange, apiErrors.ErrEmptyRange, clientCode, err.Error())
	}
}
