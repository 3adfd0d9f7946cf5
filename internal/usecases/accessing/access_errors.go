package accessing

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized    = errors.New("código de acesso inválido")
	ErrClientNotFound  = errors.New("cliente não encontrado")
	ErrClientInactive  = errors.New("cliente desativado")
	ErrRegistryFailure = errors.New("erro ao consultar cadastro de clientes")
)

// AccessError é um erro de acesso com o código da API
type AccessError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	ClientCode string // Cliente envolvido (quando aplicável)
}

func (e *AccessError) Error() string {
	if e.ClientCode != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.ClientCode)
	}
	return e.Err.Error()
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

func NewAccessError(err error, code string, clientCode string) *AccessError {
	return &AccessError{
		Err:        err,
		Code:       code,
		ClientCode: clientCode,
	}
}
