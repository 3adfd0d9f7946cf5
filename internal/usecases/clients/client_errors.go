package clients

import (
	"errors"
	"fmt"
)

// Erros específicos da administração de clientes
var (
	// Erros de validação
	ErrNameRequired        = errors.New("nome do cliente é obrigatório")
	ErrCodeRequired        = errors.New("código do cliente é obrigatório")
	ErrInvalidCode         = errors.New("código do cliente inválido")
	ErrClientAlreadyExists = errors.New("já existe um cliente com este código")
	ErrClientNotFound      = errors.New("cliente não encontrado")

	// Erros da confirmação de exclusão
	ErrInvalidConfirmation = errors.New("confirmação de exclusão inválida ou expirada")

	// Erros de infraestrutura
	ErrRegistryOperation = errors.New("erro ao acessar cadastro de clientes")
	ErrFileOperation     = errors.New("erro ao acessar arquivos do cliente")
	ErrGenerateToken     = errors.New("erro ao gerar token de confirmação")
)

// ClientError é um erro com contexto adicional para clientes
type ClientError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	ClientCode string // Cliente envolvido (quando aplicável)
	Details    string // Detalhes adicionais
}

func (e *ClientError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func NewClientError(err error, code string, details string) *ClientError {
	return &ClientError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewClientErrorWithCode(err error, code string, clientCode string, details string) *ClientError {
	return &ClientError{
		Err:        err,
		Code:       code,
		ClientCode: clientCode,
		Details:    details,
	}
}
