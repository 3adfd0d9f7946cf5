package documents

import (
	"errors"
	"fmt"
)

var (
	ErrClientNotFound    = errors.New("cliente não encontrado")
	ErrInvalidFileType   = errors.New("o documento deve ser .pdf")
	ErrFileTooLarge      = errors.New("documento maior que o permitido")
	ErrInvalidCategory   = errors.New("categoria de documento inválida")
	ErrInvalidName       = errors.New("nome de documento inválido")
	ErrDocumentNotFound  = errors.New("documento não encontrado")
	ErrNoData            = errors.New("cliente sem planilha carregada")
	ErrStorageOperation  = errors.New("erro ao acessar documentos")
	ErrRegistryOperation = errors.New("erro ao acessar cadastro de clientes")
	ErrReportGeneration  = errors.New("erro ao gerar reporte mensal")
)

// DocumentError é um erro do cofre de documentos com o código da API
type DocumentError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	ClientCode string // Cliente envolvido
	Details    string // Detalhes adicionais
}

func (e *DocumentError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func NewDocumentError(err error, code string, clientCode string, details string) *DocumentError {
	return &DocumentError{
		Err:        err,
		Code:       code,
		ClientCode: clientCode,
		Details:    details,
	}
}
