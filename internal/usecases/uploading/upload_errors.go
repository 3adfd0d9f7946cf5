package uploading

import (
	"errors"
	"fmt"

	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/normalizing"
)

var (
	ErrClientNotFound       = errors.New("cliente não encontrado")
	ErrInvalidFileType      = errors.New("o arquivo deve ser .xlsx")
	ErrFileTooLarge         = errors.New("arquivo maior que o permitido")
	ErrMalformedSpreadsheet = normalizing.ErrMalformedSpreadsheet
	ErrStagedNotFound       = errors.New("upload não encontrado ou expirado")

	ErrRegistryOperation = errors.New("erro ao acessar cadastro de clientes")
	ErrStorageOperation  = errors.New("erro ao gravar planilha")
	ErrGenerateID        = errors.New("erro ao gerar identificador do upload")
)

// UploadError é um erro do fluxo de envio de planilhas com o código da API
type UploadError struct {
	Err        error  // Erro base
	Code       string // Código de erro para API
	ClientCode string // Cliente envolvido
	Details    string // Detalhes adicionais
}

func (e *UploadError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func NewUploadError(err error, code string, clientCode string, details string) *UploadError {
	return &UploadError{
		Err:        err,
		Code:       code,
		ClientCode: clientCode,
		Details:    details,
	}
}
