package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro da API
const (
	// Erros de acesso
	ErrUnauthorized        = "AUTH_001" // Código de acesso ausente ou incorreto
	ErrClientInactive      = "AUTH_002" // Cliente desativado
	ErrClientNotFound      = "AUTH_003" // Cliente não encontrado
	ErrInvalidConfirmation = "AUTH_004" // Token de confirmação inválido ou expirado

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrAlreadyExists       = "VAL_004" // Registro já existe
	ErrPayloadTooLarge     = "VAL_005" // Arquivo maior que o permitido

	// Erros dos dados financeiros
	ErrMalformedSpreadsheet = "DATA_001" // Planilha fora do layout esperado
	ErrEmptyRange           = "DATA_002" // Intervalo sem meses
	ErrInvertedRange        = "DATA_003" // Mês inicial posterior ao final
	ErrUnknownPeriod        = "DATA_004" // Mês inexistente na planilha
	ErrNoData               = "DATA_005" // Cliente ainda sem planilha
	ErrFileNotFound         = "DATA_006" // Documento ou upload não encontrado
	ErrNotEnoughClients     = "DATA_007" // Clientes insuficientes para o comparativo

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrStorageFailure    = "SRV_002" // Erro ao acessar cadastro ou arquivos
	ErrJobAlreadyRunning = "SRV_003" // Tarefa agendada já em execução
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrUnauthorized:         http.StatusUnauthorized,
	ErrClientInactive:       http.StatusForbidden,
	ErrClientNotFound:       http.StatusNotFound,
	ErrInvalidConfirmation:  http.StatusUnauthorized,
	ErrInvalidRequest:       http.StatusBadRequest,
	ErrMissingRequiredData:  http.StatusBadRequest,
	ErrInvalidFormat:        http.StatusBadRequest,
	ErrAlreadyExists:        http.StatusBadRequest,
	ErrPayloadTooLarge:      http.StatusRequestEntityTooLarge,
	ErrMalformedSpreadsheet: http.StatusUnprocessableEntity,
	ErrEmptyRange:           http.StatusBadRequest,
	ErrInvertedRange:        http.StatusBadRequest,
	ErrUnknownPeriod:        http.StatusBadRequest,
	ErrNoData:               http.StatusNotFound,
	ErrFileNotFound:         http.StatusNotFound,
	ErrNotEnoughClients:     http.StatusConflict,
	ErrInternalServer:       http.StatusInternalServerError,
	ErrStorageFailure:       http.StatusInternalServerError,
	ErrJobAlreadyRunning:    http.StatusConflict,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// StatusFor devolve o status HTTP de um código de erro
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	json.NewEncoder(w).Encode(apiErr)
}
