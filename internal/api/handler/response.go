package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/accessing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/clients"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/dashboard"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/documents"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/uploading"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}

// usecaseError extrai código, mensagem e detalhes dos erros tipados dos casos de uso
func usecaseError(err error) (code, message, details string, ok bool) {
	var (
		accessErr    *accessing.AccessError
		clientErr    *clients.ClientError
		uploadErr    *uploading.UploadError
		documentErr  *documents.DocumentError
		dashboardErr *dashboard.DashboardError
	)

	switch {
	case errors.As(err, &accessErr):
		return accessErr.Code, accessErr.Err.Error(), accessErr.ClientCode, true
	case errors.As(err, &clientErr):
		return clientErr.Code, clientErr.Err.Error(), clientErr.Details, true
	case errors.As(err, &uploadErr):
		return uploadErr.Code, uploadErr.Err.Error(), uploadErr.Details, true
	case errors.As(err, &documentErr):
		return documentErr.Code, documentErr.Err.Error(), documentErr.Details, true
	case errors.As(err, &dashboardErr):
		return dashboardErr.Code, dashboardErr.Err.Error(), dashboardErr.Details, true
	}

	return "", "", "", false
}

// writeUsecaseError responde com o código do erro tipado ou, na falta dele, com SRV_001
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	code, message, details, ok := usecaseError(err)
	if !ok {
		logrus.WithError(err).Error(fallback)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
		return
	}

	if details == "" {
		apiErrors.WriteError(w, code, message, nil)
		return
	}
	apiErrors.WriteError(w, code, message, details)
}
