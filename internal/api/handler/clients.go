package handler

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/clients"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
)

type deleteRequestResponse struct {
	ClientCode string `json:"client_code"`
	Token      string `json:"token"`
}

type deleteConfirmResponse struct {
	ClientCode string `json:"client_code"`
	Deleted    bool   `json:"deleted"`
}

func ListClients(service clients.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := service.List(r.Context())
		if err != nil {
			writeUsecaseError(w, err, "Erro ao listar clientes")
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}

func CreateClient(service clients.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateClient")

		var request domain.CreateClientRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", err.Error())
			return
		}

		created, err := service.Create(r.Context(), &request)
		if err != nil {
			writeUsecaseError(w, err, "Erro ao criar cliente")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	})
}

// UpdateClient ativa ou desativa o cliente
func UpdateClient(service clients.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := clientCodeParam(r)

		var request domain.UpdateClientRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", err.Error())
			return
		}

		if request.Active == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Campo active é obrigatório", nil)
			return
		}

		updated, err := service.SetActive(r.Context(), code, *request.Active)
		if err != nil {
			writeUsecaseError(w, err, "Erro ao atualizar cliente")
			return
		}

		writeJSON(w, http.StatusOK, updated)
	})
}

func RequestClientDelete(service clients.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := clientCodeParam(r)

		token, err := service.RequestDelete(r.Context(), code)
		if err != nil {
			writeUsecaseError(w, err, "Erro ao solicitar exclusão")
			return
		}

		writeJSON(w, http.StatusOK, deleteRequestResponse{ClientCode: code, Token: token})
	})
}

func ConfirmClientDelete(service clients.ClientService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ConfirmClientDelete")

		var request domain.DeleteConfirmationRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", err.Error())
			return
		}

		if strings.TrimSpace(request.Token) == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Token de confirmação é obrigatório", nil)
			return
		}

		code, err := service.ConfirmDelete(r.Context(), request.Token)
		if err != nil {
			writeUsecaseError(w, err, "Erro ao excluir cliente")
			return
		}

		writeJSON(w, http.StatusOK, deleteConfirmResponse{ClientCode: code, Deleted: true})
	})
}
