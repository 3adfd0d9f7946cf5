package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/uploading"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
)

// multipartOverhead é a folga para cabeçalhos e campos do formulário além do arquivo
const multipartOverhead = 1 << 20

type multipartFile struct {
	File multipart.File
	Name string
}

// formFile lê o campo "file" de um multipart limitado a maxBytes
func formFile(w http.ResponseWriter, r *http.Request, maxBytes int64) (*multipartFile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apiErrors.WriteError(w, apiErrors.ErrPayloadTooLarge, "Arquivo maior que o permitido", nil)
			return nil, false
		}
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Envie o arquivo no campo file", nil)
		return nil, false
	}

	return &multipartFile{File: file, Name: header.Filename}, true
}

func PreviewSpreadsheet(service uploading.Uploader, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := clientCodeParam(r)

		upload, ok := formFile(w, r, maxBytes)
		if !ok {
			return
		}
		defer upload.File.Close()

		preview, err := service.Preview(r.Context(), code, upload.Name, upload.File)
		if err != nil {
			logrus.WithError(err).WithField("client_code", code).Warn("Planilha rejeitada")
			writeUsecaseError(w, err, "Erro ao processar planilha")
			return
		}

		writeJSON(w, http.StatusOK, preview)
	})
}

func decodeStagingID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var request domain.ConfirmUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", err.Error())
		return "", false
	}

	if request.StagingID == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "staging_id é obrigatório", nil)
		return "", false
	}

	return request.StagingID, true
}

func ConfirmSpreadsheet(service uploading.Uploader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := clientCodeParam(r)

		stagingID, ok := decodeStagingID(w, r)
		if !ok {
			return
		}

		result, err := service.Confirm(r.Context(), code, stagingID)
		if err != nil {
			writeUsecaseError(w, err, "Erro ao confirmar planilha")
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}

func DiscardSpreadsheet(service uploading.Uploader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := clientCodeParam(r)

		stagingID, ok := decodeStagingID(w, r)
		if !ok {
			return
		}

		if err := service.Discard(r.Context(), code, stagingID); err != nil {
			writeUsecaseError(w, err, "Erro ao descartar planilha")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
