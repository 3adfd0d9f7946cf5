package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/documents"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/accounting-dashboard-api/pkg/middleware"
)

func documentNameParam(r *http.Request) string {
	return httprouter.ParamsFromContext(r.Context()).ByName("name")
}

func listDocuments(w http.ResponseWriter, r *http.Request, service documents.DocumentService, code string) {
	result, err := service.List(r.Context(), code)
	if err != nil {
		writeUsecaseError(w, err, "Erro ao listar documentos")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func downloadDocument(w http.ResponseWriter, r *http.Request, service documents.DocumentService, code string) {
	content, document, err := service.Open(r.Context(), code, documentNameParam(r))
	if err != nil {
		writeUsecaseError(w, err, "Erro ao abrir documento")
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(document.Size, 10))

	if _, err := io.Copy(w, content); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"client_code": code,
			"document":    document.Name,
		}).Warn("Download de documento interrompido")
	}
}

// ClientDocuments lista os documentos do cliente autorizado por ?cliente=
func ClientDocuments(service documents.DocumentService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, ok := middleware.ClientFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrUnauthorized, "Cliente não identificado", nil)
			return
		}
		listDocuments(w, r, service, client.Code)
	})
}

func ClientDocumentDownload(service documents.DocumentService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, ok := middleware.ClientFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrUnauthorized, "Cliente não identificado", nil)
			return
		}
		downloadDocument(w, r, service, client.Code)
	})
}

func AdminDocuments(service documents.DocumentService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		listDocuments(w, r, service, clientCodeParam(r))
	})
}

func AdminDocumentDownload(service documents.DocumentService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloadDocument(w, r, service, clientCodeParam(r))
	})
}

// UploadDocument recebe multipart com file, category e name (opcional)
func UploadDocument(service documents.DocumentService, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := clientCodeParam(r)

		upload, ok := formFile(w, r, maxBytes)
		if !ok {
			return
		}
		defer upload.File.Close()

		request := domain.UploadDocumentRequest{
			Category:   domain.DocumentCategory(strings.TrimSpace(r.FormValue("category"))),
			CustomName: strings.TrimSpace(r.FormValue("name")),
			FileName:   upload.Name,
		}

		document, err := service.Upload(r.Context(), code, request, upload.File)
		if err != nil {
			writeUsecaseError(w, err, "Erro ao salvar documento")
			return
		}

		writeJSON(w, http.StatusCreated, document)
	})
}

func DeleteDocument(service documents.DocumentService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := service.Delete(r.Context(), clientCodeParam(r), documentNameParam(r)); err != nil {
			writeUsecaseError(w, err, "Erro ao remover documento")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// GenerateReport gera o PDF do reporte mensal no intervalo ?from=&to=
func GenerateReport(service documents.DocumentService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := clientCodeParam(r)

		document, err := service.GenerateMonthlyReport(r.Context(), code, periodRangeQuery(r))
		if err != nil {
			writeUsecaseError(w, err, "Erro ao gerar reporte")
			return
		}

		writeJSON(w, http.StatusCreated, document)
	})
}
