// Package documents cuida do cofre de PDFs de cada cliente: constâncias,
// certificados, reportes mensais e documentos avulsos.
package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/storage"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
)

// DocumentFiles é a parte do armazenamento usada pelo cofre de documentos
type DocumentFiles interface {
	ListDocuments(code string) ([]storage.StoredFile, error)
	SaveDocument(code, name string, r io.Reader) error
	OpenDocument(code, name string) (afero.File, storage.StoredFile, error)
	DeleteDocument(code, name string) error
}

// DashboardBuilder calcula o painel usado no reporte mensal
type DashboardBuilder interface {
	Dashboard(ctx context.Context, code string, period domain.PeriodRange) (*domain.Dashboard, error)
}

type DocumentService interface {
	List(ctx context.Context, code string) ([]domain.Document, error)
	Upload(ctx context.Context, code string, request domain.UploadDocumentRequest, r io.Reader) (*domain.Document, error)
	Open(ctx context.Context, code, name string) (io.ReadCloser, *domain.Document, error)
	Delete(ctx context.Context, code, name string) error
	GenerateMonthlyReport(ctx context.Context, code string, period domain.PeriodRange) (*domain.Document, error)
}

type Service struct {
	clientRepository repository.ClientRepository
	files            DocumentFiles
	dashboards       DashboardBuilder
	maxBytes         int64
	now              func() time.Time
}

func NewService(
	clientRepository repository.ClientRepository,
	files DocumentFiles,
	dashboards DashboardBuilder,
	maxBytes int64,
) DocumentService {
	return &Service{
		clientRepository: clientRepository,
		files:            files,
		dashboards:       dashboards,
		maxBytes:         maxBytes,
		now:              time.Now,
	}
}

func toDocument(file storage.StoredFile) domain.Document {
	category := Classify(file.Name)
	return domain.Document{
		Name:       file.Name,
		Category:   category,
		Label:      category.Label(),
		Size:       file.Size,
		ModifiedAt: file.ModifiedAt,
	}
}

func (s *Service) ensureClient(ctx context.Context, code string) error {
	client, err := s.clientRepository.GetClient(ctx, code)
	if err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao buscar cliente no cadastro")
		return NewDocumentError(ErrRegistryOperation, apiErrors.ErrStorageFailure, code, "")
	}
	if client == nil {
		return NewDocumentError(ErrClientNotFound, apiErrors.ErrClientNotFound, code, "")
	}
	return nil
}

func (s *Service) storageError(err error, code, name string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return NewDocumentError(ErrDocumentNotFound, apiErrors.ErrFileNotFound, code, name)
	case errors.Is(err, storage.ErrInvalidName):
		return NewDocumentError(ErrInvalidName, apiErrors.ErrInvalidFormat, code, name)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"client_code": code,
			"document":    name,
		}).Error("Erro ao acessar documento")
		return NewDocumentError(ErrStorageOperation, apiErrors.ErrStorageFailure, code, name)
	}
}

func (s *Service) List(ctx context.Context, code string) ([]domain.Document, error) {
	if err := s.ensureClient(ctx, code); err != nil {
		return nil, err
	}

	files, err := s.files.ListDocuments(code)
	if err != nil {
		return nil, s.storageError(err, code, "")
	}

	documents := make([]domain.Document, 0, len(files))
	for _, file := range files {
		documents = append(documents, toDocument(file))
	}

	return documents, nil
}

func (s *Service) Upload(ctx context.Context, code string, request domain.UploadDocumentRequest, r io.Reader) (*domain.Document, error) {
	if err := s.ensureClient(ctx, code); err != nil {
		return nil, err
	}

	if !strings.EqualFold(filepath.Ext(request.FileName), documentExt) {
		return nil, NewDocumentError(ErrInvalidFileType, apiErrors.ErrInvalidFormat, code, request.FileName)
	}

	if request.Category == "" {
		request.Category = Classify(request.FileName)
	}

	name, err := DocumentName(request, s.now())
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			return nil, NewDocumentError(err, apiErrors.ErrInvalidFormat, code, string(request.Category))
		}
		return nil, NewDocumentError(err, apiErrors.ErrInvalidFormat, code, request.FileName)
	}

	content, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, NewDocumentError(ErrStorageOperation, apiErrors.ErrInvalidRequest, code, "Falha ao ler o arquivo enviado")
	}
	if int64(len(content)) > s.maxBytes {
		return nil, NewDocumentError(ErrFileTooLarge, apiErrors.ErrPayloadTooLarge, code, request.FileName)
	}

	return s.store(code, name, content)
}

func (s *Service) store(code, name string, content []byte) (*domain.Document, error) {
	if err := s.files.SaveDocument(code, name, bytes.NewReader(content)); err != nil {
		return nil, s.storageError(err, code, name)
	}

	logrus.WithFields(logrus.Fields{
		"client_code": code,
		"document":    name,
	}).Info("Documento salvo")

	document := toDocument(storage.StoredFile{
		Name:       name,
		Size:       int64(len(content)),
		ModifiedAt: s.now(),
	})
	return &document, nil
}

// Open devolve o conteúdo do documento; quem chama deve fechá-lo
func (s *Service) Open(ctx context.Context, code, name string) (io.ReadCloser, *domain.Document, error) {
	if err := s.ensureClient(ctx, code); err != nil {
		return nil, nil, err
	}

	f, info, err := s.files.OpenDocument(code, name)
	if err != nil {
		return nil, nil, s.storageError(err, code, name)
	}

	document := toDocument(info)
	return f, &document, nil
}

func (s *Service) Delete(ctx context.Context, code, name string) error {
	if err := s.ensureClient(ctx, code); err != nil {
		return err
	}

	if err := s.files.DeleteDocument(code, name); err != nil {
		return s.storageError(err, code, name)
	}

	logrus.WithFields(logrus.Fields{
		"client_code": code,
		"document":    name,
	}).Info("Documento removido")

	return nil
}

// GenerateMonthlyReport gera o PDF do painel no intervalo pedido e o guarda
// como reporte do último mês do intervalo
func (s *Service) GenerateMonthlyReport(ctx context.Context, code string, period domain.PeriodRange) (*domain.Document, error) {
	dashboard, err := s.dashboards.Dashboard(ctx, code, period)
	if err != nil {
		return nil, err
	}

	if !dashboard.HasData {
		return nil, NewDocumentError(ErrNoData, apiErrors.ErrNoData, code, "")
	}

	now := s.now()
	reference := now
	if month, err := time.Parse(domain.PeriodLayout, dashboard.Range.To.String()); err == nil {
		reference = month
	}

	content, err := renderReport(dashboard, now)
	if err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao gerar PDF do reporte")
		return nil, NewDocumentError(ErrReportGeneration, apiErrors.ErrInternalServer, code, "")
	}

	return s.store(code, ReportName(reference), content)
}
