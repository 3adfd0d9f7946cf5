// Package uploading implementa o envio de planilhas em duas etapas: a prévia
// valida e guarda o arquivo em área temporária, a confirmação o torna a
// planilha vigente do cliente.
package uploading

import (
	"bytes"
	"context"
	"encoding/hex"
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
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/analyzing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/accounting-dashboard-api/pkg/format"
	"github.com/vfg2006/accounting-dashboard-api/pkg/utils"
	"golang.org/x/crypto/blake2b"
)

const spreadsheetExt = ".xlsx"

// SpreadsheetFiles é a parte do armazenamento usada no envio de planilhas
type SpreadsheetFiles interface {
	Stage(id string, r io.Reader) error
	OpenStaged(id string) (afero.File, error)
	DiscardStaged(id string) error
	PromoteStaged(code, id string, now time.Time) (string, error)
	OpenSpreadsheet(code string) (afero.File, string, error)
}

type Uploader interface {
	Preview(ctx context.Context, code, fileName string, r io.Reader) (*domain.UploadPreview, error)
	Confirm(ctx context.Context, code, stagingID string) (*domain.UploadResult, error)
	Discard(ctx context.Context, code, stagingID string) error
}

type Service struct {
	clientRepository repository.ClientRepository
	files            SpreadsheetFiles
	parser           normalizing.SpreadsheetParser
	maxBytes         int64
	now              func() time.Time
}

func NewService(
	clientRepository repository.ClientRepository,
	files SpreadsheetFiles,
	parser normalizing.SpreadsheetParser,
	maxBytes int64,
) Uploader {
	return &Service{
		clientRepository: clientRepository,
		files:            files,
		parser:           parser,
		maxBytes:         maxBytes,
		now:              time.Now,
	}
}

// Fingerprint é o BLAKE2b-256 do conteúdo em hexadecimal
func Fingerprint(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (s *Service) ensureClient(ctx context.Context, code string) error {
	client, err := s.clientRepository.GetClient(ctx, code)
	if err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao buscar cliente no cadastro")
		return NewUploadError(ErrRegistryOperation, apiErrors.ErrStorageFailure, code, "")
	}
	if client == nil {
		return NewUploadError(ErrClientNotFound, apiErrors.ErrClientNotFound, code, "")
	}
	return nil
}

// Preview valida a planilha e a guarda na área temporária. Uma planilha
// inválida nunca é gravada.
func (s *Service) Preview(ctx context.Context, code, fileName string, r io.Reader) (*domain.UploadPreview, error) {
	if err := s.ensureClient(ctx, code); err != nil {
		return nil, err
	}

	if !strings.EqualFold(filepath.Ext(fileName), spreadsheetExt) {
		return nil, NewUploadError(ErrInvalidFileType, apiErrors.ErrInvalidFormat, code, fileName)
	}

	content, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, NewUploadError(ErrStorageOperation, apiErrors.ErrInvalidRequest, code, "Falha ao ler o arquivo enviado")
	}
	if int64(len(content)) > s.maxBytes {
		return nil, NewUploadError(ErrFileTooLarge, apiErrors.ErrPayloadTooLarge, code, fileName)
	}

	ledger, err := s.parser.ParseWorkbook(bytes.NewReader(content))
	if err != nil {
		logrus.WithError(err).WithField("client_code", code).Warn("Planilha rejeitada na prévia")
		return nil, NewUploadError(ErrMalformedSpreadsheet, apiErrors.ErrMalformedSpreadsheet, code, err.Error())
	}

	aggregate, err := analyzing.Aggregate(analyzing.DeriveAll(ledger))
	if err != nil {
		return nil, NewUploadError(ErrMalformedSpreadsheet, apiErrors.ErrMalformedSpreadsheet, code, err.Error())
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewUploadError(ErrGenerateID, apiErrors.ErrInternalServer, code, "")
	}
	stagingID := code + "." + id

	if err := s.files.Stage(stagingID, bytes.NewReader(content)); err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao gravar upload temporário")
		return nil, NewUploadError(ErrStorageOperation, apiErrors.ErrStorageFailure, code, "")
	}

	fingerprint := Fingerprint(content)

	logrus.WithFields(logrus.Fields{
		"client_code": code,
		"months":      len(ledger),
		"staging_id":  stagingID,
	}).Info("Prévia de planilha gerada")

	return &domain.UploadPreview{
		StagingID:                   stagingID,
		ClientCode:                  code,
		FileName:                    fileName,
		Months:                      len(ledger),
		Periods:                     ledger.Periods(),
		TotalSales:                  aggregate.TotalSales,
		TotalOperatingMargin:        aggregate.TotalOperatingMargin,
		TotalSalesDisplay:           format.Amount(aggregate.TotalSales),
		TotalOperatingMarginDisplay: format.Amount(aggregate.TotalOperatingMargin),
		Fingerprint:                 fingerprint,
		Unchanged:                   s.currentFingerprint(code) == fingerprint,
	}, nil
}

// currentFingerprint devolve vazio quando o cliente ainda não tem planilha
func (s *Service) currentFingerprint(code string) string {
	f, _, err := s.files.OpenSpreadsheet(code)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logrus.WithError(err).WithField("client_code", code).Warn("Não foi possível ler a planilha vigente")
		}
		return ""
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return ""
	}
	return Fingerprint(content)
}

// Confirm torna o upload temporário a planilha vigente do cliente
func (s *Service) Confirm(ctx context.Context, code, stagingID string) (*domain.UploadResult, error) {
	if err := s.ensureClient(ctx, code); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(stagingID, code+".") {
		return nil, NewUploadError(ErrStagedNotFound, apiErrors.ErrFileNotFound, code, stagingID)
	}

	f, err := s.files.OpenStaged(stagingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return nil, NewUploadError(ErrStagedNotFound, apiErrors.ErrFileNotFound, code, stagingID)
		}
		return nil, NewUploadError(ErrStorageOperation, apiErrors.ErrStorageFailure, code, "")
	}
	content, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, NewUploadError(ErrStorageOperation, apiErrors.ErrStorageFailure, code, "")
	}

	now := s.now()
	name, err := s.files.PromoteStaged(code, stagingID, now)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NewUploadError(ErrStagedNotFound, apiErrors.ErrFileNotFound, code, stagingID)
		}
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao confirmar planilha")
		return nil, NewUploadError(ErrStorageOperation, apiErrors.ErrStorageFailure, code, "")
	}

	logrus.WithFields(logrus.Fields{
		"client_code": code,
		"file":        name,
	}).Info("Planilha confirmada")

	return &domain.UploadResult{
		ClientCode:  code,
		FileName:    name,
		Fingerprint: Fingerprint(content),
		StoredAt:    now,
	}, nil
}

// Discard descarta um upload que não será confirmado
func (s *Service) Discard(ctx context.Context, code, stagingID string) error {
	if err := s.ensureClient(ctx, code); err != nil {
		return err
	}

	if !strings.HasPrefix(stagingID, code+".") {
		return NewUploadError(ErrStagedNotFound, apiErrors.ErrFileNotFound, code, stagingID)
	}

	if err := s.files.DiscardStaged(stagingID); err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			return NewUploadError(ErrStagedNotFound, apiErrors.ErrFileNotFound, code, stagingID)
		}
		return NewUploadError(ErrStorageOperation, apiErrors.ErrStorageFailure, code, "")
	}

	return nil
}
