package documents

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

const documentExt = ".pdf"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Classify deduz a categoria pelo nome do arquivo
func Classify(fileName string) domain.DocumentCategory {
	name := strings.ToLower(fileName)
	switch {
	case strings.Contains(name, "arca"):
		return domain.DocumentTaxCertificate
	case strings.Contains(name, "pyme"):
		return domain.DocumentSMECertificate
	case strings.Contains(name, "reporte"):
		return domain.DocumentMonthlyReport
	default:
		return domain.DocumentOther
	}
}

// sanitize troca espaços e caracteres fora de [a-zA-Z0-9_-] por "_"
func sanitize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "_")
}

// DocumentName define o nome com que o documento é guardado
func DocumentName(request domain.UploadDocumentRequest, now time.Time) (string, error) {
	switch request.Category {
	case domain.DocumentTaxCertificate:
		return "constancia_arca_" + now.Format("200601") + documentExt, nil
	case domain.DocumentSMECertificate:
		return "certificado_pyme_" + now.Format("2006") + documentExt, nil
	case domain.DocumentMonthlyReport:
		return ReportName(now), nil
	case domain.DocumentOther:
		if name := sanitize(request.CustomName); name != "" {
			return name + documentExt, nil
		}
		if name := sanitize(filepath.Base(request.FileName)); name != "" {
			return name + documentExt, nil
		}
		return "", ErrInvalidName
	default:
		return "", ErrInvalidCategory
	}
}

// ReportName é o nome do reporte mensal do mês de referência
func ReportName(month time.Time) string {
	return "reporte_" + month.Format("200601") + documentExt
}
