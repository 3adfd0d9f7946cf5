package domain

import "time"

type DocumentCategory string

const (
	DocumentTaxCertificate DocumentCategory = "tax_authority_certificate"
	DocumentSMECertificate DocumentCategory = "sme_certificate"
	DocumentMonthlyReport  DocumentCategory = "monthly_report"
	DocumentOther          DocumentCategory = "other"
)

// IsValid indica se a categoria é uma das conhecidas
func (c DocumentCategory) IsValid() bool {
	switch c {
	case DocumentTaxCertificate, DocumentSMECertificate, DocumentMonthlyReport, DocumentOther:
		return true
	}
	return false
}

// Label devolve o nome de exibição da categoria
func (c DocumentCategory) Label() string {
	switch c {
	case DocumentTaxCertificate:
		return "Constancia ARCA"
	case DocumentSMECertificate:
		return "Certificado PyME"
	case DocumentMonthlyReport:
		return "Reporte Mensual"
	default:
		return "Documento"
	}
}

type Document struct {
	Name       string           `json:"name"`
	Category   DocumentCategory `json:"category"`
	Label      string           `json:"label"`
	Size       int64            `json:"size"`
	ModifiedAt time.Time        `json:"modified_at"`
}

type UploadDocumentRequest struct {
	Category   DocumentCategory
	CustomName string
	FileName   string
}
