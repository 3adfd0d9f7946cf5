package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UploadPreview é o resumo de uma planilha enviada e ainda não confirmada
type UploadPreview struct {
	StagingID                   string              `json:"staging_id"`
	ClientCode                  string              `json:"client_code"`
	FileName                    string              `json:"file_name"`
	Months                      int                 `json:"months"`
	Periods                     []Period            `json:"periods"`
	TotalSales                  decimal.NullDecimal `json:"total_sales"`
	TotalOperatingMargin        decimal.NullDecimal `json:"total_operating_margin"`
	TotalSalesDisplay           string              `json:"total_sales_display"`
	TotalOperatingMarginDisplay string              `json:"total_operating_margin_display"`
	Fingerprint                 string              `json:"fingerprint"`
	Unchanged                   bool                `json:"unchanged"`
}

type ConfirmUploadRequest struct {
	StagingID string `json:"staging_id"`
}

type UploadResult struct {
	ClientCode  string    `json:"client_code"`
	FileName    string    `json:"file_name"`
	Fingerprint string    `json:"fingerprint"`
	StoredAt    time.Time `json:"stored_at"`
}
