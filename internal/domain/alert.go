package domain

import "github.com/shopspring/decimal"

type AlertKind string

const (
	AlertNegativeMargin  AlertKind = "negative_margin"
	AlertMarginRecovered AlertKind = "margin_recovered"
)

type Alert struct {
	Kind    AlertKind       `json:"kind"`
	Period  Period          `json:"period"`
	Amount  decimal.Decimal `json:"amount"`
	Title   string          `json:"title,omitempty"`
	Message string          `json:"message,omitempty"`
}
