// Package format produz os textos de exibição dos valores do painel.
package format

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

// NotAvailable é exibido para valores ausentes ou razões indefinidas
const NotAvailable = "N/A"

// millionsCode é uma moeda sintética cuja unidade mínima é um décimo de milhão,
// o que permite ao go-money formatar valores como $1,234.5M
const millionsCode = "MILLIONS"

const currencySymbol = "$"

var (
	millions      = money.AddCurrency(millionsCode, currencySymbol, "$1M", ".", ",", 1)
	tenthsDivisor = decimal.NewFromInt(100_000)
)

// Amount formata um valor em milhões com uma casa decimal: $1.2M
func Amount(value decimal.NullDecimal) string {
	if !value.Valid {
		return NotAvailable
	}
	return AmountOf(value.Decimal)
}

// AmountOf coloca o sinal depois do símbolo: $-0.1M. Valores negativos que
// arredondam para zero mantêm o sinal: $-0.0M
func AmountOf(value decimal.Decimal) string {
	tenths := value.Abs().Div(tenthsDivisor).Round(0).IntPart()
	formatted := millions.Formatter().Format(tenths)
	if value.IsNegative() {
		return currencySymbol + "-" + strings.TrimPrefix(formatted, currencySymbol)
	}
	return formatted
}

// Percent formata um percentual com uma casa decimal: 12.3%
func Percent(value domain.Ratio) string {
	if !value.Defined() {
		return NotAvailable
	}
	return value.Value().StringFixed(1) + "%"
}

// Ratio formata uma razão com duas casas decimais: 4.25x
func Ratio(value domain.Ratio) string {
	if !value.Defined() {
		return NotAvailable
	}
	return value.Value().StringFixed(2) + "x"
}

// Month monta os textos de exibição de um mês derivado
func Month(record domain.DerivedRecord) domain.MonthDisplay {
	return domain.MonthDisplay{
		Sales:               Amount(record.Sales),
		TaxablePurchases:    Amount(record.TaxablePurchases),
		ExemptPurchases:     Amount(record.ExemptPurchases),
		TotalPurchases:      Amount(record.TotalPurchases),
		Payroll:             Amount(record.PayrollAndContributions),
		GrossMargin:         Amount(record.GrossMargin),
		OperatingMargin:     Amount(record.OperatingMargin),
		GrossMarginPct:      Percent(record.GrossMarginPct),
		OperatingMarginPct:  Percent(record.OperatingMarginPct),
		SalesToPayrollRatio: Ratio(record.SalesToPayrollRatio),
	}
}

func Aggregate(agg domain.Aggregate) domain.AggregateDisplay {
	return domain.AggregateDisplay{
		TotalSales:             Amount(agg.TotalSales),
		AvgSales:               Amount(agg.AvgSales),
		TotalPurchases:         Amount(agg.TotalPurchases),
		TotalPayroll:           Amount(agg.TotalPayroll),
		TotalGrossMargin:       Amount(agg.TotalGrossMargin),
		GrossMarginPct:         Percent(agg.GrossMarginPct),
		TotalOperatingMargin:   Amount(agg.TotalOperatingMargin),
		AvgOperatingMargin:     Amount(agg.AvgOperatingMargin),
		OperatingMarginPct:     Percent(agg.OperatingMarginPct),
		AvgSalesToPayrollRatio: Ratio(agg.AvgSalesToPayrollRatio),
	}
}
