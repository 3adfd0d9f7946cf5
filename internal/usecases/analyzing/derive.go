// Package analyzing calcula indicadores, alertas e extremos a partir do ledger mensal.
//
// Valores ausentes são ignorados em somas e médias: um total considera apenas
// os meses com valor e uma média divide pela quantidade desses meses.
package analyzing

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/pkg/utils"
)

// Derive calcula os indicadores de um mês
func Derive(record domain.MonthlyRecord) domain.DerivedRecord {
	derived := domain.DerivedRecord{MonthlyRecord: record}

	derived.TotalPurchases = addNull(record.TaxablePurchases, record.ExemptPurchases)
	derived.GrossMargin = subNull(record.Sales, derived.TotalPurchases)
	derived.GrossMarginPct = percentage(derived.GrossMargin, record.Sales)
	derived.OperatingMarginPct = percentage(record.OperatingMargin, record.Sales)
	derived.SalesToPayrollRatio = ratio(record.Sales, record.PayrollAndContributions)

	return derived
}

func DeriveAll(ledger domain.Ledger) []domain.DerivedRecord {
	records := make([]domain.DerivedRecord, 0, len(ledger))
	for _, record := range ledger {
		records = append(records, Derive(record))
	}
	return records
}

func addNull(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.Decimal.Add(b.Decimal))
}

func subNull(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.Decimal.Sub(b.Decimal))
}

func percentage(numerator, denominator decimal.NullDecimal) domain.Ratio {
	if !numerator.Valid || !denominator.Valid {
		return domain.UndefinedRatio
	}

	pct, ok := utils.Percentage(numerator.Decimal, denominator.Decimal)
	if !ok {
		return domain.UndefinedRatio
	}

	return domain.NewRatio(utils.RoundWithTwoDecimalPlace(pct))
}

func ratio(numerator, denominator decimal.NullDecimal) domain.Ratio {
	if !numerator.Valid || !denominator.Valid || denominator.Decimal.IsZero() {
		return domain.UndefinedRatio
	}

	return domain.NewRatio(utils.RoundWithTwoDecimalPlace(numerator.Decimal.Div(denominator.Decimal)))
}
