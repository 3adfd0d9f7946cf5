package analyzing

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/pkg/utils"
)

type column func(domain.DerivedRecord) decimal.NullDecimal

func salesColumn(r domain.DerivedRecord) decimal.NullDecimal { return r.Sales }
func taxableColumn(r domain.DerivedRecord) decimal.NullDecimal { return r.TaxablePurchases }
func exemptColumn(r domain.DerivedRecord) decimal.NullDecimal { return r.ExemptPurchases }
func totalPurchasesColumn(r domain.DerivedRecord) decimal.NullDecimal { return r.TotalPurchases }
func payrollColumn(r domain.DerivedRecord) decimal.NullDecimal { return r.PayrollAndContributions }
func grossMarginColumn(r domain.DerivedRecord) decimal.NullDecimal { return r.GrossMargin }
func operatingMarginColumn(r domain.DerivedRecord) decimal.NullDecimal { return r.OperatingMargin }

// Aggregate calcula os totais do intervalo. Os percentuais saem dos totais do
// intervalo; a razão vendas/salários é a média das razões mensais definidas.
func Aggregate(records []domain.DerivedRecord) (domain.Aggregate, error) {
	if len(records) == 0 {
		return domain.Aggregate{}, ErrEmptyRange
	}

	totalSales := sum(records, salesColumn)
	totalGrossMargin := sum(records, grossMarginColumn)
	totalOperatingMargin := sum(records, operatingMarginColumn)

	return domain.Aggregate{
		Months:                 len(records),
		TotalSales:             totalSales,
		AvgSales:               mean(records, salesColumn),
		TotalPurchases:         sum(records, totalPurchasesColumn),
		TotalPayroll:           sum(records, payrollColumn),
		TotalGrossMargin:       totalGrossMargin,
		GrossMarginPct:         percentage(totalGrossMargin, totalSales),
		TotalOperatingMargin:   totalOperatingMargin,
		AvgOperatingMargin:     mean(records, operatingMarginColumn),
		OperatingMarginPct:     percentage(totalOperatingMargin, totalSales),
		AvgSalesToPayrollRatio: meanRatio(records),
	}, nil
}

func sum(records []domain.DerivedRecord, col column) decimal.NullDecimal {
	total := decimal.Zero
	present := 0
	for _, record := range records {
		value := col(record)
		if !value.Valid {
			continue
		}
		total = total.Add(value.Decimal)
		present++
	}

	if present == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(total)
}

func mean(records []domain.DerivedRecord, col column) decimal.NullDecimal {
	total := sum(records, col)
	if !total.Valid {
		return total
	}

	present := 0
	for _, record := range records {
		if col(record).Valid {
			present++
		}
	}

	return decimal.NewNullDecimal(total.Decimal.Div(decimal.NewFromInt(int64(present))))
}

func meanRatio(records []domain.DerivedRecord) domain.Ratio {
	total := decimal.Zero
	defined := 0
	for _, record := range records {
		if !record.SalesToPayrollRatio.Defined() {
			continue
		}
		total = total.Add(record.SalesToPayrollRatio.Value())
		defined++
	}

	if defined == 0 {
		return domain.UndefinedRatio
	}

	return domain.NewRatio(utils.RoundWithTwoDecimalPlace(total.Div(decimal.NewFromInt(int64(defined)))))
}
