package analyzing

import (
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/pkg/utils"
)

// SalesVsAverage devolve, para cada mês, a diferença percentual das vendas em
// relação à média de vendas do intervalo, com uma casa decimal
func SalesVsAverage(records []domain.DerivedRecord) []domain.SalesDeviation {
	avg := mean(records, salesColumn)

	series := make([]domain.SalesDeviation, 0, len(records))
	for _, record := range records {
		deviation := domain.SalesDeviation{Period: record.Period, Pct: domain.UndefinedRatio}

		if record.Sales.Valid && avg.Valid {
			if pct, ok := utils.Percentage(record.Sales.Decimal.Sub(avg.Decimal), avg.Decimal); ok {
				deviation.Pct = domain.NewRatio(utils.RoundWithOneDecimalPlace(pct))
			}
		}

		series = append(series, deviation)
	}

	return series
}

// PurchaseMix devolve a média mensal das compras gravadas e isentas
func PurchaseMix(records []domain.DerivedRecord) domain.PurchaseMix {
	return domain.PurchaseMix{
		AvgTaxable: mean(records, taxableColumn),
		AvgExempt:  mean(records, exemptColumn),
	}
}
