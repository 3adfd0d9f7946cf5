package analyzing

import (
	"github.com/shopspring/decimal"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

// Metric extrai um valor de um mês; ok é falso quando o valor está ausente
type Metric func(domain.DerivedRecord) (decimal.Decimal, bool)

func SalesMetric(r domain.DerivedRecord) (decimal.Decimal, bool) {
	return r.Sales.Decimal, r.Sales.Valid
}

func OperatingMarginMetric(r domain.DerivedRecord) (decimal.Decimal, bool) {
	return r.OperatingMargin.Decimal, r.OperatingMargin.Valid
}

func SalesToPayrollMetric(r domain.DerivedRecord) (decimal.Decimal, bool) {
	return r.SalesToPayrollRatio.Value(), r.SalesToPayrollRatio.Defined()
}

// ArgMax devolve o índice do maior valor, ignorando ausentes. Em caso de
// empate vence o primeiro mês.
func ArgMax(records []domain.DerivedRecord, metric Metric) (int, bool) {
	return argBest(records, metric, func(candidate, best decimal.Decimal) bool {
		return candidate.GreaterThan(best)
	})
}

// ArgMin devolve o índice do menor valor, ignorando ausentes. Em caso de
// empate vence o primeiro mês.
func ArgMin(records []domain.DerivedRecord, metric Metric) (int, bool) {
	return argBest(records, metric, func(candidate, best decimal.Decimal) bool {
		return candidate.LessThan(best)
	})
}

func argBest(records []domain.DerivedRecord, metric Metric, better func(candidate, best decimal.Decimal) bool) (int, bool) {
	bestIdx := -1
	var best decimal.Decimal

	for i, record := range records {
		value, ok := metric(record)
		if !ok {
			continue
		}
		if bestIdx < 0 || better(value, best) {
			bestIdx = i
			best = value
		}
	}

	return bestIdx, bestIdx >= 0
}

// Summarize monta o resumo executivo com os melhores e piores meses de vendas,
// margem operacional e razão vendas/salários
func Summarize(records []domain.DerivedRecord) (domain.ExecutiveSummary, error) {
	if len(records) == 0 {
		return domain.ExecutiveSummary{}, ErrEmptyRange
	}

	extreme := func(idx int, ok bool, metric Metric) *domain.Extreme {
		if !ok {
			return nil
		}
		value, _ := metric(records[idx])
		return &domain.Extreme{Period: records[idx].Period, Value: value}
	}

	summary := domain.ExecutiveSummary{}

	idx, ok := ArgMax(records, SalesMetric)
	summary.BestSales = extreme(idx, ok, SalesMetric)
	idx, ok = ArgMin(records, SalesMetric)
	summary.WorstSales = extreme(idx, ok, SalesMetric)

	idx, ok = ArgMax(records, OperatingMarginMetric)
	summary.BestOperatingMargin = extreme(idx, ok, OperatingMarginMetric)
	idx, ok = ArgMin(records, OperatingMarginMetric)
	summary.WorstOperatingMargin = extreme(idx, ok, OperatingMarginMetric)

	idx, ok = ArgMax(records, SalesToPayrollMetric)
	summary.BestSalesToPayroll = extreme(idx, ok, SalesToPayrollMetric)
	idx, ok = ArgMin(records, SalesToPayrollMetric)
	summary.WorstSalesToPayroll = extreme(idx, ok, SalesToPayrollMetric)

	return summary, nil
}
