package dashboard

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/analyzing"
	"github.com/vfg2006/accounting-dashboard-api/pkg/format"
)

// describeAlert preenche título e mensagem exibidos ao cliente
func describeAlert(alert domain.Alert) domain.Alert {
	amount := format.AmountOf(alert.Amount)

	switch alert.Kind {
	case domain.AlertNegativeMargin:
		alert.Title = "⚠️ Margen Operativo Negativo"
		alert.Message = fmt.Sprintf("El mes %s tuvo margen operativo negativo: %s", alert.Period, amount)
	case domain.AlertMarginRecovered:
		alert.Title = "✅ Recuperación de Margen"
		alert.Message = fmt.Sprintf("El último mes (%s) volvió a margen operativo positivo: %s", alert.Period, amount)
	}

	return alert
}

func describeSummary(summary domain.ExecutiveSummary) *domain.ExecutiveSummary {
	amount := func(e *domain.Extreme) {
		if e != nil {
			e.Display = format.AmountOf(e.Value)
		}
	}
	ratio := func(e *domain.Extreme) {
		if e != nil {
			e.Display = format.Ratio(domain.NewRatio(e.Value))
		}
	}

	amount(summary.BestSales)
	amount(summary.WorstSales)
	amount(summary.BestOperatingMargin)
	amount(summary.WorstOperatingMargin)
	ratio(summary.BestSalesToPayroll)
	ratio(summary.WorstSalesToPayroll)

	return &summary
}

func describeDeviations(records []domain.DerivedRecord) []domain.SalesDeviation {
	series := analyzing.SalesVsAverage(records)
	for i := range series {
		series[i].Display = format.Percent(series[i].Pct)
	}
	return series
}

func describePurchaseMix(records []domain.DerivedRecord) *domain.PurchaseMix {
	mix := analyzing.PurchaseMix(records)
	mix.AvgTaxableDisplay = format.Amount(mix.AvgTaxable)
	mix.AvgExemptDisplay = format.Amount(mix.AvgExempt)
	return &mix
}

// positiveSalesPct só é definido quando as vendas totais são positivas
func positiveSalesPct(aggregate domain.Aggregate) domain.Ratio {
	if !aggregate.TotalSales.Valid || !aggregate.TotalSales.Decimal.GreaterThan(decimal.Zero) {
		return domain.UndefinedRatio
	}
	return aggregate.OperatingMarginPct
}
