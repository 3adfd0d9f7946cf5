package analyzing

import (
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

// DetectAlerts gera um alerta para cada mês com margem operacional negativa,
// na ordem do ledger, e um alerta de recuperação quando o último mês é
// positivo depois de algum mês negativo. Margens ausentes não geram alertas.
func DetectAlerts(ledger domain.Ledger) ([]domain.Alert, error) {
	if len(ledger) == 0 {
		return nil, ErrEmptyRange
	}

	alerts := make([]domain.Alert, 0)
	anyNegative := false

	for _, record := range ledger {
		if !record.OperatingMargin.Valid || !record.OperatingMargin.Decimal.IsNegative() {
			continue
		}

		anyNegative = true
		alerts = append(alerts, domain.Alert{
			Kind:   domain.AlertNegativeMargin,
			Period: record.Period,
			Amount: record.OperatingMargin.Decimal,
		})
	}

	if len(ledger) < 2 || !anyNegative {
		return alerts, nil
	}

	last, _ := ledger.Last()
	if !last.OperatingMargin.Valid || !last.OperatingMargin.Decimal.IsPositive() {
		return alerts, nil
	}

	// o último mês é positivo, então algum mês negativo é necessariamente anterior
	alerts = append(alerts, domain.Alert{
		Kind:   domain.AlertMarginRecovered,
		Period: last.Period,
		Amount: last.OperatingMargin.Decimal,
	})

	return alerts, nil
}
