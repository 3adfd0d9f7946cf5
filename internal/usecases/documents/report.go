package documents

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

var (
	darkGray   = color.Color{Red: 38, Green: 38, Blue: 34}
	mediumGray = color.Color{Red: 121, Green: 119, Blue: 109}
	alertRed   = color.Color{Red: 180, Green: 35, Blue: 24}
	alertGreen = color.Color{Red: 22, Green: 120, Blue: 60}
)

var monthColumns = []string{"Mes", "Ventas", "Compras", "Margen Bruto", "Margen Op.", "Ventas/Sueldos"}

// renderReport monta o PDF do reporte mensal a partir do painel já calculado
func renderReport(dashboard *domain.Dashboard, generatedAt time.Time) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 20, 20)

	m.Row(15, func() {
		m.Col(12, func() {
			m.Text("REPORTE MENSUAL", props.Text{
				Size:  22,
				Style: consts.Bold,
				Color: darkGray,
			})
		})
	})

	m.Row(8, func() {
		m.Col(8, func() {
			m.Text(dashboard.Client.Name, props.Text{
				Size:  13,
				Style: consts.Bold,
				Color: darkGray,
			})
		})
		m.Col(4, func() {
			m.Text(fmt.Sprintf("Período: %s a %s", dashboard.Range.From, dashboard.Range.To), props.Text{
				Size:  9,
				Color: mediumGray,
				Align: consts.Right,
			})
		})
	})

	m.Row(5, func() {
		m.Col(12, func() {
			m.Text("Generado el "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size:  8,
				Color: mediumGray,
			})
		})
	})

	m.Row(8, func() {})

	if display := dashboard.AggregateDisplay; display != nil {
		sectionTitle(m, "INDICADORES DEL PERÍODO")

		kpis := [][2]string{
			{"Ventas totales", display.TotalSales},
			{"Promedio mensual de ventas", display.AvgSales},
			{"Compras totales", display.TotalPurchases},
			{"Margen bruto", display.TotalGrossMargin + " (" + display.GrossMarginPct + ")"},
			{"Margen operativo", display.TotalOperatingMargin + " (" + display.OperatingMarginPct + ")"},
			{"Sueldos y cargas sociales", display.TotalPayroll},
			{"Ventas / Sueldos (promedio)", display.AvgSalesToPayrollRatio},
		}

		for _, kpi := range kpis {
			m.Row(6, func() {
				m.Col(8, func() {
					m.Text(kpi[0], props.Text{Size: 9, Color: darkGray})
				})
				m.Col(4, func() {
					m.Text(kpi[1], props.Text{Size: 9, Style: consts.Bold, Color: darkGray, Align: consts.Right})
				})
			})
		}

		m.Row(6, func() {})
	}

	if len(dashboard.Alerts) > 0 {
		sectionTitle(m, "ALERTAS")

		for _, alert := range dashboard.Alerts {
			textColor := alertRed
			if alert.Kind == domain.AlertMarginRecovered {
				textColor = alertGreen
			}

			m.Row(6, func() {
				m.Col(12, func() {
					m.Text(alert.Message, props.Text{Size: 9, Color: textColor})
				})
			})
		}

		m.Row(6, func() {})
	}

	sectionTitle(m, "DETALLE MENSUAL")

	m.Row(6, func() {
		for i, title := range monthColumns {
			align := consts.Right
			if i == 0 {
				align = consts.Left
			}
			m.Col(2, func() {
				m.Text(title, props.Text{Size: 8, Style: consts.Bold, Color: darkGray, Align: align})
			})
		}
	})

	for _, month := range dashboard.Months {
		values := []string{
			month.Period.String(),
			month.Display.Sales,
			month.Display.TotalPurchases,
			month.Display.GrossMargin,
			month.Display.OperatingMargin,
			month.Display.SalesToPayrollRatio,
		}

		m.Row(5, func() {
			for i, value := range values {
				align := consts.Right
				if i == 0 {
					align = consts.Left
				}
				m.Col(2, func() {
					m.Text(value, props.Text{Size: 8, Color: darkGray, Align: align})
				})
			}
		})
	}

	buf, err := m.Output()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func sectionTitle(m pdf.Maroto, title string) {
	m.Row(7, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{
				Size:  10,
				Style: consts.Bold,
				Color: darkGray,
			})
		})
	})
}
