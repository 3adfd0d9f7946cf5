package analyzing

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

func val(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

var missing = decimal.NullDecimal{}

func record(period string, sales, taxable, exempt, payroll, margin decimal.NullDecimal) domain.MonthlyRecord {
	return domain.MonthlyRecord{
		Period:                  domain.Period(period),
		Sales:                   sales,
		TaxablePurchases:        taxable,
		ExemptPurchases:         exempt,
		PayrollAndContributions: payroll,
		OperatingMargin:         margin,
	}
}

func marginLedger(margins ...float64) domain.Ledger {
	ledger := make(domain.Ledger, 0, len(margins))
	for i, margin := range margins {
		period := domain.Period([]string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"}[i])
		ledger = append(ledger, domain.MonthlyRecord{Period: period, OperatingMargin: val(margin)})
	}
	return ledger
}

func assertDecimal(t *testing.T, expected string, actual decimal.NullDecimal) {
	t.Helper()
	require.True(t, actual.Valid, "valor deveria estar presente")
	assert.True(t, decimal.RequireFromString(expected).Equal(actual.Decimal), "esperado %s, obtido %s", expected, actual.Decimal)
}

func assertRatio(t *testing.T, expected string, actual domain.Ratio) {
	t.Helper()
	require.True(t, actual.Defined(), "razão deveria estar definida")
	assert.True(t, decimal.RequireFromString(expected).Equal(actual.Value()), "esperado %s, obtido %s", expected, actual.Value())
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name     string
		record   domain.MonthlyRecord
		validate func(t *testing.T, d domain.DerivedRecord)
	}{
		{
			name:   "Calcula compras, margens e razão",
			record: record("2024-01", val(1000), val(300), val(100), val(200), val(150)),
			validate: func(t *testing.T, d domain.DerivedRecord) {
				assertDecimal(t, "400", d.TotalPurchases)
				assertDecimal(t, "600", d.GrossMargin)
				assertRatio(t, "60", d.GrossMarginPct)
				assertRatio(t, "15", d.OperatingMarginPct)
				assertRatio(t, "5", d.SalesToPayrollRatio)
			},
		},
		{
			name:   "Arredonda percentuais para duas casas",
			record: record("2024-01", val(3), val(1), val(0), val(7), val(1)),
			validate: func(t *testing.T, d domain.DerivedRecord) {
				assertRatio(t, "66.67", d.GrossMarginPct)
				assertRatio(t, "33.33", d.OperatingMarginPct)
				assertRatio(t, "0.43", d.SalesToPayrollRatio)
			},
		},
		{
			name:   "Vendas zero deixam os percentuais indefinidos",
			record: record("2024-01", val(0), val(10), val(5), val(100), val(-15)),
			validate: func(t *testing.T, d domain.DerivedRecord) {
				assert.False(t, d.GrossMarginPct.Defined())
				assert.False(t, d.OperatingMarginPct.Defined())
				assertRatio(t, "0", d.SalesToPayrollRatio)
			},
		},
		{
			name:   "Salários zero deixam a razão indefinida",
			record: record("2024-01", val(100), val(10), val(5), val(0), val(20)),
			validate: func(t *testing.T, d domain.DerivedRecord) {
				assert.False(t, d.SalesToPayrollRatio.Defined())
			},
		},
		{
			name:   "Valores ausentes se propagam",
			record: record("2024-01", val(100), missing, val(5), missing, missing),
			validate: func(t *testing.T, d domain.DerivedRecord) {
				assert.False(t, d.TotalPurchases.Valid)
				assert.False(t, d.GrossMargin.Valid)
				assert.False(t, d.GrossMarginPct.Defined())
				assert.False(t, d.OperatingMarginPct.Defined())
				assert.False(t, d.SalesToPayrollRatio.Defined())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Derive(tt.record))
		})
	}
}

func TestAggregate(t *testing.T) {
	ledger := domain.Ledger{
		record("2024-01", val(1000), val(300), val(100), val(200), val(100)),
		record("2024-02", missing, val(200), val(100), val(250), val(-50)),
		record("2024-03", val(2000), val(600), val(200), val(400), val(300)),
	}

	agg, err := Aggregate(DeriveAll(ledger))
	require.NoError(t, err)

	assert.Equal(t, 3, agg.Months)
	assertDecimal(t, "3000", agg.TotalSales)
	assertDecimal(t, "1500", agg.AvgSales)
	assertDecimal(t, "1500", agg.TotalPurchases)
	assertDecimal(t, "850", agg.TotalPayroll)
	// margem bruta só existe nos meses com vendas: 600 + 1200
	assertDecimal(t, "1800", agg.TotalGrossMargin)
	assertRatio(t, "60", agg.GrossMarginPct)
	assertDecimal(t, "350", agg.TotalOperatingMargin)
	assertRatio(t, "11.67", agg.OperatingMarginPct)
	// média das razões mensais (5 e 5), não a razão dos totais
	assertRatio(t, "5", agg.AvgSalesToPayrollRatio)
}

func TestAggregate_TotalsRatioDiffersFromMeanOfRatios(t *testing.T) {
	ledger := domain.Ledger{
		record("2024-01", val(100), val(0), val(0), val(10), val(50)),
		record("2024-02", val(900), val(0), val(0), val(900), val(90)),
	}

	agg, err := Aggregate(DeriveAll(ledger))
	require.NoError(t, err)

	assertRatio(t, "14", agg.OperatingMarginPct)
	assertRatio(t, "5.5", agg.AvgSalesToPayrollRatio)
}

func TestAggregate_AllMissingColumn(t *testing.T) {
	ledger := domain.Ledger{
		record("2024-01", missing, val(1), val(1), val(1), val(1)),
	}

	agg, err := Aggregate(DeriveAll(ledger))
	require.NoError(t, err)

	assert.False(t, agg.TotalSales.Valid)
	assert.False(t, agg.AvgSales.Valid)
	assert.False(t, agg.OperatingMarginPct.Defined())
	assert.False(t, agg.AvgSalesToPayrollRatio.Defined())
}

func TestEmptyRange(t *testing.T) {
	_, err := Aggregate(nil)
	assert.True(t, errors.Is(err, ErrEmptyRange))

	_, err = DetectAlerts(nil)
	assert.True(t, errors.Is(err, ErrEmptyRange))

	_, err = Summarize(nil)
	assert.True(t, errors.Is(err, ErrEmptyRange))

	_, err = SelectRange(nil, "", "", RejectWithError)
	assert.True(t, errors.Is(err, ErrEmptyRange))
}

func TestDetectAlerts(t *testing.T) {
	tests := []struct {
		name     string
		ledger   domain.Ledger
		expected []domain.Alert
	}{
		{
			name:   "Meses negativos seguidos de recuperação",
			ledger: marginLedger(-100, -50, 200),
			expected: []domain.Alert{
				{Kind: domain.AlertNegativeMargin, Period: "2024-01", Amount: decimal.NewFromInt(-100)},
				{Kind: domain.AlertNegativeMargin, Period: "2024-02", Amount: decimal.NewFromInt(-50)},
				{Kind: domain.AlertMarginRecovered, Period: "2024-03", Amount: decimal.NewFromInt(200)},
			},
		},
		{
			name:     "Sem meses negativos não há alertas",
			ledger:   marginLedger(100, 200),
			expected: []domain.Alert{},
		},
		{
			name:   "Um único mês nunca gera recuperação",
			ledger: marginLedger(-10),
			expected: []domain.Alert{
				{Kind: domain.AlertNegativeMargin, Period: "2024-01", Amount: decimal.NewFromInt(-10)},
			},
		},
		{
			name:   "Último mês negativo não gera recuperação",
			ledger: marginLedger(50, -20),
			expected: []domain.Alert{
				{Kind: domain.AlertNegativeMargin, Period: "2024-02", Amount: decimal.NewFromInt(-20)},
			},
		},
		{
			name:   "Último mês zero não gera recuperação",
			ledger: marginLedger(-5, 0),
			expected: []domain.Alert{
				{Kind: domain.AlertNegativeMargin, Period: "2024-01", Amount: decimal.NewFromInt(-5)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts, err := DetectAlerts(tt.ledger)
			require.NoError(t, err)
			require.Len(t, alerts, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i].Kind, alerts[i].Kind)
				assert.Equal(t, tt.expected[i].Period, alerts[i].Period)
				assert.True(t, tt.expected[i].Amount.Equal(alerts[i].Amount))
			}
		})
	}
}

func TestDetectAlerts_MissingMarginIgnored(t *testing.T) {
	ledger := domain.Ledger{
		{Period: "2024-01", OperatingMargin: val(-1)},
		{Period: "2024-02", OperatingMargin: missing},
	}

	alerts, err := DetectAlerts(ledger)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertNegativeMargin, alerts[0].Kind)
}

func TestSelectRange(t *testing.T) {
	ledger := marginLedger(1, 2, 3, 4, 5, 6)

	tests := []struct {
		name        string
		from, to    domain.Period
		policy      RangePolicy
		expected    []domain.Period
		expectedErr error
	}{
		{
			name:     "Intervalo inclusivo",
			from:     "2024-02",
			to:       "2024-04",
			expected: []domain.Period{"2024-02", "2024-03", "2024-04"},
		},
		{
			name:     "Sem limites usa o ledger completo",
			expected: []domain.Period{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"},
		},
		{
			name:     "Mês único",
			from:     "2024-05",
			to:       "2024-05",
			expected: []domain.Period{"2024-05"},
		},
		{
			name:        "Intervalo invertido é rejeitado",
			from:        "2024-05",
			to:          "2024-02",
			policy:      RejectWithError,
			expectedErr: ErrInvertedRange,
		},
		{
			name:     "Intervalo invertido com política de ledger completo",
			from:     "2024-05",
			to:       "2024-02",
			policy:   UseFullLedger,
			expected: []domain.Period{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"},
		},
		{
			name:        "Período inexistente",
			from:        "2023-12",
			to:          "2024-02",
			expectedErr: ErrUnknownPeriod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, err := SelectRange(ledger, tt.from, tt.to, tt.policy)
			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr))
				assert.Nil(t, selected)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, selected.Periods())
		})
	}
}

func TestParseRangePolicy(t *testing.T) {
	assert.Equal(t, UseFullLedger, ParseRangePolicy("full"))
	assert.Equal(t, UseFullLedger, ParseRangePolicy(" FULL "))
	assert.Equal(t, RejectWithError, ParseRangePolicy("reject"))
	assert.Equal(t, RejectWithError, ParseRangePolicy(""))
}

func TestArgMaxArgMin(t *testing.T) {
	records := DeriveAll(domain.Ledger{
		record("2024-01", val(500), missing, missing, val(100), val(10)),
		record("2024-02", val(900), missing, missing, val(100), val(-10)),
		record("2024-03", missing, missing, missing, val(100), val(-10)),
		record("2024-04", val(900), missing, missing, val(300), val(30)),
		record("2024-05", val(500), missing, missing, val(0), val(30)),
	})

	idx, ok := ArgMax(records, SalesMetric)
	require.True(t, ok)
	assert.Equal(t, 1, idx, "empate no máximo deve devolver o primeiro mês")

	idx, ok = ArgMin(records, SalesMetric)
	require.True(t, ok)
	assert.Equal(t, 0, idx, "empate no mínimo deve devolver o primeiro mês")

	idx, ok = ArgMin(records, OperatingMarginMetric)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = ArgMax(records, SalesToPayrollMetric)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = ArgMax(DeriveAll(domain.Ledger{record("2024-01", missing, missing, missing, missing, missing)}), SalesMetric)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	records := DeriveAll(domain.Ledger{
		record("2024-01", val(1000), missing, missing, val(200), val(100)),
		record("2024-02", val(3000), missing, missing, val(500), val(-50)),
		record("2024-03", val(2000), missing, missing, val(250), val(400)),
	})

	summary, err := Summarize(records)
	require.NoError(t, err)

	assert.Equal(t, domain.Period("2024-02"), summary.BestSales.Period)
	assert.Equal(t, domain.Period("2024-01"), summary.WorstSales.Period)
	assert.Equal(t, domain.Period("2024-03"), summary.BestOperatingMargin.Period)
	assert.Equal(t, domain.Period("2024-02"), summary.WorstOperatingMargin.Period)
	assert.Equal(t, domain.Period("2024-03"), summary.BestSalesToPayroll.Period)
	assert.True(t, decimal.NewFromInt(8).Equal(summary.BestSalesToPayroll.Value))
	assert.Equal(t, domain.Period("2024-01"), summary.WorstSalesToPayroll.Period)
}

func TestSalesVsAverageAndPurchaseMix(t *testing.T) {
	records := DeriveAll(domain.Ledger{
		record("2024-01", val(100), val(60), val(10), missing, missing),
		record("2024-02", val(300), val(80), missing, missing, missing),
		record("2024-03", missing, val(100), val(30), missing, missing),
	})

	series := SalesVsAverage(records)
	require.Len(t, series, 3)
	assertRatio(t, "-50", series[0].Pct)
	assertRatio(t, "50", series[1].Pct)
	assert.False(t, series[2].Pct.Defined())

	mix := PurchaseMix(records)
	assertDecimal(t, "80", mix.AvgTaxable)
	assertDecimal(t, "20", mix.AvgExempt)
}
