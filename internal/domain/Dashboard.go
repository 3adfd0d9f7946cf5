package domain

import "github.com/shopspring/decimal"

// Aggregate reúne os totais e indicadores de um intervalo de meses
type Aggregate struct {
	Months                 int                 `json:"months"`
	TotalSales             decimal.NullDecimal `json:"total_sales"`
	AvgSales               decimal.NullDecimal `json:"avg_sales"`
	TotalPurchases         decimal.NullDecimal `json:"total_purchases"`
	TotalPayroll           decimal.NullDecimal `json:"total_payroll"`
	TotalGrossMargin       decimal.NullDecimal `json:"total_gross_margin"`
	GrossMarginPct         Ratio               `json:"gross_margin_pct"`
	TotalOperatingMargin   decimal.NullDecimal `json:"total_operating_margin"`
	AvgOperatingMargin     decimal.NullDecimal `json:"avg_operating_margin"`
	OperatingMarginPct     Ratio               `json:"operating_margin_pct"`
	AvgSalesToPayrollRatio Ratio               `json:"avg_sales_to_payroll_ratio"`
}

type AggregateDisplay struct {
	TotalSales             string `json:"total_sales"`
	AvgSales               string `json:"avg_sales"`
	TotalPurchases         string `json:"total_purchases"`
	TotalPayroll           string `json:"total_payroll"`
	TotalGrossMargin       string `json:"total_gross_margin"`
	GrossMarginPct         string `json:"gross_margin_pct"`
	TotalOperatingMargin   string `json:"total_operating_margin"`
	AvgOperatingMargin     string `json:"avg_operating_margin"`
	OperatingMarginPct     string `json:"operating_margin_pct"`
	AvgSalesToPayrollRatio string `json:"avg_sales_to_payroll_ratio"`
}

// Extreme é o mês com o maior ou menor valor de uma métrica
type Extreme struct {
	Period  Period          `json:"period"`
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display"`
}

// ExecutiveSummary contém os melhores e piores meses do intervalo. Campos nulos
// indicam que nenhum mês tinha valor para a métrica.
type ExecutiveSummary struct {
	BestSales            *Extreme `json:"best_sales"`
	WorstSales           *Extreme `json:"worst_sales"`
	BestOperatingMargin  *Extreme `json:"best_operating_margin"`
	WorstOperatingMargin *Extreme `json:"worst_operating_margin"`
	BestSalesToPayroll   *Extreme `json:"best_sales_to_payroll"`
	WorstSalesToPayroll  *Extreme `json:"worst_sales_to_payroll"`
}

// SalesDeviation é a diferença percentual das vendas de um mês contra a média do intervalo
type SalesDeviation struct {
	Period  Period `json:"period"`
	Pct     Ratio  `json:"pct"`
	Display string `json:"display"`
}

// PurchaseMix é a composição média das compras (gravadas e isentas)
type PurchaseMix struct {
	AvgTaxable        decimal.NullDecimal `json:"avg_taxable"`
	AvgExempt         decimal.NullDecimal `json:"avg_exempt"`
	AvgTaxableDisplay string              `json:"avg_taxable_display"`
	AvgExemptDisplay  string              `json:"avg_exempt_display"`
}

type MonthDisplay struct {
	Sales               string `json:"sales"`
	TaxablePurchases    string `json:"taxable_purchases"`
	ExemptPurchases     string `json:"exempt_purchases"`
	TotalPurchases      string `json:"total_purchases"`
	Payroll             string `json:"payroll_and_contributions"`
	GrossMargin         string `json:"gross_margin"`
	OperatingMargin     string `json:"operating_margin"`
	GrossMarginPct      string `json:"gross_margin_pct"`
	OperatingMarginPct  string `json:"operating_margin_pct"`
	SalesToPayrollRatio string `json:"sales_to_payroll_ratio"`
}

type DashboardMonth struct {
	DerivedRecord
	Display MonthDisplay `json:"display"`
}

type ClientHeader struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Dashboard struct {
	Client           ClientHeader      `json:"client"`
	HasData          bool              `json:"has_data"`
	SourceFile       string            `json:"source_file,omitempty"`
	Periods          []Period          `json:"periods"`
	Range            PeriodRange       `json:"range"`
	Months           []DashboardMonth  `json:"months"`
	Aggregate        *Aggregate        `json:"aggregate,omitempty"`
	AggregateDisplay *AggregateDisplay `json:"aggregate_display,omitempty"`
	Alerts           []Alert           `json:"alerts"`
	Summary          *ExecutiveSummary `json:"summary,omitempty"`
	SalesVsAverage   []SalesDeviation  `json:"sales_vs_average"`
	PurchaseMix      *PurchaseMix      `json:"purchase_mix,omitempty"`
}

type BenchmarkEntry struct {
	Label                       string              `json:"label"`
	Months                      int                 `json:"months"`
	TotalSales                  decimal.NullDecimal `json:"total_sales"`
	TotalOperatingMargin        decimal.NullDecimal `json:"total_operating_margin"`
	OperatingMarginPct          Ratio               `json:"operating_margin_pct"`
	TotalSalesDisplay           string              `json:"total_sales_display"`
	TotalOperatingMarginDisplay string              `json:"total_operating_margin_display"`
	OperatingMarginPctDisplay   string              `json:"operating_margin_pct_display"`
}

type Benchmark struct {
	Entries []BenchmarkEntry `json:"entries"`
}
