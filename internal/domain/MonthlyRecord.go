package domain

import "github.com/shopspring/decimal"

// MonthlyRecord representa as cifras de um mês da planilha. Valores ausentes
// ou não numéricos ficam com Valid == false, nunca zero.
type MonthlyRecord struct {
	Period                  Period              `json:"period"`
	Sales                   decimal.NullDecimal `json:"sales"`
	TaxablePurchases        decimal.NullDecimal `json:"taxable_purchases"`
	ExemptPurchases         decimal.NullDecimal `json:"exempt_purchases"`
	PayrollAndContributions decimal.NullDecimal `json:"payroll_and_contributions"`
	OperatingMargin         decimal.NullDecimal `json:"operating_margin"`
}

// Ledger é a sequência de registros mensais na ordem das colunas da planilha
type Ledger []MonthlyRecord

func (l Ledger) Periods() []Period {
	periods := make([]Period, 0, len(l))
	for _, record := range l {
		periods = append(periods, record.Period)
	}
	return periods
}

// IndexOf devolve a posição do período no ledger, ou -1 quando não existe
func (l Ledger) IndexOf(period Period) int {
	for i, record := range l {
		if record.Period == period {
			return i
		}
	}
	return -1
}

// Slice devolve uma cópia do trecho [i, j)
func (l Ledger) Slice(i, j int) Ledger {
	return append(Ledger(nil), l[i:j]...)
}

func (l Ledger) Last() (MonthlyRecord, bool) {
	if len(l) == 0 {
		return MonthlyRecord{}, false
	}
	return l[len(l)-1], true
}

// DerivedRecord é um registro mensal acrescido dos indicadores calculados
type DerivedRecord struct {
	MonthlyRecord
	TotalPurchases      decimal.NullDecimal `json:"total_purchases"`
	GrossMargin         decimal.NullDecimal `json:"gross_margin"`
	GrossMarginPct      Ratio               `json:"gross_margin_pct"`
	OperatingMarginPct  Ratio               `json:"operating_margin_pct"`
	SalesToPayrollRatio Ratio               `json:"sales_to_payroll_ratio"`
}
