package domain

import "time"

// PeriodLayout é o formato canônico de um período mensal (YYYY-MM)
const PeriodLayout = "2006-01"

// Period identifica uma coluna mensal da planilha. Normalmente no formato
// YYYY-MM, mas cabeçalhos que não são datas são mantidos como os primeiros
// sete caracteres do texto original.
type Period string

func PeriodOf(t time.Time) Period {
	return Period(t.Format(PeriodLayout))
}

func (p Period) String() string {
	return string(p)
}

// PeriodRange é um intervalo inclusivo de períodos pedido pelo cliente
type PeriodRange struct {
	From Period `json:"from"`
	To   Period `json:"to"`
}

// IsZero indica que nenhum intervalo foi informado
func (r PeriodRange) IsZero() bool {
	return r.From == "" && r.To == ""
}
