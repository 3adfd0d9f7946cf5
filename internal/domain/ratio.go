package domain

import (
	"github.com/shopspring/decimal"
)

// Ratio é um percentual ou razão que pode estar indefinido (denominador zero
// ou operandos ausentes). Indefinido é serializado como null.
type Ratio struct {
	value   decimal.Decimal
	defined bool
}

// UndefinedRatio é o valor sentinela de razão indefinida
var UndefinedRatio = Ratio{}

func NewRatio(value decimal.Decimal) Ratio {
	return Ratio{value: value, defined: true}
}

func (r Ratio) Defined() bool {
	return r.defined
}

// Value devolve o valor da razão; zero quando indefinida
func (r Ratio) Value() decimal.Decimal {
	return r.value
}

func (r Ratio) Equal(other Ratio) bool {
	if r.defined != other.defined {
		return false
	}
	return !r.defined || r.value.Equal(other.value)
}

func (r Ratio) String() string {
	if !r.defined {
		return "N/A"
	}
	return r.value.String()
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return []byte(r.value.String()), nil
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = UndefinedRatio
		return nil
	}

	var value decimal.Decimal
	if err := value.UnmarshalJSON(data); err != nil {
		return err
	}

	*r = NewRatio(value)
	return nil
}
