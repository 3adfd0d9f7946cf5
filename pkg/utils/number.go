package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RoundWithTwoDecimalPlace arredonda para duas casas, metade para longe do zero
func RoundWithTwoDecimalPlace(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func RoundWithOneDecimalPlace(d decimal.Decimal) decimal.Decimal {
	return d.Round(1)
}

// Percentage devolve numerator / denominator * 100 sem arredondar.
// ok é falso quando o denominador é zero.
func Percentage(numerator, denominator decimal.Decimal) (decimal.Decimal, bool) {
	if denominator.IsZero() {
		return decimal.Zero, false
	}
	return numerator.Mul(hundred).Div(denominator), true
}
