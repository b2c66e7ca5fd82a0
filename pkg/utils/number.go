package utils

import "github.com/shopspring/decimal"

func RoundWithTwoDecimalPlace(f float64) float64 {
	return Round(f, 2)
}

// Round arredonda para `places` casas decimais, metade para longe do zero
func Round(f float64, places int32) float64 {
	if f == 0 {
		return 0
	}

	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}

// RoundToUnit arredonda para a unidade mais próxima
func RoundToUnit(f float64) float64 {
	return Round(f, 0)
}

// PercentChange retorna a variação percentual de `from` para `to`.
// Retorna false quando `from` é zero e a variação é indefinida.
func PercentChange(from, to float64) (float64, bool) {
	if from == 0 {
		return 0, false
	}

	return decimal.NewFromFloat(to).
		Div(decimal.NewFromFloat(from)).
		Sub(decimal.NewFromInt(1)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64(), true
}
