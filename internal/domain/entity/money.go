package entity

import "github.com/shopspring/decimal"

// Límites de las columnas: NUMERIC(18,2) para dinero e INTEGER para cantidades.
const (
	MoneyScale  = 2
	MaxQuantity = 1_000_000
	MaxStock    = 1_000_000_000
)

// maxMoney primer valor que ya no cabe en NUMERIC(18,2): 16 dígitos enteros.
var maxMoney = decimal.New(1, 16)

// RoundMoney lleva el valor a la escala con la que se guarda.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// MoneyInRange informa si d (ya redondeado) cabe en la columna de montos.
func MoneyInRange(d decimal.Decimal) bool {
	return d.Abs().LessThan(maxMoney)
}
