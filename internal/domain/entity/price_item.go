package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceItem representa un artículo de la lista de precios con su existencia.
// Stock nunca queda negativo: las ventas solo descuentan si hay existencia suficiente.
type PriceItem struct {
	ID             int64
	Code           string // código único del producto
	Name           string
	Category       string
	Brand          string
	Price          decimal.Decimal
	Stock          int
	SoldCount      int // unidades vendidas acumuladas
	PurchasedCount int // unidades repuestas acumuladas
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
