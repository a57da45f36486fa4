package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción.
const (
	TransactionSale    = "sale"
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction representa una venta, ingreso o gasto registrado por un usuario.
// OwnerID se fija al crear desde la identidad autenticada y nunca se reasigna.
type Transaction struct {
	ID        int64
	Type      string
	Product   string
	Quantity  int
	Price     decimal.Decimal // precio unitario (opcional)
	Amount    decimal.Decimal // total de la transacción
	Note      string
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidTransactionType informa si t es un tipo de transacción soportado.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionSale, TransactionIncome, TransactionExpense:
		return true
	}
	return false
}
