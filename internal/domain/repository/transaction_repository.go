package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// TransactionFilter criterios de listado. OwnerID != nil restringe a las filas de ese usuario.
type TransactionFilter struct {
	OwnerID *int64
	Type    string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// TransactionRepository define el puerto de persistencia para Transaction.
// Toda operación sobre una fila recibe ownerID: si no es nil la fila debe pertenecerle,
// de lo contrario se comporta como inexistente.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id int64, ownerID *int64) (*entity.Transaction, error)
	List(ctx context.Context, f TransactionFilter) ([]*entity.Transaction, error)
	Count(ctx context.Context, f TransactionFilter) (int, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int, amount decimal.Decimal) (*entity.Transaction, error)
	Delete(ctx context.Context, id int64, ownerID *int64) error
}
