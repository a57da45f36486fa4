package repository

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// PriceItemFilter criterios de listado de la lista de precios.
type PriceItemFilter struct {
	Search   string // coincide con código o nombre
	Category string
	Limit    int
	Offset   int
}

// PriceItemRepository define el puerto de persistencia para la lista de precios.
type PriceItemRepository interface {
	Create(ctx context.Context, item *entity.PriceItem) error
	GetByID(ctx context.Context, id int64) (*entity.PriceItem, error)
	GetByCode(ctx context.Context, code string) (*entity.PriceItem, error)
	List(ctx context.Context, f PriceItemFilter) ([]*entity.PriceItem, error)
	Count(ctx context.Context, f PriceItemFilter) (int, error)
	Update(ctx context.Context, item *entity.PriceItem) error
	Delete(ctx context.Context, id int64) error
	// Sell descuenta qty de forma atómica solo si stock >= qty.
	// ErrInsufficientStock si no alcanza, ErrNotFound si el artículo no existe.
	Sell(ctx context.Context, id int64, qty int) (*entity.PriceItem, error)
	// Restock suma qty de forma atómica. ErrNotFound si el artículo no existe.
	Restock(ctx context.Context, id int64, qty int) (*entity.PriceItem, error)
	// UpsertByCode inserta o actualiza por código (importación).
	UpsertByCode(ctx context.Context, item *entity.PriceItem) error
}
