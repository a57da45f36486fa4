package repository

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos de búsqueda devuelven (nil, nil) cuando no hay fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByRole(ctx context.Context, role string, limit, offset int) ([]*entity.User, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.User, error)
	ListIDs(ctx context.Context, role, status string) ([]int64, error)
	ExistsByRole(ctx context.Context, role string) (bool, error)
	// Activate pasa una cuenta pending a active; ErrNotFound si no hay cuenta pending con ese id.
	Activate(ctx context.Context, id int64) error
	// DeleteWithStatus elimina solo si la fila tiene ese estado; ErrNotFound si no.
	DeleteWithStatus(ctx context.Context, id int64, status string) error
	// DeleteWithRole elimina solo si la fila tiene ese rol; ErrNotFound si no.
	DeleteWithRole(ctx context.Context, id int64, role string) error
}
