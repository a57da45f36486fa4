package ports

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// AccountsTxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Se usa cuando un cambio de cuenta y sus notificaciones deben confirmarse juntos
// (registro pendiente, aprobación).
type AccountsTxRunner interface {
	RunAccounts(ctx context.Context, fn func(
		users repository.UserRepository,
		notifications repository.NotificationRepository,
	) error) error
}
