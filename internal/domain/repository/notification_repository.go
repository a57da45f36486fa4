package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para Notification.
// Todas las lecturas y escrituras se filtran por destinatario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByRecipient(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	// Count cuenta las notificaciones del destinatario; unreadOnly limita a las no leídas.
	Count(ctx context.Context, userID int64, unreadOnly bool) (int, error)
	MarkRead(ctx context.Context, id, userID int64, at time.Time) error
	MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error)
	Delete(ctx context.Context, id, userID int64) error
}
