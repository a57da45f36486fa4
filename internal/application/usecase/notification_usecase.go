package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// NotificationUseCase bandeja de notificaciones del usuario autenticado.
// Toda operación se restringe al destinatario: nadie ve ni modifica notificaciones ajenas.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List devuelve las notificaciones del actor, más recientes primero, con el total sin leer.
func (uc *NotificationUseCase) List(ctx context.Context, actor Actor, unreadOnly bool, page dto.PageRequest) (*dto.NotificationListResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	uid := actor.Subject.UserID
	list, err := uc.repo.ListByRecipient(ctx, uid, unreadOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.Count(ctx, uid, true)
	if err != nil {
		return nil, err
	}
	total := unread
	if !unreadOnly {
		if total, err = uc.repo.Count(ctx, uid, false); err != nil {
			return nil, err
		}
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, toNotificationResponse(n))
	}
	return &dto.NotificationListResponse{
		Items:  items,
		Unread: unread,
		Page:   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// MarkRead marca una notificación propia como leída. Marcarla otra vez no cambia la fecha.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, actor Actor, id int64) error {
	if err := actor.require(); err != nil {
		return err
	}
	return uc.repo.MarkRead(ctx, id, actor.Subject.UserID, time.Now())
}

// MarkAllRead marca todas las notificaciones propias y devuelve cuántas cambiaron.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	if err := actor.require(); err != nil {
		return 0, err
	}
	return uc.repo.MarkAllRead(ctx, actor.Subject.UserID, time.Now())
}

// Delete elimina una notificación propia.
func (uc *NotificationUseCase) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := actor.require(); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id, actor.Subject.UserID)
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.ReadAt != nil,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}
