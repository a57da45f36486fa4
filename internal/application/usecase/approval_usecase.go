package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/ports"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// ApprovalUseCase resolución de solicitudes de acceso: cuentas owner en estado pending.
type ApprovalUseCase struct {
	users    repository.UserRepository
	txRunner ports.AccountsTxRunner
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(users repository.UserRepository, txRunner ports.AccountsTxRunner) *ApprovalUseCase {
	return &ApprovalUseCase{users: users, txRunner: txRunner}
}

// List lista las cuentas pendientes de aprobación.
func (uc *ApprovalUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) (*dto.UserListResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.users.ListByStatus(ctx, entity.StatusPending, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	pending, err := uc.users.ListIDs(ctx, entity.RoleOwner, entity.StatusPending)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(pending)},
	}, nil
}

// Approve activa la cuenta y notifica al usuario en la misma transacción.
// Un id que no está pendiente devuelve ErrNotFound.
func (uc *ApprovalUseCase) Approve(ctx context.Context, actor Actor, id int64) (*dto.UserResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	var approved *entity.User
	err := uc.txRunner.RunAccounts(ctx, func(users repository.UserRepository, notifications repository.NotificationRepository) error {
		if err := users.Activate(ctx, id); err != nil {
			return err
		}
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrNotFound
		}
		approved = u
		return notifications.Create(ctx, &entity.Notification{
			UserID:    u.ID,
			Title:     "Cuenta aprobada",
			Message:   "Tu solicitud de acceso como " + u.Role + " fue aprobada. Ya puedes iniciar sesión.",
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(approved), nil
}

// Reject elimina la cuenta pendiente. No es reversible.
func (uc *ApprovalUseCase) Reject(ctx context.Context, actor Actor, id int64) error {
	if err := actor.require(); err != nil {
		return err
	}
	return uc.users.DeleteWithStatus(ctx, id, entity.StatusPending)
}
