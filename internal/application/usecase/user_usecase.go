package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/policy"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// PasswordHasher genera hashes de password con el costo configurado.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// UserUseCase administración de cuentas staff por parte de un owner.
type UserUseCase struct {
	repo   repository.UserRepository
	hasher PasswordHasher
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, hasher PasswordHasher) *UserUseCase {
	return &UserUseCase{repo: repo, hasher: hasher}
}

// List lista solo cuentas staff.
func (uc *UserUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) (*dto.UserListResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.ListByRole(ctx, entity.RoleStaff, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	all, err := uc.repo.ListIDs(ctx, entity.RoleStaff, entity.StatusActive)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(all)},
	}, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, actor Actor, id int64) (*dto.UserResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return auth.ToUserResponse(user), nil
}

// Update cambia nombre y/o password de una cuenta staff. Sobre un owner devuelve ErrForbidden.
func (uc *UserUseCase) Update(ctx context.Context, actor Actor, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	user, err := uc.managedUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := norm.NFC.String(strings.TrimSpace(*in.Name))
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = name
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.ErrInvalidInput
		}
		hash, err := uc.hasher.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Delete elimina una cuenta staff. Sobre un owner devuelve ErrForbidden.
func (uc *UserUseCase) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := actor.require(); err != nil {
		return err
	}
	if _, err := uc.managedUser(ctx, actor, id); err != nil {
		return err
	}
	// El filtro por rol evita borrar una cuenta que cambió de rol entre la lectura y el DELETE.
	return uc.repo.DeleteWithRole(ctx, id, entity.RoleStaff)
}

func (uc *UserUseCase) managedUser(ctx context.Context, actor Actor, id int64) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if !policy.CanManageUser(actor.Subject, user.Role).Allowed {
		return nil, domain.ErrForbidden
	}
	return user, nil
}
