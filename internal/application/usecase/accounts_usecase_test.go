package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/policy"
	"github.com/jhoicas/Contabilidad-api/internal/testutil/memstore"
)

type accountsFixture struct {
	store         *memstore.Store
	auth          *auth.AuthUseCase
	users         *usecase.UserUseCase
	approvals     *usecase.ApprovalUseCase
	notifications *usecase.NotificationUseCase
	owner         policy.Subject
	staff         policy.Subject
}

func newAccounts(t *testing.T) *accountsFixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	authUC := auth.NewAuthUseCase(store.Users(), store, auth.Config{Secret: "s", Issuer: "i", BcryptCost: bcrypt.MinCost})

	boss, created, err := authUC.BootstrapOwner(ctx, "boss", "secret", "Jefe")
	require.NoError(t, err)
	require.True(t, created)
	clerk, err := authUC.Register(ctx, dto.RegisterRequest{Username: "clerk", Password: "pw"})
	require.NoError(t, err)

	return &accountsFixture{
		store:         store,
		auth:          authUC,
		users:         usecase.NewUserUseCase(store.Users(), authUC),
		approvals:     usecase.NewApprovalUseCase(store.Users(), store),
		notifications: usecase.NewNotificationUseCase(store.Notifications()),
		owner:         policy.Subject{UserID: boss.ID, Role: entity.RoleOwner},
		staff:         policy.Subject{UserID: clerk.ID, Role: entity.RoleStaff},
	}
}

func TestUsersList_SoloCuentasStaff(t *testing.T) {
	f := newAccounts(t)

	list, err := f.users.List(context.Background(), as(f.owner, policy.Users, policy.Read), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "clerk", list.Items[0].Username)
	assert.Equal(t, 1, list.Page.Total)

	_, err = f.users.List(context.Background(), as(f.staff, policy.Users, policy.Read), dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUsersUpdate_OwnerCambiaPasswordDeStaff(t *testing.T) {
	f := newAccounts(t)
	ctx := context.Background()

	pw, name := "nueva", "Cajero"
	out, err := f.users.Update(ctx, as(f.owner, policy.Users, policy.Update), f.staff.UserID, dto.UpdateUserRequest{Name: &name, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "Cajero", out.Name)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Username: "clerk", Password: "nueva"})
	assert.NoError(t, err)
}

func TestUsers_OwnerNoGestionaOtroOwner(t *testing.T) {
	f := newAccounts(t)
	ctx := context.Background()
	other, err := f.auth.Register(ctx, dto.RegisterRequest{Username: "socio", Password: "pw", Role: "owner"})
	require.NoError(t, err)

	err = f.users.Delete(ctx, as(f.owner, policy.Users, policy.Delete), other.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.users.Delete(ctx, as(f.owner, policy.Users, policy.Delete), f.owner.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	name := "x"
	_, err = f.users.Update(ctx, as(f.owner, policy.Users, policy.Update), other.ID, dto.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.users.Delete(ctx, as(f.owner, policy.Users, policy.Delete), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUsersDelete_EliminaStaff(t *testing.T) {
	f := newAccounts(t)
	ctx := context.Background()

	require.NoError(t, f.users.Delete(ctx, as(f.owner, policy.Users, policy.Delete), f.staff.UserID))
	_, err := f.users.GetByID(ctx, as(f.owner, policy.Users, policy.Read), f.staff.UserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApproval_PendienteNoEntraHastaSerAprobado(t *testing.T) {
	f := newAccounts(t)
	ctx := context.Background()
	pending, err := f.auth.Register(ctx, dto.RegisterRequest{Username: "socio", Password: "pw", Role: "admin"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Username: "socio", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	list, err := f.approvals.List(ctx, as(f.owner, policy.Approvals, policy.Read), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, pending.ID, list.Items[0].ID)

	approved, err := f.approvals.Approve(ctx, as(f.owner, policy.Approvals, policy.Approve), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, approved.Status)
	assert.Equal(t, entity.RoleOwner, approved.Role)

	login, err := f.auth.Login(ctx, dto.LoginRequest{Username: "socio", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, login.User.Role)

	// El aprobado recibió su notificación.
	socio := policy.Subject{UserID: pending.ID, Role: entity.RoleOwner}
	inbox, err := f.notifications.List(ctx, as(socio, policy.Notifications, policy.Read), true, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, inbox.Items, 1)
	assert.Equal(t, "Cuenta aprobada", inbox.Items[0].Title)

	// Ya no está pendiente.
	_, err = f.approvals.Approve(ctx, as(f.owner, policy.Approvals, policy.Approve), pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApproval_RechazoEliminaLaCuenta(t *testing.T) {
	f := newAccounts(t)
	ctx := context.Background()
	pending, err := f.auth.Register(ctx, dto.RegisterRequest{Username: "socio", Password: "pw", Role: "owner"})
	require.NoError(t, err)

	require.NoError(t, f.approvals.Reject(ctx, as(f.owner, policy.Approvals, policy.Reject), pending.ID))
	u, err := f.store.Users().GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Nil(t, u)

	// Una cuenta activa no se rechaza.
	err = f.approvals.Reject(ctx, as(f.owner, policy.Approvals, policy.Reject), f.staff.UserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.approvals.Reject(ctx, as(f.staff, policy.Approvals, policy.Reject), pending.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestNotifications_SoloDelDestinatario(t *testing.T) {
	f := newAccounts(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, dto.RegisterRequest{Username: "socio", Password: "pw", Role: "owner"})
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, dto.RegisterRequest{Username: "socio2", Password: "pw", Role: "owner"})
	require.NoError(t, err)

	ownerRead := as(f.owner, policy.Notifications, policy.Read)
	inbox, err := f.notifications.List(ctx, ownerRead, false, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, inbox.Items, 2)
	assert.Equal(t, 2, inbox.Unread)

	staffInbox, err := f.notifications.List(ctx, as(f.staff, policy.Notifications, policy.Read), false, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, staffInbox.Items)

	noteID := inbox.Items[0].ID
	err = f.notifications.MarkRead(ctx, as(f.staff, policy.Notifications, policy.Update), noteID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "no se marcan notificaciones ajenas")
	err = f.notifications.Delete(ctx, as(f.staff, policy.Notifications, policy.Delete), noteID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.notifications.MarkRead(ctx, as(f.owner, policy.Notifications, policy.Update), noteID))
	inbox, err = f.notifications.List(ctx, ownerRead, true, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, inbox.Items, 1)
	assert.Equal(t, 1, inbox.Unread)

	n, err := f.notifications.MarkAllRead(ctx, as(f.owner, policy.Notifications, policy.Update))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, f.notifications.Delete(ctx, as(f.owner, policy.Notifications, policy.Delete), noteID))
	inbox, err = f.notifications.List(ctx, ownerRead, false, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, inbox.Items, 1)
	assert.Equal(t, 0, inbox.Unread)
}
