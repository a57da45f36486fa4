package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/testutil/memstore"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (d *memDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = ttl
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[jti]
	return ok, nil
}

func newUseCase(t *testing.T, opts ...auth.Option) (*auth.AuthUseCase, *memstore.Store, *clock) {
	t.Helper()
	store := memstore.New()
	clk := &clock{now: t0}
	cfg := auth.Config{Secret: "test-secret", Issuer: "contabilidad-test", BcryptCost: bcrypt.MinCost}
	opts = append([]auth.Option{auth.WithClock(clk.Now)}, opts...)
	return auth.NewAuthUseCase(store.Users(), store, cfg, opts...), store, clk
}

func TestRegisterAndLogin_Exitoso(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	user, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, user.Role)
	assert.Equal(t, entity.StatusActive, user.Status)
	assert.Equal(t, "u1", user.Name, "sin nombre se usa el username")

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, t0.Add(24*time.Hour), out.ExpiresAt)
	assert.Equal(t, user.ID, out.User.ID)
}

func TestRegister_GuardaHashBcrypt(t *testing.T) {
	uc, store, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)

	u, err := store.Users().GetByUsername(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEqual(t, "p1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("p1")))
}

func TestLogin_CredencialesIncorrectasIndistinguibles(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)

	_, errWrongPass := uc.Login(ctx, dto.LoginRequest{Username: "u1", Password: "nope"})
	_, errUnknown := uc.Login(ctx, dto.LoginRequest{Username: "ghost", Password: "p1"})

	assert.ErrorIs(t, errWrongPass, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errUnknown.Error())
}

func TestRegister_UsernameDuplicado(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	// El espacio alrededor no evita la colisión.
	_, err = uc.Register(ctx, dto.RegisterRequest{Username: "  u1 ", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestRegister_UsernameNormalizadoNFC(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	// "josé" con tilde combinada (NFD) y precompuesta (NFC) son el mismo usuario.
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "jos\u00e9", Password: "p1"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, dto.RegisterRequest{Username: "jose\u0301", Password: "p1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "jose\u0301", Password: "p1"})
	assert.NoError(t, err)
}

func TestRegister_RolInvalido(t *testing.T) {
	uc, _, _ := newUseCase(t)
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "u1", Password: "p1", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_PasswordLimitadoEnBytes(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	// 72 caracteres pero 144 bytes: bcrypt no lo admite.
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "mb", Password: strings.Repeat("ñ", 72)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "mb", Password: strings.Repeat("ñ", 72)})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "no debe quedar creado")

	_, err = uc.Register(ctx, dto.RegisterRequest{Username: "mb", Password: strings.Repeat("ñ", 36)})
	assert.NoError(t, err, "72 bytes exactos es el máximo aceptado")
}

func TestRegister_OwnerQuedaPendienteYNotificaOwners(t *testing.T) {
	uc, store, _ := newUseCase(t)
	ctx := context.Background()

	boss, created, err := uc.BootstrapOwner(ctx, "boss", "secret", "Jefe")
	require.NoError(t, err)
	require.True(t, created)

	pending, err := uc.Register(ctx, dto.RegisterRequest{Username: "u2", Password: "p2", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, pending.Role)
	assert.Equal(t, entity.StatusPending, pending.Status)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "u2", Password: "p2"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "una cuenta pendiente no inicia sesión")

	notes, err := store.Notifications().ListByRecipient(ctx, boss.ID, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "u2")
}

func TestRegister_PendienteRevierteSiFallaLaTransaccion(t *testing.T) {
	uc, store, _ := newUseCase(t)
	ctx := context.Background()
	_, _, err := uc.BootstrapOwner(ctx, "boss", "secret", "")
	require.NoError(t, err)

	boom := errors.New("db caída")
	store.FailNotifications = boom
	_, err = uc.Register(ctx, dto.RegisterRequest{Username: "u3", Password: "p3", Role: "owner"})
	assert.ErrorIs(t, err, boom)
	u, err := store.Users().GetByUsername(ctx, "u3")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestValidate_DevuelveLaIdentidadDelToken(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()
	user, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)

	id, err := uc.Validate(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "u1", id.Username)
	assert.Equal(t, entity.RoleStaff, id.Role)
	assert.NotEmpty(t, id.TokenID)
}

func TestValidate_ExpiraA24Horas(t *testing.T) {
	uc, _, clk := newUseCase(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)

	clk.Advance(23*time.Hour + 59*time.Minute)
	_, err = uc.Validate(ctx, out.Token)
	assert.NoError(t, err)

	clk.Advance(2 * time.Minute)
	_, err = uc.Validate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestValidate_TokenAlterado(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)

	_, err = uc.Validate(ctx, out.Token+"x")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = uc.Validate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout_SinDenylistNoCambiaEstado(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	id, err := uc.Validate(ctx, out.Token)
	require.NoError(t, err)

	assert.False(t, uc.RevocationEnabled())
	require.NoError(t, uc.Logout(ctx, *id))
	_, err = uc.Validate(ctx, out.Token)
	assert.NoError(t, err)
}

func TestLogout_ConDenylistRevocaElToken(t *testing.T) {
	deny := &memDenylist{revoked: map[string]time.Duration{}}
	uc, _, clk := newUseCase(t, auth.WithDenylist(deny))
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	id, err := uc.Validate(ctx, out.Token)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	require.NoError(t, uc.Logout(ctx, *id))
	assert.Equal(t, 23*time.Hour, deny.revoked[id.TokenID])

	_, err = uc.Validate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestUpdateProfile_CambioDePasswordExigeElActual(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()
	user, err := uc.Register(ctx, dto.RegisterRequest{Username: "u1", Password: "p1"})
	require.NoError(t, err)
	id := auth.Identity{UserID: user.ID, Username: "u1", Role: entity.RoleStaff}

	newPass := "p2"
	_, err = uc.UpdateProfile(ctx, id, dto.UpdateProfileRequest{CurrentPassword: "mal", NewPassword: &newPass})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	name := "Usuario Uno"
	out, err := uc.UpdateProfile(ctx, id, dto.UpdateProfileRequest{Name: &name, CurrentPassword: "p1", NewPassword: &newPass})
	require.NoError(t, err)
	assert.Equal(t, "Usuario Uno", out.Name)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "u1", Password: "p1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "u1", Password: "p2"})
	assert.NoError(t, err)
}

func TestMe_UsuarioEliminado(t *testing.T) {
	uc, _, _ := newUseCase(t)
	_, err := uc.Me(context.Background(), auth.Identity{UserID: 999, Role: entity.RoleStaff})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBootstrapOwner_SoloLaPrimeraVez(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	first, created, err := uc.BootstrapOwner(ctx, "boss", "secret", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.RoleOwner, first.Role)
	assert.Equal(t, entity.StatusActive, first.Status)

	_, created, err = uc.BootstrapOwner(ctx, "boss2", "secret", "")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "boss", Password: "secret"})
	assert.NoError(t, err)
}
