package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/ports"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/policy"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Contabilidad-api/pkg/jwt"
)

// TokenTTL vigencia fija de un token de sesión.
const TokenTTL = 24 * time.Hour

// MaxPasswordBytes límite de bcrypt en bytes, no en caracteres.
const MaxPasswordBytes = 72

// Config parámetros de firma de tokens y hashing.
type Config struct {
	Secret     string
	Issuer     string
	BcryptCost int
}

// Identity identidad extraída de un token válido.
type Identity struct {
	UserID    int64
	Username  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Subject convierte la identidad en el sujeto que evalúa la política.
func (i Identity) Subject() policy.Subject {
	return policy.Subject{UserID: i.UserID, Role: i.Role}
}

// Option configura opciones del caso de uso.
type Option func(*AuthUseCase)

// WithClock reemplaza el reloj (tests de expiración).
func WithClock(now func() time.Time) Option {
	return func(uc *AuthUseCase) { uc.now = now }
}

// WithDenylist habilita la revocación de tokens en logout.
func WithDenylist(d ports.TokenDenylist) Option {
	return func(uc *AuthUseCase) { uc.denylist = d }
}

// AuthUseCase casos de uso de autenticación: registro, login, validación de tokens y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	txRunner ports.AccountsTxRunner
	denylist ports.TokenDenylist
	cfg      Config
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, txRunner ports.AccountsTxRunner, cfg Config, opts ...Option) *AuthUseCase {
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	uc := &AuthUseCase{userRepo: userRepo, txRunner: txRunner, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// RevocationEnabled informa si el logout revoca el token en el servidor.
func (uc *AuthUseCase) RevocationEnabled() bool {
	return uc.denylist != nil
}

// Register crea un usuario. Un staff queda activo; un owner (o "admin") queda pendiente
// de aprobación y se notifica a los owners activos en la misma transacción.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := NormalizeUsername(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	role, status, err := requestedAccess(in.Role)
	if err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUsername
	}
	hash, err := uc.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	name := norm.NFC.String(strings.TrimSpace(in.Name))
	if name == "" {
		name = username
	}
	now := uc.now()
	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if status == entity.StatusActive {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		return ToUserResponse(user), nil
	}

	err = uc.txRunner.RunAccounts(ctx, func(users repository.UserRepository, notifications repository.NotificationRepository) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		ownerIDs, err := users.ListIDs(ctx, entity.RoleOwner, entity.StatusActive)
		if err != nil {
			return err
		}
		for _, id := range ownerIDs {
			n := &entity.Notification{
				UserID:    id,
				Title:     "Nueva solicitud de aprobación",
				Message:   fmt.Sprintf("%s (%s) solicitó acceso como owner", user.Name, user.Username),
				CreatedAt: now,
			}
			if err := notifications.Create(ctx, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// requestedAccess traduce el rol solicitado en rol y estado iniciales.
func requestedAccess(requested string) (role, status string, err error) {
	switch strings.ToLower(strings.TrimSpace(requested)) {
	case "", entity.RoleStaff:
		return entity.RoleStaff, entity.StatusActive, nil
	case entity.RoleOwner, "admin":
		return entity.RoleOwner, entity.StatusPending, nil
	default:
		return "", "", domain.ErrInvalidInput
	}
}

// Login verifica usuario/password y emite un token de 24h.
// Usuario inexistente, password incorrecto y cuenta pendiente devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, NormalizeUsername(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Igualar el tiempo de respuesta con el de un usuario existente.
		_ = bcrypt.CompareHashAndPassword(uc.dummy(), []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, domain.ErrInvalidCredentials
	}
	now := uc.now()
	token, err := jwt.Generate(uc.cfg.Secret, user.ID, user.Username, user.Role, uc.cfg.Issuer, TokenTTL, now)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: now.Add(TokenTTL),
		User:      *ToUserResponse(user),
	}, nil
}

// Validate verifica firma, emisor y expiración del token y, si hay denylist, que no esté revocado.
func (uc *AuthUseCase) Validate(ctx context.Context, token string) (*Identity, error) {
	claims, err := jwt.Parse(uc.cfg.Secret, uc.cfg.Issuer, token, uc.now())
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if uc.denylist != nil {
		revoked, err := uc.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("consultar revocación: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidToken
		}
	}
	return &Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revoca el token hasta su expiración si hay denylist; si no, no cambia estado en el servidor.
func (uc *AuthUseCase) Logout(ctx context.Context, id Identity) error {
	if uc.denylist == nil || id.TokenID == "" {
		return nil
	}
	ttl := id.ExpiresAt.Sub(uc.now())
	if ttl <= 0 {
		return nil
	}
	return uc.denylist.Revoke(ctx, id.TokenID, ttl)
}

// Me devuelve la cuenta del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, id Identity) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return ToUserResponse(user), nil
}

// UpdateProfile cambia nombre y/o password de la propia cuenta. El cambio de password exige el actual.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, id Identity, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := norm.NFC.String(strings.TrimSpace(*in.Name))
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = name
	}
	if in.NewPassword != nil {
		if *in.NewPassword == "" {
			return nil, domain.ErrInvalidInput
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			return nil, domain.ErrInvalidCredentials
		}
		hash, err := uc.HashPassword(*in.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// BootstrapOwner crea el primer owner activo si todavía no existe ninguno.
// Devuelve created=false sin error cuando ya hay un owner.
func (uc *AuthUseCase) BootstrapOwner(ctx context.Context, username, password, name string) (*dto.UserResponse, bool, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, false, domain.ErrInvalidInput
	}
	exists, err := uc.userRepo.ExistsByRole(ctx, entity.RoleOwner)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, nil
	}
	hash, err := uc.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = username
	}
	now := uc.now()
	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Name:         norm.NFC.String(name),
		Role:         entity.RoleOwner,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return ToUserResponse(user), true, nil
}

// HashPassword genera el hash bcrypt con el costo configurado. bcrypt solo admite
// MaxPasswordBytes bytes; una contraseña más larga es entrada inválida.
func (uc *AuthUseCase) HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password admite como máximo %d bytes", domain.ErrInvalidInput, MaxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (uc *AuthUseCase) dummy() []byte {
	uc.dummyOnce.Do(func() {
		uc.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), uc.cfg.BcryptCost)
	})
	return uc.dummyHash
}

// NormalizeUsername recorta espacios y normaliza a NFC. La comparación sigue siendo sensible a mayúsculas.
func NormalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ToUserResponse convierte la entidad en DTO sin exponer el hash.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
