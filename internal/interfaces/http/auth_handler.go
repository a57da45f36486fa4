package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/infrastructure/metrics"
)

// AuthHandler maneja registro, login, logout y perfil propio.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario
// @Description  role vacío o "staff" crea una cuenta activa; "owner" o "admin" queda pendiente de aprobación.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "username, password, name, role"
// @Success      201   {object}  dto.Envelope{data=dto.UserResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	user, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	if user.Status == entity.StatusPending {
		return c.Status(fiber.StatusCreated).JSON(dto.Envelope{
			Success: true,
			Message: "registro recibido, pendiente de aprobación por un owner",
			Data:    user,
		})
	}
	return respond(c, fiber.StatusCreated, user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.Envelope{data=dto.LoginResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	switch {
	case err == nil:
		metrics.LoginsTotal.WithLabelValues("success").Inc()
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return err
	default:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Sin denylist configurada el cliente descarta el token; con denylist queda revocado hasta su expiración.
// @Tags         auth
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.Envelope
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrInvalidToken
	}
	if err := h.uc.Logout(c.UserContext(), identity); err != nil {
		return err
	}
	return respondMessage(c, "sesión cerrada")
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.Envelope{data=dto.UserResponse}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrInvalidToken
	}
	user, err := h.uc.Me(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil propio
// @Description  Cambiar la contraseña exige current_password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.UpdateProfileRequest  true  "name, current_password, new_password"
// @Success      200   {object}  dto.Envelope{data=dto.UserResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return domain.ErrInvalidToken
	}
	var in dto.UpdateProfileRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	user, err := h.uc.UpdateProfile(c.UserContext(), identity, in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, user)
}
