package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/policy"
	"github.com/jhoicas/Contabilidad-api/internal/infrastructure/metrics"
)

// Locals keys para la identidad y el actor autorizado en Fiber.
const (
	LocalIdentity = "identity"
	LocalActor    = "actor"
)

// TokenValidator valida un token de sesión y devuelve la identidad.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*auth.Identity, error)
}

// AuthMiddleware valida el Bearer Token y guarda la identidad en c.Locals.
func AuthMiddleware(v TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fmt.Errorf("%w: Authorization header requerido", domain.ErrInvalidToken)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fmt.Errorf("%w: formato Bearer <token>", domain.ErrInvalidToken)
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return fmt.Errorf("%w: token vacío", domain.ErrInvalidToken)
		}
		identity, err := v.Validate(c.UserContext(), tokenString)
		if err != nil {
			return err
		}
		c.Locals(LocalIdentity, *identity)
		return c.Next()
	}
}

// Authorize evalúa la política para resource/action con la identidad del request.
// Si se deniega responde 403; si se permite guarda el actor (identidad + alcance) en c.Locals.
func Authorize(resource policy.Resource, action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return domain.ErrInvalidToken
		}
		actor := usecase.ActorFor(identity.Subject(), resource, action)
		if !actor.Decision.Allowed {
			metrics.AuthorizationDeniedTotal.WithLabelValues(string(resource), string(action)).Inc()
			return fmt.Errorf("%w: %s", domain.ErrForbidden, actor.Decision.Reason)
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad autenticada (después de AuthMiddleware).
func GetIdentity(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(LocalIdentity).(auth.Identity)
	return id, ok
}

// GetActor devuelve el actor autorizado (después de Authorize). Sin actor, la decisión es denegar.
func GetActor(c *fiber.Ctx) usecase.Actor {
	actor, _ := c.Locals(LocalActor).(usecase.Actor)
	return actor
}
