package ports

import (
	"context"
	"time"
)

// TokenDenylist registra tokens revocados por su jti hasta que expiran.
// Es opcional: sin implementación el logout solo descarta el token en el cliente.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
