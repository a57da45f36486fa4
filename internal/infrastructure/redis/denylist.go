package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Contabilidad-api/internal/application/ports"
)

var _ ports.TokenDenylist = (*Denylist)(nil)

// Denylist registro de tokens revocados respaldado por Redis.
// Formato de clave: revoked:<jti>. La clave expira junto con el token.
type Denylist struct {
	client *redis.Client
}

// NewDenylist crea la denylist sobre el cliente dado.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Revoke marca el jti como revocado durante ttl.
func (d *Denylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// IsRevoked informa si el jti fue revocado y aún no expiró.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("consultar revocación: %w", err)
	}
	return n > 0, nil
}

func key(jti string) string {
	return "revoked:" + jti
}
