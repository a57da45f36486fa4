package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

func TestWhereClause_SinFiltros(t *testing.T) {
	where, args := whereClause(repository.TransactionFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestWhereClause_PropietarioPrimero(t *testing.T) {
	owner := int64(7)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	where, args := whereClause(repository.TransactionFilter{OwnerID: &owner, Type: "sale", From: &from})

	assert.Equal(t, " WHERE owner_id = $1 AND type = $2 AND created_at >= $3", where)
	assert.Equal(t, []any{int64(7), "sale", from}, args)
}

func TestPriceItemWhere_EscapaComodines(t *testing.T) {
	where, args := priceItemWhere(repository.PriceItemFilter{Search: "50%_off", Category: "ropa"})

	assert.Equal(t, " WHERE (code ILIKE $1 OR name ILIKE $1) AND category = $2", where)
	assert.Equal(t, []any{`%50\%\_off%`, "ropa"}, args)
}
