package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

var _ repository.PriceItemRepository = (*PriceItemRepo)(nil)

const priceItemColumns = `id, code, name, category, brand, price, stock, sold_count, purchased_count, created_at, updated_at`

// PriceItemRepo implementación de PriceItemRepository sobre PostgreSQL.
type PriceItemRepo struct {
	q Querier
}

// NewPriceItemRepository construye el adaptador de la lista de precios.
func NewPriceItemRepository(q Querier) *PriceItemRepo {
	return &PriceItemRepo{q: q}
}

// Create inserta el artículo. Código repetido devuelve ErrDuplicate.
func (r *PriceItemRepo) Create(ctx context.Context, item *entity.PriceItem) error {
	query := `
		INSERT INTO price_items (code, name, category, brand, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.Code, item.Name, item.Category, item.Brand, item.Price, item.Stock, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isInvalidValue(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert price item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *PriceItemRepo) GetByID(ctx context.Context, id int64) (*entity.PriceItem, error) {
	return r.findOne(ctx, `SELECT `+priceItemColumns+` FROM price_items WHERE id = $1`, id)
}

// GetByCode obtiene un artículo por su código.
func (r *PriceItemRepo) GetByCode(ctx context.Context, code string) (*entity.PriceItem, error) {
	return r.findOne(ctx, `SELECT `+priceItemColumns+` FROM price_items WHERE code = $1`, code)
}

func (r *PriceItemRepo) findOne(ctx context.Context, query string, args ...any) (*entity.PriceItem, error) {
	item, err := scanPriceItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price item: %w", err)
	}
	return item, nil
}

func priceItemWhere(f repository.PriceItemFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		conds = append(conds, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike neutraliza los comodines de LIKE en el término de búsqueda.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List devuelve los artículos del filtro ordenados por nombre.
func (r *PriceItemRepo) List(ctx context.Context, f repository.PriceItemFilter) ([]*entity.PriceItem, error) {
	where, args := priceItemWhere(f)
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM price_items%s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		priceItemColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list price items: %w", err)
	}
	defer rows.Close()
	var out []*entity.PriceItem
	for rows.Next() {
		item, err := scanPriceItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Count cuenta los artículos del filtro.
func (r *PriceItemRepo) Count(ctx context.Context, f repository.PriceItemFilter) (int, error) {
	where, args := priceItemWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM price_items`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count price items: %w", err)
	}
	return n, nil
}

// Update edición directa (incluida la existencia). El código no cambia.
func (r *PriceItemRepo) Update(ctx context.Context, item *entity.PriceItem) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE price_items SET name = $2, category = $3, brand = $4, price = $5, stock = $6, updated_at = $7
		WHERE id = $1`,
		item.ID, item.Name, item.Category, item.Brand, item.Price, item.Stock, item.UpdatedAt,
	)
	if err != nil {
		if isInvalidValue(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update price item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un artículo.
func (r *PriceItemRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM price_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete price item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Sell descuenta en una sola sentencia condicional: dos ventas concurrentes nunca
// dejan la existencia negativa. Si no se actualizó ninguna fila se distingue
// artículo inexistente de existencia insuficiente.
func (r *PriceItemRepo) Sell(ctx context.Context, id int64, qty int) (*entity.PriceItem, error) {
	query := `
		UPDATE price_items
		SET stock = stock - $2, sold_count = sold_count + $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING ` + priceItemColumns
	item, err := scanPriceItem(r.q.QueryRow(ctx, query, id, qty))
	if err == nil {
		return item, nil
	}
	if isInvalidValue(err) {
		return nil, domain.ErrInvalidInput
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sell price item: %w", err)
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInsufficientStock
}

// Restock suma qty a la existencia de forma atómica. Si la suma desborda la columna
// devuelve ErrInvalidInput y la fila queda intacta.
func (r *PriceItemRepo) Restock(ctx context.Context, id int64, qty int) (*entity.PriceItem, error) {
	query := `
		UPDATE price_items
		SET stock = stock + $2, purchased_count = purchased_count + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + priceItemColumns
	item, err := scanPriceItem(r.q.QueryRow(ctx, query, id, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isInvalidValue(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, fmt.Errorf("restock price item: %w", err)
	}
	return item, nil
}

// UpsertByCode inserta o actualiza por código; los contadores se conservan.
func (r *PriceItemRepo) UpsertByCode(ctx context.Context, item *entity.PriceItem) error {
	query := `
		INSERT INTO price_items (code, name, category, brand, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, category = EXCLUDED.category, brand = EXCLUDED.brand,
			price = EXCLUDED.price, stock = EXCLUDED.stock, updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.Code, item.Name, item.Category, item.Brand, item.Price, item.Stock, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isInvalidValue(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("upsert price item: %w", err)
	}
	return nil
}

func scanPriceItem(row pgx.Row) (*entity.PriceItem, error) {
	var p entity.PriceItem
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.Brand, &p.Price, &p.Stock,
		&p.SoldCount, &p.PurchasedCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
