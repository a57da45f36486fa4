package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, type, product, quantity, price, amount, note, owner_id, created_at, updated_at`

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL.
// El filtro de propietario se aplica en el WHERE, nunca después de leer la fila.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create inserta la transacción y asigna su ID.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (type, product, quantity, price, amount, note, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		t.Type, t.Product, t.Quantity, t.Price, t.Amount, t.Note, t.OwnerID, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		if isInvalidValue(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción; con ownerID solo si le pertenece.
func (r *TransactionRepo) GetByID(ctx context.Context, id int64, ownerID *int64) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND ($2::bigint IS NULL OR owner_id = $2)`
	t, err := scanTransaction(r.q.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// whereClause arma el WHERE común de List y Count.
func whereClause(f repository.TransactionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.OwnerID != nil {
		add("owner_id = $%d", *f.OwnerID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List devuelve las transacciones del filtro, más recientes primero.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	where, args := whereClause(f)
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM transactions%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var out []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count cuenta las transacciones del filtro (sin paginación).
func (r *TransactionRepo) Count(ctx context.Context, f repository.TransactionFilter) (int, error) {
	where, args := whereClause(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM transactions`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// UpdateQuantity fija cantidad y monto y devuelve la fila resultante.
func (r *TransactionRepo) UpdateQuantity(ctx context.Context, id int64, quantity int, amount decimal.Decimal) (*entity.Transaction, error) {
	query := `
		UPDATE transactions SET quantity = $2, amount = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + transactionColumns
	t, err := scanTransaction(r.q.QueryRow(ctx, query, id, quantity, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isInvalidValue(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, fmt.Errorf("update transaction quantity: %w", err)
	}
	return t, nil
}

// Delete elimina la transacción; con ownerID solo si le pertenece. ErrNotFound si no se borró nada.
func (r *TransactionRepo) Delete(ctx context.Context, id int64, ownerID *int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND ($2::bigint IS NULL OR owner_id = $2)`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	err := row.Scan(&t.ID, &t.Type, &t.Product, &t.Quantity, &t.Price, &t.Amount, &t.Note, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
