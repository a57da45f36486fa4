package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// TransactionUseCase registro y consulta de transacciones con alcance por propietario.
type TransactionUseCase struct {
	repo repository.TransactionRepository
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(repo repository.TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{repo: repo}
}

// Create registra una transacción a nombre del actor. El propietario nunca viene del cliente.
// Sin monto explícito se calcula precio × cantidad.
func (uc *TransactionUseCase) Create(ctx context.Context, actor Actor, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	if !entity.IsValidTransactionType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 || qty > entity.MaxQuantity || in.Price.IsNegative() || in.Amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	price := entity.RoundMoney(in.Price)
	amount := entity.RoundMoney(in.Amount)
	if amount.IsZero() {
		amount = entity.RoundMoney(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	if !amount.IsPositive() || !entity.MoneyInRange(price) || !entity.MoneyInRange(amount) {
		return nil, domain.ErrInvalidInput
	}
	note := strings.TrimSpace(in.Note)
	if note == "" {
		note = strings.TrimSpace(in.Description)
	}
	now := time.Now()
	tx := &entity.Transaction{
		Type:      in.Type,
		Product:   strings.TrimSpace(in.Product),
		Quantity:  qty,
		Price:     price,
		Amount:    amount,
		Note:      note,
		OwnerID:   actor.Subject.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// GetByID devuelve la transacción si existe dentro del alcance del actor.
func (uc *TransactionUseCase) GetByID(ctx context.Context, actor Actor, id int64) (*dto.TransactionResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	tx, err := uc.repo.GetByID(ctx, id, actor.ownerFilter())
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	return toTransactionResponse(tx), nil
}

// List lista las transacciones visibles para el actor, más recientes primero.
func (uc *TransactionUseCase) List(ctx context.Context, actor Actor, q dto.TransactionListQuery) (*dto.TransactionListResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	if q.Type != "" && !entity.IsValidTransactionType(q.Type) {
		return nil, domain.ErrInvalidInput
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.ErrInvalidInput
	}
	q.DefaultPage()
	f := repository.TransactionFilter{
		OwnerID: actor.ownerFilter(),
		Type:    q.Type,
		From:    q.From,
		To:      q.To,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		items = append(items, *toTransactionResponse(tx))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// UpdateQuantity ajusta la cantidad. Si la transacción tiene precio unitario el monto se recalcula.
func (uc *TransactionUseCase) UpdateQuantity(ctx context.Context, actor Actor, id int64, in dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	if in.Quantity < 1 || in.Quantity > entity.MaxQuantity {
		return nil, domain.ErrInvalidInput
	}
	tx, err := uc.repo.GetByID(ctx, id, actor.ownerFilter())
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	amount := tx.Amount
	if tx.Price.IsPositive() {
		amount = entity.RoundMoney(tx.Price.Mul(decimal.NewFromInt(int64(in.Quantity))))
	}
	if !entity.MoneyInRange(amount) {
		return nil, domain.ErrInvalidInput
	}
	updated, err := uc.repo.UpdateQuantity(ctx, tx.ID, in.Quantity, amount)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(updated), nil
}

// Delete elimina la transacción si está dentro del alcance del actor; si no, ErrNotFound.
func (uc *TransactionUseCase) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := actor.require(); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id, actor.ownerFilter())
}

func toTransactionResponse(t *entity.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:        t.ID,
		Type:      t.Type,
		Product:   t.Product,
		Quantity:  t.Quantity,
		Price:     t.Price,
		Amount:    t.Amount,
		Note:      t.Note,
		OwnerID:   t.OwnerID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
