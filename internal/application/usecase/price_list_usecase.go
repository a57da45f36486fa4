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

// PriceListUseCase CRUD de la lista de precios y movimientos de existencia (venta y reposición).
// Los movimientos se delegan al repositorio como una sola sentencia condicional.
type PriceListUseCase struct {
	repo repository.PriceItemRepository
}

// NewPriceListUseCase construye el caso de uso.
func NewPriceListUseCase(repo repository.PriceItemRepository) *PriceListUseCase {
	return &PriceListUseCase{repo: repo}
}

// Create agrega un artículo. Código repetido devuelve ErrDuplicate.
func (uc *PriceListUseCase) Create(ctx context.Context, actor Actor, in dto.CreatePriceItemRequest) (*dto.PriceItemResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	price, ok := validPrice(in.Price)
	if code == "" || name == "" || !ok || !validStock(in.Stock) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.PriceItem{
		Code:      code,
		Name:      name,
		Category:  strings.TrimSpace(in.Category),
		Brand:     strings.TrimSpace(in.Brand),
		Price:     price,
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toPriceItemResponse(item), nil
}

// GetByID obtiene un artículo.
func (uc *PriceListUseCase) GetByID(ctx context.Context, actor Actor, id int64) (*dto.PriceItemResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toPriceItemResponse(item), nil
}

// List busca por código o nombre y filtra por categoría, con paginación.
func (uc *PriceListUseCase) List(ctx context.Context, actor Actor, q dto.PriceItemListQuery) (*dto.PriceItemListResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	q.DefaultPage()
	f := repository.PriceItemFilter{
		Search:   strings.TrimSpace(q.Search),
		Category: strings.TrimSpace(q.Category),
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PriceItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toPriceItemResponse(it))
	}
	return &dto.PriceItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Update edita los campos presentes. El código es la clave de negocio y no cambia.
func (uc *PriceListUseCase) Update(ctx context.Context, actor Actor, id int64, in dto.UpdatePriceItemRequest) (*dto.PriceItemResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Brand != nil {
		item.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Price != nil {
		price, ok := validPrice(*in.Price)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		item.Price = price
	}
	if in.Stock != nil {
		if !validStock(*in.Stock) {
			return nil, domain.ErrInvalidInput
		}
		item.Stock = *in.Stock
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toPriceItemResponse(item), nil
}

// Delete elimina un artículo.
func (uc *PriceListUseCase) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := actor.require(); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Sale descuenta qty unidades. Sin existencia suficiente devuelve ErrInsufficientStock
// y la existencia queda intacta.
func (uc *PriceListUseCase) Sale(ctx context.Context, actor Actor, id int64, in dto.StockOperationRequest) (*dto.PriceItemResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	if in.Quantity < 1 || in.Quantity > entity.MaxQuantity {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.repo.Sell(ctx, id, in.Quantity)
	if err != nil {
		return nil, err
	}
	return toPriceItemResponse(item), nil
}

// Restock suma qty unidades a la existencia.
func (uc *PriceListUseCase) Restock(ctx context.Context, actor Actor, id int64, in dto.StockOperationRequest) (*dto.PriceItemResponse, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	if in.Quantity < 1 || in.Quantity > entity.MaxQuantity {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.repo.Restock(ctx, id, in.Quantity)
	if err != nil {
		return nil, err
	}
	return toPriceItemResponse(item), nil
}

// Import inserta o actualiza por código; lo usa el comando de carga inicial.
func (uc *PriceListUseCase) Import(ctx context.Context, rows []dto.CreatePriceItemRequest) (int, error) {
	count := 0
	for _, in := range rows {
		code := strings.TrimSpace(in.Code)
		name := strings.TrimSpace(in.Name)
		price, ok := validPrice(in.Price)
		if code == "" || name == "" || !ok || !validStock(in.Stock) {
			return count, domain.ErrInvalidInput
		}
		now := time.Now()
		item := &entity.PriceItem{
			Code:      code,
			Name:      name,
			Category:  strings.TrimSpace(in.Category),
			Brand:     strings.TrimSpace(in.Brand),
			Price:     price,
			Stock:     in.Stock,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.repo.UpsertByCode(ctx, item); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// validPrice redondea a la escala guardada y rechaza negativos o valores fuera de columna.
func validPrice(d decimal.Decimal) (decimal.Decimal, bool) {
	p := entity.RoundMoney(d)
	return p, !p.IsNegative() && entity.MoneyInRange(p)
}

func validStock(n int) bool {
	return n >= 0 && n <= entity.MaxStock
}

func toPriceItemResponse(p *entity.PriceItem) *dto.PriceItemResponse {
	return &dto.PriceItemResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Category:       p.Category,
		Brand:          p.Brand,
		Price:          p.Price,
		Stock:          p.Stock,
		SoldCount:      p.SoldCount,
		PurchasedCount: p.PurchasedCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
