package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/infrastructure/metrics"
)

// PriceListHandler maneja la lista de precios y los movimientos de existencia.
type PriceListHandler struct {
	uc *usecase.PriceListUseCase
}

// NewPriceListHandler construye el handler de la lista de precios.
func NewPriceListHandler(uc *usecase.PriceListUseCase) *PriceListHandler {
	return &PriceListHandler{uc: uc}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         price-list
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreatePriceItemRequest  true  "code, name, category, brand, price, stock"
// @Success      201   {object}  dto.Envelope{data=dto.PriceItemResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/price-list [post]
func (h *PriceListHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePriceItemRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, out)
}

// List godoc
// @Summary      Listar artículos
// @Tags         price-list
// @Produce      json
// @Security     Bearer
// @Param        search    query  string  false  "busca en código o nombre"
// @Param        category  query  string  false  "categoría exacta"
// @Param        limit     query  int     false  "límite (default 20, máx 100)"
// @Param        offset    query  int     false  "offset"
// @Success      200       {object}  dto.Envelope{data=dto.PriceItemListResponse}
// @Router       /api/price-list [get]
func (h *PriceListHandler) List(c *fiber.Ctx) error {
	q := dto.PriceItemListQuery{
		Search:      strings.TrimSpace(c.Query("search")),
		Category:    strings.TrimSpace(c.Query("category")),
		PageRequest: pageQuery(c),
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// GetByID godoc
// @Summary      Obtener artículo
// @Tags         price-list
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope{data=dto.PriceItemResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/price-list/{id} [get]
func (h *PriceListHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Update godoc
// @Summary      Editar artículo
// @Tags         price-list
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  int                         true  "ID"
// @Param        body  body  dto.UpdatePriceItemRequest  true  "campos a modificar"
// @Success      200   {object}  dto.Envelope{data=dto.PriceItemResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/price-list/{id} [put]
func (h *PriceListHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdatePriceItemRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar artículo
// @Tags         price-list
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/price-list/{id} [delete]
func (h *PriceListHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetActor(c), id); err != nil {
		return err
	}
	return respondMessage(c, "artículo eliminado")
}

// Sale godoc
// @Summary      Registrar venta
// @Description  Descuenta la existencia de forma atómica; nunca queda negativa.
// @Tags         price-list
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  int                        true  "ID"
// @Param        body  body  dto.StockOperationRequest  true  "quantity"
// @Success      200   {object}  dto.Envelope{data=dto.PriceItemResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/price-list/{id}/sale [post]
func (h *PriceListHandler) Sale(c *fiber.Ctx) error {
	return h.stockOperation(c, "sale", h.uc.Sale)
}

// Restock godoc
// @Summary      Registrar reposición
// @Tags         price-list
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  int                        true  "ID"
// @Param        body  body  dto.StockOperationRequest  true  "quantity"
// @Success      200   {object}  dto.Envelope{data=dto.PriceItemResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/price-list/{id}/restock [post]
func (h *PriceListHandler) Restock(c *fiber.Ctx) error {
	return h.stockOperation(c, "restock", h.uc.Restock)
}

type stockFunc func(ctx context.Context, actor usecase.Actor, id int64, in dto.StockOperationRequest) (*dto.PriceItemResponse, error)

func (h *PriceListHandler) stockOperation(c *fiber.Ctx, operation string, fn stockFunc) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.StockOperationRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := fn(c.UserContext(), GetActor(c), id, in)
	metrics.StockOperationsTotal.WithLabelValues(operation, stockResult(err)).Inc()
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

func stockResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
