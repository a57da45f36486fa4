package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
)

// TransactionHandler maneja las transacciones contables.
type TransactionHandler struct {
	uc *usecase.TransactionUseCase
}

// NewTransactionHandler construye el handler de transacciones.
func NewTransactionHandler(uc *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar transacción
// @Description  El propietario se toma del token. amount por defecto es price × quantity.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        body  body  dto.CreateTransactionRequest  true  "type, product, quantity, price, amount, note"
// @Success      201   {object}  dto.Envelope{data=dto.TransactionResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
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
// @Summary      Listar transacciones
// @Description  staff ve solo las propias; owner ve todas.
// @Tags         transactions
// @Produce      json
// @Security     Bearer
// @Param        type    query  string  false  "sale | income | expense"
// @Param        from    query  string  false  "desde (YYYY-MM-DD o RFC 3339)"
// @Param        to      query  string  false  "hasta, inclusive por día (YYYY-MM-DD o RFC 3339)"
// @Param        limit   query  int     false  "límite (default 20, máx 100)"
// @Param        offset  query  int     false  "offset"
// @Success      200     {object}  dto.Envelope{data=dto.TransactionListResponse}
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	from, err := timeQuery(c, "from", false)
	if err != nil {
		return err
	}
	to, err := timeQuery(c, "to", true)
	if err != nil {
		return err
	}
	q := dto.TransactionListQuery{
		Type:        strings.TrimSpace(c.Query("type")),
		From:        from,
		To:          to,
		PageRequest: pageQuery(c),
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// GetByID godoc
// @Summary      Obtener transacción
// @Tags         transactions
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope{data=dto.TransactionResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
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

// UpdateQuantity godoc
// @Summary      Ajustar cantidad (owner)
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id    path  int                           true  "ID"
// @Param        body  body  dto.UpdateTransactionRequest  true  "quantity"
// @Success      200   {object}  dto.Envelope{data=dto.TransactionResponse}
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) UpdateQuantity(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateTransactionRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateQuantity(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar transacción
// @Tags         transactions
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetActor(c), id); err != nil {
		return err
	}
	return respondMessage(c, "transacción eliminada")
}
