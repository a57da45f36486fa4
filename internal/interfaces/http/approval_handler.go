package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
)

// ApprovalHandler solicitudes de acceso como owner pendientes de aprobación.
type ApprovalHandler struct {
	uc *usecase.ApprovalUseCase
}

// NewApprovalHandler construye el handler de aprobaciones.
func NewApprovalHandler(uc *usecase.ApprovalUseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

// List godoc
// @Summary      Listar solicitudes pendientes
// @Tags         approvals
// @Produce      json
// @Security     Bearer
// @Param        limit   query  int  false  "límite (default 20, máx 100)"
// @Param        offset  query  int  false  "offset"
// @Success      200     {object}  dto.Envelope{data=dto.UserListResponse}
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/approvals [get]
func (h *ApprovalHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetActor(c), pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Description  Activa la cuenta y notifica al usuario en la misma transacción.
// @Tags         approvals
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del usuario pendiente"
// @Success      200  {object}  dto.Envelope{data=dto.UserResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Approve(c.UserContext(), GetActor(c), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Description  Elimina la cuenta pendiente. No se puede deshacer.
// @Tags         approvals
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID del usuario pendiente"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/approvals/{id}/reject [delete]
func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Reject(c.UserContext(), GetActor(c), id); err != nil {
		return err
	}
	return respondMessage(c, "solicitud rechazada")
}
