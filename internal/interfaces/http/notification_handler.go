package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
)

// NotificationHandler bandeja de notificaciones del usuario autenticado.
type NotificationHandler struct {
	uc *usecase.NotificationUseCase
}

// NewNotificationHandler construye el handler de notificaciones.
func NewNotificationHandler(uc *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Listar notificaciones propias
// @Tags         notifications
// @Produce      json
// @Security     Bearer
// @Param        unread  query  bool  false  "solo no leídas"
// @Param        limit   query  int   false  "límite (default 20, máx 100)"
// @Param        offset  query  int   false  "offset"
// @Success      200     {object}  dto.Envelope{data=dto.NotificationListResponse}
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	unreadOnly := c.QueryBool("unread", false)
	out, err := h.uc.List(c.UserContext(), GetActor(c), unreadOnly, pageQuery(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, out)
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.MarkRead(c.UserContext(), GetActor(c), id); err != nil {
		return err
	}
	return respondMessage(c, "notificación marcada como leída")
}

// MarkAllRead godoc
// @Summary      Marcar todas como leídas
// @Tags         notifications
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.Envelope
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.uc.MarkAllRead(c.UserContext(), GetActor(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"updated": n})
}

// Delete godoc
// @Summary      Eliminar notificación
// @Tags         notifications
// @Produce      json
// @Security     Bearer
// @Param        id   path  int  true  "ID"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetActor(c), id); err != nil {
		return err
	}
	return respondMessage(c, "notificación eliminada")
}
