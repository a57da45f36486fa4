package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

// ValidationError error de entrada con mensajes legibles por campo. Es un domain.ErrInvalidInput.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidInput
}

func validationError(msgs ...string) error {
	return &ValidationError{Messages: msgs}
}

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// errorTable orden de evaluación: errores específicos antes que genéricos.
var errorTable = []errorMapping{
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "usuario o contraseña incorrectos"},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized, "TOKEN_EXPIRED", "la sesión expiró, inicia sesión de nuevo"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "no tienes permiso para esta operación"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrDuplicateUsername, fiber.StatusConflict, "DUPLICATE_USERNAME", "el nombre de usuario ya está registrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "ya existe un registro con ese código"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION_ERROR", "datos inválidos"},
}

// NewErrorHandler devuelve el ErrorHandler de Fiber que:
//   - traduce errores de dominio a status y código estables,
//   - registra en el log la causa de los 5xx sin exponerla al cliente,
//   - responde siempre {success:false, code, message}.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := resolveError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", requestID(c)).
				Msg("error no controlado")
		}
		return c.Status(status).JSON(body)
	}
}

func resolveError(err error) (int, dto.ErrorResponse) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: ve.Error()}
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: m.message}
		}
	}
	// Errores propios de Fiber: ruta inexistente, método no permitido, cuerpo demasiado grande.
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		if fe.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		}
		return fe.Code, dto.ErrorResponse{Code: code, Message: fe.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "error interno del servidor"}
}

func requestID(c *fiber.Ctx) string {
	if v, ok := c.Locals("requestid").(string); ok {
		return v
	}
	return ""
}

// respond envía {success:true, data}.
func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(dto.Envelope{Success: true, Data: data})
}

// respondMessage envía {success:true, message}.
func respondMessage(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(dto.Envelope{Success: true, Message: message})
}
