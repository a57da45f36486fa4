package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
)

func TestResolveError_MapeoDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrTokenExpired, fiber.StatusUnauthorized, "TOKEN_EXPIRED"},
		{fmt.Errorf("%w: token vacío", domain.ErrInvalidToken), fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicateUsername, fiber.StatusConflict, "DUPLICATE_USERNAME"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "HTTP_ERROR"},
	}
	for _, tc := range cases {
		status, body := resolveError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, body.Code, tc.err.Error())
		assert.False(t, body.Success)
	}
}

func TestResolveError_ErrorInternoNoSeExpone(t *testing.T) {
	status, body := resolveError(errors.New("pq: password authentication failed for user \"app\""))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.NotContains(t, body.Message, "password authentication")
}

func TestValidationError_EsErrInvalidInput(t *testing.T) {
	err := validationError("name es obligatorio", "price no es válido (gte)")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	status, body := resolveError(err)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "name es obligatorio; price no es válido (gte)", body.Message)
}

func TestValidateStruct_MensajesPorCampo(t *testing.T) {
	type input struct {
		Username string `json:"username" validate:"required"`
		Role     string `json:"role" validate:"omitempty,oneof=staff owner"`
		Name     string `json:"name" validate:"max=3"`
	}
	err := validateStruct(&input{Role: "jefe", Name: "demasiado"})

	var ve *ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, []string{
			"username es obligatorio",
			"role debe ser uno de: staff, owner",
			"name admite como máximo 3 caracteres",
		}, ve.Messages)
	}
}
