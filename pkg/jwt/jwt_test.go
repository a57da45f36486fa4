package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Contabilidad-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "contabilidad-test"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestGenerateAndParse_ConservaClaims(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 42, "u1", "staff", testIssuer, 24*time.Hour, t0)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, testIssuer, tok, t0.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "u1", claims.Username)
	assert.Equal(t, "staff", claims.Role)
	assert.NotEmpty(t, claims.ID, "el token debe llevar jti")
	assert.Equal(t, t0.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestParse_VentanaDe24Horas(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 1, "u1", "owner", testIssuer, 24*time.Hour, t0)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, testIssuer, tok, t0.Add(23*time.Hour+59*time.Minute))
	assert.NoError(t, err, "a las 23h59m el token sigue vigente")

	_, err = pkgjwt.Parse(testSecret, testIssuer, tok, t0.Add(24*time.Hour+time.Minute))
	assert.ErrorIs(t, err, pkgjwt.ErrExpired)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 1, "u1", "owner", testIssuer, time.Hour, t0)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", testIssuer, tok, t0)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalid)
}

func TestParse_EmisorDistinto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 1, "u1", "owner", "otro-emisor", time.Hour, t0)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, testIssuer, tok, t0)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalid)
}

func TestParse_Malformado(t *testing.T) {
	_, err := pkgjwt.Parse(testSecret, testIssuer, "token.invalido.aqui", t0)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalid)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", 1, "u1", "owner", testIssuer, time.Hour, t0)
	assert.Error(t, err)
}
