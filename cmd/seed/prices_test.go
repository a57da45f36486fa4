package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPrices_ConEncabezadoUTF8(t *testing.T) {
	csv := "code,name,category,brand,price,stock\n" +
		"A-1,Arroz,granos,Diana,3200.50,10\n" +
		"B-2, Café ,bebidas,,\"4500,75\",\n"

	rows, err := readPrices(strings.NewReader(csv), "utf8")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "A-1", rows[0].Code)
	assert.True(t, decimal.RequireFromString("3200.50").Equal(rows[0].Price))
	assert.Equal(t, 10, rows[0].Stock)

	assert.Equal(t, "Café", rows[1].Name)
	assert.True(t, decimal.RequireFromString("4500.75").Equal(rows[1].Price), "acepta coma decimal")
	assert.Equal(t, 0, rows[1].Stock, "existencia vacía es cero")
}

func TestReadPrices_Latin1(t *testing.T) {
	// "Caf\xe9" es "Café" en ISO-8859-1.
	csv := "C-1,Caf\xe9 molido,bebidas,Sello Rojo,9000,3\n"

	rows, err := readPrices(strings.NewReader(csv), "latin1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café molido", rows[0].Name)
}

func TestReadPrices_Windows1252(t *testing.T) {
	// 0x80 es el signo euro en Windows-1252 y no existe en Latin-1.
	csv := "D-1,Bono \x80,otros,,100,1\n"

	rows, err := readPrices(strings.NewReader(csv), "win1252")
	require.NoError(t, err)
	assert.Equal(t, "Bono €", rows[0].Name)
}

func TestReadPrices_Errores(t *testing.T) {
	_, err := readPrices(strings.NewReader("A-1,Arroz,granos\n"), "utf8")
	assert.ErrorContains(t, err, "columnas")

	_, err = readPrices(strings.NewReader("A-1,Arroz,granos,,caro,1\n"), "utf8")
	assert.ErrorContains(t, err, "precio")

	_, err = readPrices(strings.NewReader("A-1,Arroz,granos,,100,muchos\n"), "utf8")
	assert.ErrorContains(t, err, "existencia")

	_, err = readPrices(strings.NewReader(""), "ebcdic")
	assert.ErrorContains(t, err, "charset")
}
