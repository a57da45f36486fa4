package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
)

// Columnas esperadas: code,name,category,brand,price,stock. La fila de encabezado es opcional.
const priceColumns = 6

// decodeCharset envuelve r con el decodificador del charset indicado.
// Las exportaciones de hojas de cálculo suelen venir en Windows-1252 o Latin-1.
func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "win1252", "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
}

// readPrices parsea el CSV de la lista de precios.
func readPrices(r io.Reader, charset string) ([]dto.CreatePriceItemRequest, error) {
	decoded, err := decodeCharset(r, charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []dto.CreatePriceItemRequest
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff")), "code") {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < priceColumns {
			return nil, fmt.Errorf("línea %d: se esperaban %d columnas, hay %d", line, priceColumns, len(rec))
		}
		price, err := parsePrice(rec[4])
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q inválido", line, rec[4])
		}
		stock := 0
		if s := strings.TrimSpace(rec[5]); s != "" {
			if stock, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("línea %d: existencia %q inválida", line, rec[5])
			}
		}
		out = append(out, dto.CreatePriceItemRequest{
			Code:     strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff")),
			Name:     strings.TrimSpace(rec[1]),
			Category: strings.TrimSpace(rec[2]),
			Brand:    strings.TrimSpace(rec[3]),
			Price:    price,
			Stock:    stock,
		})
	}
	return out, nil
}

// parsePrice acepta punto o coma como separador decimal ("3200.50", "3200,50").
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
