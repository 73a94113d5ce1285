package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain"
)

// ParseNumber interpreta la entrada numérica del usuario: acepta coma o punto
// como separador decimal y descarta espacios. Cualquier otra cosa es
// domain.ErrInvalidInput (el diálogo repite el mismo paso).
func ParseNumber(s string) (decimal.Decimal, error) {
	raw := strings.Join(strings.Fields(s), "")
	raw = strings.ReplaceAll(raw, ",", ".")
	raw = strings.TrimPrefix(raw, "+")
	if raw == "" {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	return d, nil
}
