package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/domain"
)

// TestParseNumber_FormatosAceptados cubre lo que un usuario teclea de verdad:
// signo explícito, coma decimal y espacios sueltos.
func TestParseNumber_FormatosAceptados(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12", "12"},
		{"+5", "5"},
		{"-3.5", "-3.5"},
		{"-3,5", "-3.5"},
		{" 1 000,25 ", "1000.25"},
		{"0", "0"},
	}

	for _, tc := range cases {
		got, err := inventory.ParseNumber(tc.in)
		require.NoError(t, err, "entrada %q", tc.in)
		assert.Equal(t, tc.want, got.String(), "entrada %q", tc.in)
	}
}

func TestParseNumber_EntradasInvalidas(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12x", "+", "--3", "1.2.3"} {
		_, err := inventory.ParseNumber(in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada %q", in)
	}
}
