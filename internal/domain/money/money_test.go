package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-billing/internal/domain"
	"github.com/tu-usuario/invoice-billing/internal/domain/money"
)

func TestParse_LiteralValido(t *testing.T) {
	d, err := money.Parse("amount", "750.00")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("750")))

	d, err = money.Parse("qty", " 2 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(2)))
}

func TestParse_EntradaInvalida(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"vacío", ""},
		{"solo espacios", "   "},
		{"texto", "abc"},
		{"número con basura", "12,50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := money.Parse("amount", tc.input)
			require.Error(t, err)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve, "debe ser un ValidationError")
			assert.Equal(t, "amount", ve.Field)
		})
	}
}

func TestRoundCents(t *testing.T) {
	// Mitad hacia arriba para montos positivos.
	assert.Equal(t, "10.01", money.RoundCents(decimal.RequireFromString("10.005")).StringFixed(2))
	assert.Equal(t, "10.00", money.RoundCents(decimal.RequireFromString("10.004")).StringFixed(2))
	assert.Equal(t, "1770.00", money.RoundCents(decimal.RequireFromString("1770")).StringFixed(2))
}

func TestLineSubtotalYPercent_SinRedondeoIntermedio(t *testing.T) {
	qty := decimal.RequireFromString("3")
	price := decimal.RequireFromString("0.333")
	sub := money.LineSubtotal(qty, price)
	// 3 * 0.333 = 0.999 exacto, sin redondear por línea.
	assert.True(t, sub.Equal(decimal.RequireFromString("0.999")))

	tax := money.Percent(sub, decimal.RequireFromString("18.00"))
	// 0.999 * 18 / 100 = 0.17982 exacto.
	assert.True(t, tax.Equal(decimal.RequireFromString("0.17982")))
}
