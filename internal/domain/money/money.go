// Package money centraliza la aritmética monetaria de la aplicación.
//
// Todos los montos se representan como decimales exactos en base 10
// (shopspring/decimal) con redondeo a 2 decimales; ningún componente por encima
// de este paquete debe usar punto flotante binario para dinero.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-billing/internal/domain"
)

var cien = decimal.NewFromInt(100)

// Parse convierte un literal string en decimal. Rechaza entradas vacías o no
// numéricas con un ValidationError asociado al campo indicado.
func Parse(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, domain.NewValidationError(field, "este campo es obligatorio")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, "debe ser un número válido")
	}
	return d, nil
}

// RoundCents redondea a 2 decimales (mitad hacia arriba para montos positivos).
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineSubtotal calcula qty * unitPrice sin redondear.
func LineSubtotal(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice)
}

// Percent aplica un porcentaje (ej. taxRate 18.00 => 18%) sin redondear.
// El redondeo se hace una sola vez al final de la suma, no por línea.
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(cien)
}
