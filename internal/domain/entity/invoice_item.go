package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de una factura. Inmutable una vez creada:
// no existe operación de edición ni borrado, y solo puede agregarse mientras la
// factura está en DRAFT.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje (18.00 = 18%)
}
