package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTransaction representa un pago registrado contra una factura.
// Inmutable una vez creado; solo existe sobre facturas FINALIZED o PAID.
type PaymentTransaction struct {
	ID        string
	InvoiceID string
	Amount    decimal.Decimal
	Reference string // texto libre, puede ser vacío (ej. "TXN123")
	CreatedAt time.Time
}
