package dto

import "time"

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	Number       string `json:"number"`
	CustomerName string `json:"customer_name"`
}

// AddItemRequest body para POST /api/invoices/:id/items.
// Los montos viajan como literales decimales en string ("750.00") para que el
// parseo exacto ocurra en el dominio; tax_rate vacío equivale a 0.
type AddItemRequest struct {
	Description string `json:"description"`
	Qty         string `json:"qty"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate,omitempty"`
}

// RecordPaymentRequest body para POST /api/invoices/:id/payments.
type RecordPaymentRequest struct {
	Amount    string `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

// InvoiceResponse snapshot completo de la factura. Los montos se serializan
// como string con 2 decimales fijos ("1770.00").
type InvoiceResponse struct {
	ID           string                `json:"id"`
	Number       string                `json:"number"`
	CustomerName string                `json:"customer_name"`
	Status       string                `json:"status"`
	Subtotal     string                `json:"subtotal"`
	TaxTotal     string                `json:"tax_total"`
	GrandTotal   string                `json:"grand_total"`
	AmountPaid   string                `json:"amount_paid"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Items        []InvoiceItemResponse `json:"items"`
}

// InvoiceItemResponse línea de la factura dentro del snapshot.
type InvoiceItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Qty         string `json:"qty"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate"`
}

// PaymentResponse pago registrado; se expone por separado, no va embebido en
// el snapshot de la factura.
type PaymentResponse struct {
	ID        string    `json:"id"`
	Amount    string    `json:"amount"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}
