package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-billing/internal/domain"
	"github.com/tu-usuario/invoice-billing/internal/domain/money"
)

// InvoiceStatus estado del ciclo de vida de una factura.
type InvoiceStatus string

// Máquina de estados: DRAFT → FINALIZED → PAID. Nunca retrocede y PAID es terminal.
const (
	StatusDraft     InvoiceStatus = "DRAFT"     // Acepta ítems, totales en cero
	StatusFinalized InvoiceStatus = "FINALIZED" // Totales congelados, acepta pagos
	StatusPaid      InvoiceStatus = "PAID"      // Pagada por completo, terminal
)

// Valid indica si el estado pertenece a la enumeración cerrada.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusFinalized, StatusPaid:
		return true
	}
	return false
}

// CanTransitionTo valida la transición s → next según la máquina de estados.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusFinalized
	case StatusFinalized:
		return next == StatusPaid
	}
	return false
}

// transitionTo es el único punto de asignación de estado de una factura:
// valida la transición contra la máquina de estados antes de aplicarla.
func (inv *Invoice) transitionTo(next InvoiceStatus) error {
	if !inv.Status.CanTransitionTo(next) {
		return domain.ErrInvalidStatus
	}
	inv.Status = next
	return nil
}

// Invoice representa la cabecera de una factura junto con sus ítems y pagos.
// Los cinco mutadores (NewInvoice, AddItem, Finalize, RecordPayment y el listado
// vía repositorio) son los únicos caminos de escritura; no existe edición ni
// borrado de facturas, ítems o pagos.
type Invoice struct {
	ID           string
	Number       string
	CustomerName string
	Status       InvoiceStatus
	Subtotal     decimal.Decimal
	TaxTotal     decimal.Decimal
	GrandTotal   decimal.Decimal
	AmountPaid   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Colecciones ordenadas por inserción; viven y mueren con la factura.
	Items    []InvoiceItem
	Payments []PaymentTransaction
}

// NewInvoice crea una factura en DRAFT con todos los totales en cero.
// La unicidad del número la garantiza la persistencia (constraint único).
func NewInvoice(number, customerName string, now time.Time) (*Invoice, error) {
	if number == "" {
		return nil, domain.NewValidationError("number", "este campo es obligatorio")
	}
	if customerName == "" {
		return nil, domain.NewValidationError("customer_name", "este campo es obligatorio")
	}
	return &Invoice{
		ID:           uuid.New().String(),
		Number:       number,
		CustomerName: customerName,
		Status:       StatusDraft,
		Subtotal:     decimal.Zero,
		TaxTotal:     decimal.Zero,
		GrandTotal:   decimal.Zero,
		AmountPaid:   decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// AddItem agrega una línea a una factura en DRAFT. Los montos llegan como
// strings (literal decimal del request) y se validan aquí; taxRate vacío
// equivale a 0. Los totales NO se recalculan: quedan en cero hasta Finalize.
func (inv *Invoice) AddItem(description, qty, unitPrice, taxRate string, now time.Time) (*InvoiceItem, error) {
	if inv.Status != StatusDraft {
		return nil, domain.ErrImmutableInvoice
	}
	if description == "" {
		return nil, domain.NewValidationError("description", "este campo es obligatorio")
	}
	q, err := money.Parse("qty", qty)
	if err != nil {
		return nil, err
	}
	p, err := money.Parse("unit_price", unitPrice)
	if err != nil {
		return nil, err
	}
	if taxRate == "" {
		taxRate = "0.00"
	}
	t, err := money.Parse("tax_rate", taxRate)
	if err != nil {
		return nil, err
	}
	if !q.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("qty", "debe ser mayor que 0")
	}
	if p.IsNegative() {
		return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	if t.IsNegative() {
		return nil, domain.NewValidationError("tax_rate", "no puede ser negativo")
	}

	item := InvoiceItem{
		ID:          uuid.New().String(),
		InvoiceID:   inv.ID,
		Description: description,
		Qty:         q,
		UnitPrice:   p,
		TaxRate:     t,
	}
	inv.Items = append(inv.Items, item)
	inv.UpdatedAt = now
	return &inv.Items[len(inv.Items)-1], nil
}

// Finalize congela los totales y pasa la factura a FINALIZED.
//
// Los subtotales e impuestos de cada línea se suman SIN redondear y cada total
// se redondea una sola vez al final; grand_total se redondea a partir de la
// suma sin redondear (no como subtotal redondeado + impuesto redondeado). Ese
// orden es el comportamiento contractual y no debe alterarse.
func (inv *Invoice) Finalize(now time.Time) error {
	if inv.Status != StatusDraft {
		return domain.ErrInvalidStatus
	}
	if len(inv.Items) == 0 {
		return domain.ErrNoItems
	}

	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, it := range inv.Items {
		lineSub := money.LineSubtotal(it.Qty, it.UnitPrice)
		subtotal = subtotal.Add(lineSub)
		taxTotal = taxTotal.Add(money.Percent(lineSub, it.TaxRate))
	}
	grandTotal := subtotal.Add(taxTotal)

	inv.Subtotal = money.RoundCents(subtotal)
	inv.TaxTotal = money.RoundCents(taxTotal)
	inv.GrandTotal = money.RoundCents(grandTotal)
	if err := inv.transitionTo(StatusFinalized); err != nil {
		return err
	}
	inv.UpdatedAt = now
	return nil
}

// RecordPayment registra un pago contra una factura FINALIZED o PAID.
// Rechaza estrictamente cualquier pago que deje amount_paid por encima de
// grand_total, incluso por un centavo. Se aceptan pagos parciales: solo el
// sobrepago se rechaza. Si el acumulado iguala el total, transiciona a PAID.
//
// El llamador debe ejecutar esto bajo el lock de fila del repositorio: dos
// pagos concurrentes compiten por el mismo acumulado.
func (inv *Invoice) RecordPayment(amount, reference string, now time.Time) (*PaymentTransaction, error) {
	if inv.Status == StatusDraft {
		return nil, domain.ErrInvalidStatus
	}
	a, err := money.Parse("amount", amount)
	if err != nil {
		return nil, err
	}
	if !a.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("amount", "debe ser mayor que 0")
	}

	newPaid := inv.AmountPaid.Add(a)
	if newPaid.GreaterThan(inv.GrandTotal) {
		return nil, domain.ErrOverpayment
	}

	payment := PaymentTransaction{
		ID:        uuid.New().String(),
		InvoiceID: inv.ID,
		Amount:    a,
		Reference: reference,
		CreatedAt: now,
	}
	inv.Payments = append(inv.Payments, payment)
	inv.AmountPaid = money.RoundCents(newPaid)
	if inv.AmountPaid.Equal(inv.GrandTotal) {
		if err := inv.transitionTo(StatusPaid); err != nil {
			return nil, err
		}
	}
	inv.UpdatedAt = now
	return &inv.Payments[len(inv.Payments)-1], nil
}

// centavo es la unidad mínima de redondeo (0.01).
var centavo = decimal.New(1, -2)

// CheckIntegrity verifica los invariantes que deben cumplirse tras cada
// operación. Una violación aquí no es un error del cliente: es ErrCorruptInvoice.
//
// Subtotal, impuestos y total se redondean de forma independiente en Finalize,
// así que la suma de los dos primeros puede diferir del total hasta en un
// centavo con entradas válidas (ej: subtotal sin redondear 1.004 + impuesto
// 1.004 → 1.00 + 1.00 frente a total 2.01). Una diferencia mayor sí indica
// totales corruptos en persistencia.
func (inv *Invoice) CheckIntegrity() error {
	if !inv.Status.Valid() {
		return fmt.Errorf("%w: estado desconocido %q", domain.ErrCorruptInvoice, inv.Status)
	}
	if inv.Status != StatusDraft {
		drift := inv.Subtotal.Add(inv.TaxTotal).Sub(inv.GrandTotal).Abs()
		if drift.GreaterThan(centavo) {
			return fmt.Errorf("%w: subtotal %s + impuestos %s != total %s",
				domain.ErrCorruptInvoice, inv.Subtotal, inv.TaxTotal, inv.GrandTotal)
		}
	}
	if inv.AmountPaid.GreaterThan(inv.GrandTotal) {
		return fmt.Errorf("%w: pagado %s excede el total %s",
			domain.ErrCorruptInvoice, inv.AmountPaid, inv.GrandTotal)
	}
	if inv.Status == StatusPaid && (!inv.AmountPaid.Equal(inv.GrandTotal) || !inv.GrandTotal.IsPositive()) {
		return fmt.Errorf("%w: PAID con pagado %s y total %s",
			domain.ErrCorruptInvoice, inv.AmountPaid, inv.GrandTotal)
	}
	return nil
}
