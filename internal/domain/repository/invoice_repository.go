package repository

import "github.com/tu-usuario/invoice-billing/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas, ítems y pagos.
//
// Los métodos Get* devuelven (nil, nil) cuando el recurso no existe; el caso de
// uso lo traduce a domain.ErrNotFound.
type InvoiceRepository interface {
	// Create inserta la cabecera. Un número duplicado (constraint único sobre
	// invoices.number) se reporta como domain.ErrDuplicateNumber.
	Create(invoice *entity.Invoice) error
	// Save reemplaza los campos mutables: status, totales, amount_paid, updated_at.
	Save(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	CreatePayment(payment *entity.PaymentTransaction) error

	GetByID(id string) (*entity.Invoice, error)
	GetByNumber(number string) (*entity.Invoice, error)
	// GetByIDForUpdate carga la factura adquiriendo un lock exclusivo de fila
	// (SELECT ... FOR UPDATE). Solo tiene sentido dentro de una transacción:
	// serializa pagos concurrentes contra la misma factura.
	GetByIDForUpdate(id string) (*entity.Invoice, error)

	// List devuelve todas las facturas ordenadas por created_at ascendente.
	List() ([]*entity.Invoice, error)
	ListItems(invoiceID string) ([]*entity.InvoiceItem, error)
	ListPayments(invoiceID string) ([]*entity.PaymentTransaction, error)
}
