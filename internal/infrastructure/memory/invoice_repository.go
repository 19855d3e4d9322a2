// Package memory implementa el puerto de persistencia sobre mapas en memoria.
// Se usa en tests y permite levantar la API sin PostgreSQL; reproduce la
// semántica relevante del adaptador real: número único, (nil, nil) para
// no-encontrado, listado en orden de creación y serialización de pagos
// concurrentes vía el TxRunner.
package memory

import (
	"context"
	"sync"

	"github.com/tu-usuario/invoice-billing/internal/application/billing"
	"github.com/tu-usuario/invoice-billing/internal/domain"
	"github.com/tu-usuario/invoice-billing/internal/domain/entity"
	"github.com/tu-usuario/invoice-billing/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)

// InvoiceRepository almacén en memoria, seguro para uso concurrente.
type InvoiceRepository struct {
	mu       sync.Mutex
	invoices map[string]entity.Invoice // cabeceras sin colecciones
	byNumber map[string]string
	items    map[string][]entity.InvoiceItem
	payments map[string][]entity.PaymentTransaction
	order    []string // ids en orden de creación
}

// NewInvoiceRepository construye el almacén vacío.
func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{
		invoices: make(map[string]entity.Invoice),
		byNumber: make(map[string]string),
		items:    make(map[string][]entity.InvoiceItem),
		payments: make(map[string][]entity.PaymentTransaction),
	}
}

// Create inserta la cabecera; número repetido devuelve ErrDuplicateNumber,
// igual que el constraint único del adaptador PostgreSQL.
func (r *InvoiceRepository) Create(invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byNumber[invoice.Number]; exists {
		return domain.ErrDuplicateNumber
	}
	r.invoices[invoice.ID] = header(invoice)
	r.byNumber[invoice.Number] = invoice.ID
	r.order = append(r.order, invoice.ID)
	return nil
}

// Save reemplaza los campos mutables de la cabecera.
func (r *InvoiceRepository) Save(invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[invoice.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = invoice.Status
	stored.Subtotal = invoice.Subtotal
	stored.TaxTotal = invoice.TaxTotal
	stored.GrandTotal = invoice.GrandTotal
	stored.AmountPaid = invoice.AmountPaid
	stored.UpdatedAt = invoice.UpdatedAt
	r.invoices[invoice.ID] = stored
	return nil
}

// CreateItem agrega la línea al final (orden de inserción).
func (r *InvoiceRepository) CreateItem(item *entity.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], *item)
	return nil
}

// CreatePayment agrega el pago al final (orden de inserción).
func (r *InvoiceRepository) CreatePayment(payment *entity.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.InvoiceID] = append(r.payments[payment.InvoiceID], *payment)
	return nil
}

// GetByID devuelve una copia de la cabecera, o (nil, nil) si no existe.
func (r *InvoiceRepository) GetByID(id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

// GetByNumber devuelve una copia de la cabecera, o (nil, nil) si no existe.
func (r *InvoiceRepository) GetByNumber(number string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byNumber[number]
	if !ok {
		return nil, nil
	}
	inv := r.invoices[id]
	return &inv, nil
}

// GetByIDForUpdate equivale a GetByID; la exclusión mutua la aporta el
// TxRunner, que mantiene su lock durante todo el callback.
func (r *InvoiceRepository) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return r.GetByID(id)
}

// List devuelve copias de las cabeceras en orden de creación ascendente.
func (r *InvoiceRepository) List() ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Invoice, 0, len(r.order))
	for _, id := range r.order {
		inv := r.invoices[id]
		out = append(out, &inv)
	}
	return out, nil
}

// ListItems devuelve copias de las líneas en orden de inserción.
func (r *InvoiceRepository) ListItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.items[invoiceID]
	out := make([]*entity.InvoiceItem, 0, len(stored))
	for i := range stored {
		it := stored[i]
		out = append(out, &it)
	}
	return out, nil
}

// ListPayments devuelve copias de los pagos en orden de inserción.
func (r *InvoiceRepository) ListPayments(invoiceID string) ([]*entity.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.payments[invoiceID]
	out := make([]*entity.PaymentTransaction, 0, len(stored))
	for i := range stored {
		p := stored[i]
		out = append(out, &p)
	}
	return out, nil
}

// header copia la cabecera sin las colecciones: el almacén guarda ítems y
// pagos por separado, como las tablas del adaptador real.
func header(invoice *entity.Invoice) entity.Invoice {
	inv := *invoice
	inv.Items = nil
	inv.Payments = nil
	return inv
}

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner serializa los callbacks con un mutex: el equivalente en memoria del
// lock exclusivo de fila. No hay rollback; los casos de uso solo escriben
// después de pasar todas las validaciones.
type TxRunner struct {
	mu   sync.Mutex
	repo *InvoiceRepository
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(repo *InvoiceRepository) *TxRunner {
	return &TxRunner{repo: repo}
}

// Run ejecuta fn en exclusión mutua con cualquier otro Run.
func (r *TxRunner) Run(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.repo)
}
