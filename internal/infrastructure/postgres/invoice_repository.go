package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/invoice-billing/internal/domain"
	"github.com/tu-usuario/invoice-billing/internal/domain/entity"
	"github.com/tu-usuario/invoice-billing/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, customer_name, status, subtotal, tax_total, grand_total, amount_paid, created_at, updated_at`

// Create persiste la cabecera. Un 23505 sobre invoices.number se traduce a
// domain.ErrDuplicateNumber: el constraint único es la defensa real contra la
// carrera chequeo-inserción.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, number, customer_name, status, subtotal, tax_total, grand_total, amount_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, invoice.CustomerName, string(invoice.Status),
		invoice.Subtotal, invoice.TaxTotal, invoice.GrandTotal, invoice.AmountPaid,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Save reemplaza los campos mutables: estado, totales, pagado y updated_at.
// number, customer_name y created_at no cambian nunca después de la creación.
func (r *InvoiceRepo) Save(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status      = $2,
		    subtotal    = $3,
		    tax_total   = $4,
		    grand_total = $5,
		    amount_paid = $6,
		    updated_at  = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.ID, string(invoice.Status),
		invoice.Subtotal, invoice.TaxTotal, invoice.GrandTotal, invoice.AmountPaid,
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateItem persiste una línea; el orden de inserción lo da la columna seq.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, qty, unit_price, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.Description, item.Qty, item.UnitPrice, item.TaxRate,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// CreatePayment persiste un pago.
func (r *InvoiceRepo) CreatePayment(payment *entity.PaymentTransaction) error {
	query := `
		INSERT INTO payment_records (id, invoice_id, amount, reference, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.InvoiceID, payment.Amount, payment.Reference, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID. (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanInvoice(r.q.QueryRow(context.Background(), query, id))
}

// GetByNumber obtiene la cabecera por número de negocio. (nil, nil) si no existe.
func (r *InvoiceRepo) GetByNumber(number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE number = $1`
	return r.scanInvoice(r.q.QueryRow(context.Background(), query, number))
}

// GetByIDForUpdate obtiene la cabecera adquiriendo un lock exclusivo de fila.
// Debe llamarse con el repositorio atado a una transacción; el lock serializa
// pagos concurrentes y se libera en commit o rollback.
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return r.scanInvoice(r.q.QueryRow(context.Background(), query, id))
}

// List devuelve todas las cabeceras ordenadas por created_at ascendente.
func (r *InvoiceRepo) List() ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		var status string
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.CustomerName, &status,
			&inv.Subtotal, &inv.TaxTotal, &inv.GrandTotal, &inv.AmountPaid,
			&inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.Status = entity.InvoiceStatus(status)
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// ListItems obtiene las líneas de una factura en orden de inserción.
func (r *InvoiceRepo) ListItems(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, qty, unit_price, tax_rate
		FROM invoice_items WHERE invoice_id = $1 ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Qty, &it.UnitPrice, &it.TaxRate); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListPayments obtiene los pagos de una factura en orden de inserción.
func (r *InvoiceRepo) ListPayments(invoiceID string) ([]*entity.PaymentTransaction, error) {
	query := `
		SELECT id, invoice_id, amount, reference, created_at
		FROM payment_records WHERE invoice_id = $1 ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.PaymentTransaction
	for rows.Next() {
		var p entity.PaymentTransaction
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Reference, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.CustomerName, &status,
		&inv.Subtotal, &inv.TaxTotal, &inv.GrandTotal, &inv.AmountPaid,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Status = entity.InvoiceStatus(status)
	return &inv, nil
}
