package billing

import (
	"context"

	"github.com/tu-usuario/invoice-billing/internal/domain/entity"
	"github.com/tu-usuario/invoice-billing/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, entregando un repositorio
// atado a la tx. Commit si fn retorna nil; rollback en cualquier otro caso
// (incluidos pánicos del driver), de modo que el lock de fila adquirido con
// GetByIDForUpdate se libera en todos los caminos de salida.
type TxRunner interface {
	Run(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}
