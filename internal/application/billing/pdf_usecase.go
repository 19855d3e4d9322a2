package billing

import (
	"context"
	"fmt"

	"github.com/tu-usuario/invoice-billing/internal/domain"
	"github.com/tu-usuario/invoice-billing/internal/domain/entity"
	"github.com/tu-usuario/invoice-billing/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
// Solo se permite para facturas ya finalizadas: en DRAFT los totales aún no
// existen y el documento no tendría validez.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, generator: generator}
}

// DownloadInvoicePDF recupera la factura con sus ítems, verifica que no esté
// en DRAFT y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrNotFound          si la factura no existe.
//   - domain.ErrInvalidStatus     si la factura sigue en DRAFT.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.Status == entity.StatusDraft {
		return nil, "", fmt.Errorf("%w: finalice la factura antes de descargar el PDF", domain.ErrInvalidStatus)
	}

	items, err := uc.invoiceRepo.ListItems(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: listar ítems: %w", err)
	}
	inv.Items = derefItems(items)

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}
