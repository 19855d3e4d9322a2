package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-billing/internal/application/billing"
	"github.com/tu-usuario/invoice-billing/internal/application/dto"
	"github.com/tu-usuario/invoice-billing/internal/domain"
	"github.com/tu-usuario/invoice-billing/internal/domain/entity"
	"github.com/tu-usuario/invoice-billing/internal/infrastructure/memory"
)

type capturePDF struct {
	seen *entity.Invoice
}

func (g *capturePDF) GenerateInvoicePDF(_ context.Context, invoice *entity.Invoice) ([]byte, error) {
	g.seen = invoice
	return []byte("%PDF-1.4"), nil
}

func TestDownloadInvoicePDF(t *testing.T) {
	repo := memory.NewInvoiceRepository()
	uc := billing.NewInvoiceUseCase(repo, memory.NewTxRunner(repo))
	gen := &capturePDF{}
	pdfUC := billing.NewPDFUseCase(repo, gen)
	ctx := context.Background()

	// Inexistente
	_, _, err := pdfUC.DownloadInvoicePDF(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// En DRAFT se rechaza
	created, err := uc.CreateInvoice(ctx, dto.CreateInvoiceRequest{Number: "INV-0001", CustomerName: "Acme"})
	require.NoError(t, err)
	_, _, err = pdfUC.DownloadInvoicePDF(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	// Finalizada: genera y entrega el documento con sus líneas cargadas
	_, err = uc.AddItem(ctx, created.ID, dto.AddItemRequest{
		Description: "Laptop bag", Qty: "2", UnitPrice: "750.00", TaxRate: "18.00",
	})
	require.NoError(t, err)
	_, err = uc.FinalizeInvoice(ctx, created.ID)
	require.NoError(t, err)

	pdfBytes, filename, err := pdfUC.DownloadInvoicePDF(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	assert.Equal(t, "factura_INV-0001.pdf", filename)
	require.NotNil(t, gen.seen)
	assert.Len(t, gen.seen.Items, 1)
	assert.Equal(t, "1770.00", gen.seen.GrandTotal.StringFixed(2))
}
