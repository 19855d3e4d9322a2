package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/invoice-billing/internal/application/billing"
	"github.com/tu-usuario/invoice-billing/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC *billing.InvoiceUseCase
	PDFUC     *billing.PDFUseCase
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC, deps.Log)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/items", invoiceHandler.AddItem)
	invoices.Post("/:id/finalize", invoiceHandler.Finalize)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)
	invoices.Get("/:id/payments", invoiceHandler.ListPayments)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
}
