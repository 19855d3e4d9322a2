package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/invoice-billing/internal/application/billing"
	"github.com/tu-usuario/invoice-billing/internal/application/dto"
	"github.com/tu-usuario/invoice-billing/internal/domain"
	"github.com/tu-usuario/invoice-billing/pkg/logger"
)

// InvoiceHandler maneja las peticiones HTTP del ciclo de vida de la factura.
type InvoiceHandler struct {
	uc    *billing.InvoiceUseCase
	pdfUC *billing.PDFUseCase
	log   *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdfUC *billing.PDFUseCase, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfUC: pdfUC, log: log}
}

// Create crea una factura en DRAFT.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("VALIDATION_ERROR", "cuerpo inválido"))
	}
	invoice, err := h.uc.CreateInvoice(c.Context(), in)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List devuelve todas las facturas ordenadas por fecha de creación ascendente.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	invoices, err := h.uc.ListInvoices(c.Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(invoices)
}

// GetByID devuelve el snapshot completo de una factura.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.uc.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(invoice)
}

// AddItem agrega una línea a una factura en DRAFT.
// POST /api/invoices/:id/items
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("VALIDATION_ERROR", "cuerpo inválido"))
	}
	invoice, err := h.uc.AddItem(c.Context(), c.Params("id"), in)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// Finalize congela totales y pasa la factura a FINALIZED.
// POST /api/invoices/:id/finalize
func (h *InvoiceHandler) Finalize(c *fiber.Ctx) error {
	invoice, err := h.uc.FinalizeInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(invoice)
}

// RecordPayment registra un pago contra una factura finalizada.
// POST /api/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("VALIDATION_ERROR", "cuerpo inválido"))
	}
	invoice, err := h.uc.RecordPayment(c.Context(), c.Params("id"), in)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// ListPayments devuelve los pagos registrados contra una factura.
// GET /api/invoices/:id/payments
func (h *InvoiceHandler) ListPayments(c *fiber.Ctx) error {
	payments, err := h.uc.ListPayments(c.Context(), c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(payments)
}

// DownloadPDF descarga la representación gráfica de una factura finalizada.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// errorResponse traduce errores de dominio al contrato HTTP:
// VALIDATION_ERROR/NO_ITEMS/DUPLICATE_NUMBER/OVERPAYMENT -> 400,
// IMMUTABLE_INVOICE/INVALID_STATUS -> 409, NOT_FOUND -> 404, resto -> 500.
func (h *InvoiceHandler) errorResponse(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("VALIDATION_ERROR", ve.Error()))
	case errors.Is(err, domain.ErrNoItems):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("NO_ITEMS", err.Error()))
	case errors.Is(err, domain.ErrDuplicateNumber):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("DUPLICATE_NUMBER", err.Error()))
	case errors.Is(err, domain.ErrOverpayment):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("OVERPAYMENT", err.Error()))
	case errors.Is(err, domain.ErrImmutableInvoice):
		return c.Status(fiber.StatusConflict).JSON(dto.NewErrorResponse("IMMUTABLE_INVOICE", err.Error()))
	case errors.Is(err, domain.ErrInvalidStatus):
		return c.Status(fiber.StatusConflict).JSON(dto.NewErrorResponse("INVALID_STATUS", err.Error()))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse("NOT_FOUND", err.Error()))
	default:
		// Incluye ErrCorruptInvoice: invariante rota, se reporta ruidosamente.
		h.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewErrorResponse("INTERNAL", "error interno"))
	}
}
