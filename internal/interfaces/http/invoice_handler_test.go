package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/invoice-billing/internal/application/billing"
	"github.com/tu-usuario/invoice-billing/internal/application/dto"
	"github.com/tu-usuario/invoice-billing/internal/domain/entity"
	"github.com/tu-usuario/invoice-billing/internal/infrastructure/memory"
	apphttp "github.com/tu-usuario/invoice-billing/internal/interfaces/http"
	"github.com/tu-usuario/invoice-billing/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// stubPDF generador trivial para no acoplar estos tests a maroto.
type stubPDF struct{}

func (stubPDF) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

// buildTestApp construye una aplicación Fiber con el router real sobre el
// repositorio en memoria.
func buildTestApp() *fiber.App {
	repo := memory.NewInvoiceRepository()
	uc := billing.NewInvoiceUseCase(repo, memory.NewTxRunner(repo))
	log := logger.New(logger.Config{Env: "development", Level: "error"})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		InvoiceUC: uc,
		PDFUC:     billing.NewPDFUseCase(repo, stubPDF{}),
		Log:       log,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out.Error.Code
}

// createInvoice crea una factura vía HTTP y devuelve su snapshot.
func createInvoice(t *testing.T, app *fiber.App, number string) dto.InvoiceResponse {
	t.Helper()
	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/invoices/", dto.CreateInvoiceRequest{
		Number: number, CustomerName: "Acme Pvt Ltd",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var out dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// finalizedInvoice deja una factura de total 1770.00 lista para pagos.
func finalizedInvoice(t *testing.T, app *fiber.App) dto.InvoiceResponse {
	t.Helper()
	created := createInvoice(t, app, "INV-0001")
	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/invoices/"+created.ID+"/items", dto.AddItemRequest{
		Description: "Laptop bag", Qty: "2", UnitPrice: "750.00", TaxRate: "18.00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/invoices/"+created.ID+"/finalize", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var out dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateInvoice_HTTP(t *testing.T) {
	app := buildTestApp()
	out := createInvoice(t, app, "INV-0001")

	assert.Equal(t, "INV-0001", out.Number)
	assert.Equal(t, "Acme Pvt Ltd", out.CustomerName)
	assert.Equal(t, "DRAFT", out.Status)
	assert.Equal(t, "0.00", out.Subtotal)
	assert.Equal(t, "0.00", out.AmountPaid)
}

func TestCreateInvoice_HTTP_Errores(t *testing.T) {
	app := buildTestApp()
	createInvoice(t, app, "INV-0001")

	// Número duplicado -> 400 DUPLICATE_NUMBER
	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/invoices/", dto.CreateInvoiceRequest{
		Number: "INV-0001", CustomerName: "Otro",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_NUMBER", errorCode(t, raw))

	// Campo faltante -> 400 VALIDATION_ERROR
	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/invoices/", dto.CreateInvoiceRequest{
		CustomerName: "Sin número",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, raw))
}

func TestAddItem_HTTP(t *testing.T) {
	app := buildTestApp()
	created := createInvoice(t, app, "INV-0001")

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/invoices/"+created.ID+"/items", dto.AddItemRequest{
		Description: "Laptop bag", Qty: "2", UnitPrice: "750.00", TaxRate: "18.00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var out dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Laptop bag", out.Items[0].Description)
	assert.Equal(t, "2.00", out.Items[0].Qty)
	assert.Equal(t, "0.00", out.Subtotal, "los totales siguen en cero hasta finalizar")

	// qty=0 -> 400 VALIDATION_ERROR
	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/invoices/"+created.ID+"/items", dto.AddItemRequest{
		Description: "x", Qty: "0", UnitPrice: "1.00",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, raw))

	// Factura inexistente -> 404
	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/invoices/no-existe/items", dto.AddItemRequest{
		Description: "x", Qty: "1", UnitPrice: "1.00",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestFinalize_HTTP(t *testing.T) {
	app := buildTestApp()
	out := finalizedInvoice(t, app)

	assert.Equal(t, "FINALIZED", out.Status)
	assert.Equal(t, "1500.00", out.Subtotal)
	assert.Equal(t, "270.00", out.TaxTotal)
	assert.Equal(t, "1770.00", out.GrandTotal)

	// Finalizar dos veces -> 409 INVALID_STATUS
	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/invoices/"+out.ID+"/finalize", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATUS", errorCode(t, raw))

	// Agregar ítems después de finalizar -> 409 IMMUTABLE_INVOICE
	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/invoices/"+out.ID+"/items", dto.AddItemRequest{
		Description: "Otro", Qty: "1", UnitPrice: "1.00",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "IMMUTABLE_INVOICE", errorCode(t, raw))
}

func TestFinalize_HTTP_SinItems(t *testing.T) {
	app := buildTestApp()
	created := createInvoice(t, app, "INV-0001")

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/invoices/"+created.ID+"/finalize", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NO_ITEMS", errorCode(t, raw))
}

func TestRecordPayment_HTTP(t *testing.T) {
	app := buildTestApp()
	inv := finalizedInvoice(t, app)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/invoices/"+inv.ID+"/payments", dto.RecordPaymentRequest{
		Amount: "1000.00", Reference: "TXN123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var out dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "1000.00", out.AmountPaid)
	assert.Equal(t, "FINALIZED", out.Status)

	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/invoices/"+inv.ID+"/payments", dto.RecordPaymentRequest{
		Amount: "770.00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "PAID", out.Status)

	// Un centavo más -> 400 OVERPAYMENT
	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/invoices/"+inv.ID+"/payments", dto.RecordPaymentRequest{
		Amount: "0.01",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OVERPAYMENT", errorCode(t, raw))

	// Los pagos se exponen por separado, no embebidos en el snapshot.
	resp, raw = doJSON(t, app, fiber.MethodGet, "/api/invoices/"+inv.ID+"/payments", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var payments []dto.PaymentResponse
	require.NoError(t, json.Unmarshal(raw, &payments))
	require.Len(t, payments, 2)
	assert.Equal(t, "1000.00", payments[0].Amount)
	assert.Equal(t, "TXN123", payments[0].Reference)
}

func TestRecordPayment_HTTP_EnDraft(t *testing.T) {
	app := buildTestApp()
	created := createInvoice(t, app, "INV-0001")

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/invoices/"+created.ID+"/payments", dto.RecordPaymentRequest{
		Amount: "10.00",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATUS", errorCode(t, raw))
}

func TestListInvoices_HTTP(t *testing.T) {
	app := buildTestApp()
	createInvoice(t, app, "INV-0001")
	createInvoice(t, app, "INV-0002")

	resp, raw := doJSON(t, app, fiber.MethodGet, "/api/invoices/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "INV-0001", list[0].Number)
	assert.Equal(t, "INV-0002", list[1].Number)
}

func TestGetInvoice_HTTP_Inexistente(t *testing.T) {
	app := buildTestApp()
	resp, raw := doJSON(t, app, fiber.MethodGet, "/api/invoices/no-existe", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestDownloadPDF_HTTP(t *testing.T) {
	app := buildTestApp()

	// En DRAFT -> 409 INVALID_STATUS
	created := createInvoice(t, app, "INV-0002")
	resp, raw := doJSON(t, app, fiber.MethodGet, "/api/invoices/"+created.ID+"/pdf", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATUS", errorCode(t, raw))

	// Finalizada -> 200 con el documento
	inv := finalizedInvoice(t, app)
	resp, raw = doJSON(t, app, fiber.MethodGet, "/api/invoices/"+inv.ID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "factura_INV-0001.pdf")
	assert.NotEmpty(t, raw)
}
