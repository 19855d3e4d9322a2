package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/invoice-billing/internal/application/dto"
	"github.com/tu-usuario/invoice-billing/internal/domain"
	"github.com/tu-usuario/invoice-billing/internal/domain/entity"
	"github.com/tu-usuario/invoice-billing/internal/domain/repository"
)

// InvoiceUseCase orquesta el ciclo de vida de la factura: crear, listar,
// agregar ítems, finalizar y registrar pagos. Es stateless: carga la factura
// del repositorio, aplica una operación del agregado y persiste el resultado.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	txRunner    TxRunner
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository, txRunner TxRunner) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		txRunner:    txRunner,
		now:         time.Now,
	}
}

// CreateInvoice crea una factura en DRAFT.
// La verificación previa por número da un error temprano legible; la garantía
// real contra duplicados concurrentes es el constraint único en la inserción.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := entity.NewInvoice(in.Number, in.CustomerName, uc.now())
	if err != nil {
		return nil, err
	}

	existing, err := uc.invoiceRepo.GetByNumber(in.Number)
	if err != nil {
		return nil, fmt.Errorf("consultar número: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateNumber
	}

	if err := uc.invoiceRepo.Create(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// ListInvoices devuelve todas las facturas ordenadas por fecha de creación
// ascendente, cada una con sus ítems.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context) ([]dto.InvoiceResponse, error) {
	invoices, err := uc.invoiceRepo.List()
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items, err := uc.invoiceRepo.ListItems(inv.ID)
		if err != nil {
			return nil, fmt.Errorf("listar ítems de %s: %w", inv.ID, err)
		}
		inv.Items = derefItems(items)
		out = append(out, *toInvoiceResponse(inv))
	}
	return out, nil
}

// GetInvoice devuelve el snapshot completo de una factura.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(uc.invoiceRepo, invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// AddItem agrega una línea a una factura en DRAFT.
func (uc *InvoiceUseCase) AddItem(ctx context.Context, invoiceID string, in dto.AddItemRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(uc.invoiceRepo, invoiceID)
	if err != nil {
		return nil, err
	}

	item, err := inv.AddItem(in.Description, in.Qty, in.UnitPrice, in.TaxRate, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.CreateItem(item); err != nil {
		return nil, fmt.Errorf("insertar ítem: %w", err)
	}
	if err := uc.invoiceRepo.Save(inv); err != nil {
		return nil, fmt.Errorf("guardar factura: %w", err)
	}
	return toInvoiceResponse(inv), nil
}

// FinalizeInvoice congela los totales y pasa la factura a FINALIZED.
func (uc *InvoiceUseCase) FinalizeInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(uc.invoiceRepo, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.Finalize(uc.now()); err != nil {
		return nil, err
	}
	if err := inv.CheckIntegrity(); err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.Save(inv); err != nil {
		return nil, fmt.Errorf("guardar factura: %w", err)
	}
	return toInvoiceResponse(inv), nil
}

// RecordPayment registra un pago dentro de una transacción con lock exclusivo
// de fila sobre la factura: la lectura de amount_paid/grand_total, el chequeo
// de sobrepago y la escritura son atómicos frente a pagos concurrentes. El
// lock se libera en el commit o en el rollback.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, invoiceID string, in dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		locked, err := invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return fmt.Errorf("cargar factura con lock: %w", err)
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		items, err := invoiceRepo.ListItems(invoiceID)
		if err != nil {
			return fmt.Errorf("listar ítems: %w", err)
		}
		locked.Items = derefItems(items)

		payment, err := locked.RecordPayment(in.Amount, in.Reference, uc.now())
		if err != nil {
			return err
		}
		if err := locked.CheckIntegrity(); err != nil {
			return err
		}
		if err := invoiceRepo.CreatePayment(payment); err != nil {
			return fmt.Errorf("insertar pago: %w", err)
		}
		if err := invoiceRepo.Save(locked); err != nil {
			return fmt.Errorf("guardar factura: %w", err)
		}
		inv = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// ListPayments devuelve los pagos de una factura en orden de inserción.
func (uc *InvoiceUseCase) ListPayments(ctx context.Context, invoiceID string) ([]dto.PaymentResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("cargar factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	payments, err := uc.invoiceRepo.ListPayments(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listar pagos: %w", err)
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, dto.PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount.StringFixed(2),
			Reference: p.Reference,
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

// loadInvoice carga cabecera + ítems; (nil, nil) del repo se vuelve ErrNotFound.
func (uc *InvoiceUseCase) loadInvoice(invoiceRepo repository.InvoiceRepository, invoiceID string) (*entity.Invoice, error) {
	inv, err := invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("cargar factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := invoiceRepo.ListItems(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("listar ítems: %w", err)
	}
	inv.Items = derefItems(items)
	return inv, nil
}

func derefItems(items []*entity.InvoiceItem) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	return out
}

// toInvoiceResponse arma el snapshot con montos a 2 decimales fijos.
func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Qty:         it.Qty.StringFixed(2),
			UnitPrice:   it.UnitPrice.StringFixed(2),
			TaxRate:     it.TaxRate.StringFixed(2),
		})
	}
	return &dto.InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		CustomerName: inv.CustomerName,
		Status:       string(inv.Status),
		Subtotal:     inv.Subtotal.StringFixed(2),
		TaxTotal:     inv.TaxTotal.StringFixed(2),
		GrandTotal:   inv.GrandTotal.StringFixed(2),
		AmountPaid:   inv.AmountPaid.StringFixed(2),
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
		Items:        items,
	}
}
