// Package pdf implementa la representación gráfica de una factura.
//
// Layout de la página A4:
//
//	┌───────────────────────────────────────────────────────┐
//	│  HEADER: FACTURA + N° + Fecha  │  Estado              │
//	│  CLIENTE: nombre                                      │
//	│  ───────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Imp% | Subtotal │
//	│  ───────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL / Pagado/Saldo │
//	└───────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/tu-usuario/invoice-billing/internal/application/billing"
	"github.com/tu-usuario/invoice-billing/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, invoice *entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+invoice.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(invoice.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + número (izq) y fecha + estado (der).
func headerRow(invoice *entity.Invoice) core.Row {
	fecha := invoice.CreatedAt.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 1, Color: colorGray,
			}),
			text.New("Estado: "+string(invoice.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// customerRow: datos del cliente.
func customerRow(invoice *entity.Invoice) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Imp.%", 1, align.Center),
		h("Subtotal", 3, align.Right),
	)
}

// tableItemRows: una fila por línea de la factura.
func tableItemRows(items []entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		lineSub := it.Qty.Mul(it.UnitPrice)
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(it.Qty.StringFixed(2),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(it.TaxRate.StringFixed(2),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(lineSub.Round(2).StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: subtotal, impuestos, total, pagado y saldo pendiente.
func totalsRows(invoice *entity.Invoice) []core.Row {
	label := func(s string) core.Col {
		return col.New(9).Add(text.New(s, props.Text{
			Size: 9, Align: align.Right, Top: 1, Color: colorGray,
		}))
	}
	value := func(s string, bold bool) core.Col {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return col.New(3).Add(text.New(s, props.Text{
			Style: style, Size: 9, Align: align.Right, Top: 1, Right: 1,
		}))
	}
	saldo := invoice.GrandTotal.Sub(invoice.AmountPaid)
	return []core.Row{
		row.New(6).Add(label("Subtotal"), value(invoice.Subtotal.StringFixed(2), false)),
		row.New(6).Add(label("Impuestos"), value(invoice.TaxTotal.StringFixed(2), false)),
		row.New(7).Add(label("TOTAL A PAGAR"), value(invoice.GrandTotal.StringFixed(2), true)),
		row.New(6).Add(label("Pagado"), value(invoice.AmountPaid.StringFixed(2), false)),
		row.New(6).Add(label("Saldo"), value(saldo.StringFixed(2), false)),
	}
}
