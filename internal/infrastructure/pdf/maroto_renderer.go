// Package pdf implementa la representación gráfica de la factura con GST.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + GSTIN  │  N° Factura + Fecha + Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + contacto                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Desc.% | P.Unit | GST | Total     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / GST / TOTAL / Pagado / Saldo           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: texto configurable de la tienda                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

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

	appbilling "github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFRenderer = (*MarotoRenderer)(nil)

var (
	colorDefaultAccent = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray          = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoRenderer implementa billing.InvoicePDFRenderer usando Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el renderizador.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// RenderInvoice genera el PDF de la factura y devuelve sus bytes.
func (g *MarotoRenderer) RenderInvoice(
	shop *entity.Shop,
	customer *entity.Customer,
	invoice *entity.Invoice,
	items []*entity.InvoiceItem,
) ([]byte, error) {
	accent := parseAccent(shop.InvoiceAccentColor)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(invoiceTitle(shop), true).
		WithAuthor(shop.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, shop, accent))
	m.AddRows(line.NewRow(1, props.Line{Color: accent, Thickness: 0.5}))
	m.AddRows(customerRow(customer, accent))
	m.AddRows(line.NewRow(1, props.Line{Color: accent, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(accent))
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: accent, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice, accent))

	if shop.InvoiceFooter != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(shop.InvoiceFooter, props.Text{Size: 7, Color: colorGray, Top: 2, Align: align.Center}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre de la tienda + GSTIN (izq) y N° de factura + fecha (der).
func headerRow(invoice *entity.Invoice, shop *entity.Shop, accent *props.Color) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shop.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: accent, Top: 1,
			}),
			text.New("GSTIN: "+nonEmpty(shop.GSTIN, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(invoiceTitle(shop), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: accent, Top: 1,
			}),
			text.New(invoice.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+invoice.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente facturado.
func customerRow(customer *entity.Customer, accent *props.Color) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("FACTURAR A", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: accent, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s",
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow(accent *props.Color) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: accent, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Desc.%", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("GST", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableItemRows: una fila por línea de factura.
func tableItemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.Itoa(it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				it.DiscountPercentage.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"₹"+it.PricePerUnit.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"₹"+it.GSTAmount.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"₹"+it.TotalAmount.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha, incluyendo posición de pago.
func totalsRow(invoice *entity.Invoice, accent *props.Color) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: accent, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: accent, Right: 1,
		})
	}

	return row.New(40).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			label("GST:"),
			grandLabel("TOTAL:"),
			label("Pagado:"),
			label("Saldo pendiente:"),
		),
		col.New(4).Add(
			value("₹"+invoice.TotalAmount.StringFixed(2)),
			value("₹"+invoice.TotalGST.StringFixed(2)),
			grandValue("₹"+invoice.GrandTotal().StringFixed(2)),
			value("₹"+invoice.AmountPaid.StringFixed(2)),
			value("₹"+invoice.BalanceDue.StringFixed(2)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func invoiceTitle(shop *entity.Shop) string {
	return nonEmpty(shop.InvoiceTitle, "FACTURA")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// parseAccent interpreta el color de acento de la tienda ("#RRGGBB");
// inválido o vacío cae al azul por defecto.
func parseAccent(hex string) *props.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return colorDefaultAccent
	}
	r, err1 := strconv.ParseUint(hex[1:3], 16, 8)
	g, err2 := strconv.ParseUint(hex[3:5], 16, 8)
	b, err3 := strconv.ParseUint(hex[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return colorDefaultAccent
	}
	return &props.Color{Red: int(r), Green: int(g), Blue: int(b)}
}
