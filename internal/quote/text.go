package quote

import (
	"fmt"
	"strings"
)

// Text renders q as the plain-text summary sent to customers.
func Text(q Quote) string {
	e := q.Estimate
	var b strings.Builder

	title := q.Title
	if title == "" {
		title = e.ProductName
	}
	fmt.Fprintf(&b, "Cotización %s\n", q.Reference)
	fmt.Fprintf(&b, "Fecha: %s\n", q.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Título: %s\n\n", title)

	fmt.Fprintf(&b, "Total: %s %s\n", e.Totals.Total.StringFixed(2), e.Currency)
	fmt.Fprintf(&b, "Precio unitario: %s %s\n\n", e.Totals.UnitPrice.StringFixed(4), e.Currency)

	b.WriteString("Datos del producto:\n")
	fmt.Fprintf(&b, "- Producto: %s\n", e.ProductName)
	fmt.Fprintf(&b, "- Cantidad: %d\n", e.Quantity)
	fmt.Fprintf(&b, "- Tamaño final: %g x %g mm\n", e.Item.Width, e.Item.Height)
	fmt.Fprintf(&b, "- Caras: %d\n", e.Sides)
	fmt.Fprintf(&b, "- Páginas: %d\n\n", e.Pages)

	b.WriteString("Imposición:\n")
	fmt.Fprintf(&b, "- Papel: %s (%g x %g mm)\n", e.PaperStockName, e.Sheet.Width, e.Sheet.Height)
	layout := e.Decision.Layout
	fmt.Fprintf(&b, "- Piezas por pliego: %d (%d x %d)\n", layout.ItemsPerSheet, layout.Columns, layout.Rows)
	if e.Decision.Rotated {
		b.WriteString("- Orientación: girada 90°\n")
	} else {
		b.WriteString("- Orientación: normal\n")
	}
	fmt.Fprintf(&b, "- Pliegos: %d\n\n", e.TotalSheets)

	b.WriteString("Desglose:\n")
	fmt.Fprintf(&b, "- Papel: %s\n", e.Breakdown.PaperCost.StringFixed(2))
	fmt.Fprintf(&b, "- Impresión: %s\n", e.Breakdown.PrintCost.StringFixed(2))
	fmt.Fprintf(&b, "- Alistamiento: %s\n", e.Breakdown.SetupFee.StringFixed(2))
	fmt.Fprintf(&b, "- Subtotal: %s\n", e.Breakdown.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "- Margen: %s\n", e.Breakdown.Margin.StringFixed(2))
	fmt.Fprintf(&b, "- Impuestos: %s\n", e.Breakdown.Tax.StringFixed(2))

	if q.Notes != "" {
		fmt.Fprintf(&b, "\nNotas: %s\n", q.Notes)
	}
	return b.String()
}
