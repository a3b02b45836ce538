// Package pdf genera los reportes impresos de los documentos de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Bodega     │  N° Documento + Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: fechas, responsables, motivo / notas                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Ítem | cantidades | costo | valor              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: faltante / sobrante / neto / exactitud            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS                                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

var _ documents.ReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa documents.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// CountVariancePDF hoja de diferencias de un conteo físico.
func (g *MarotoPDFGenerator) CountVariancePDF(
	_ context.Context,
	count *entity.InventoryCount,
	warehouse *entity.Warehouse,
	items map[string]*entity.InventoryItem,
) ([]byte, error) {
	m := newDocument("Conteo físico " + count.CountNumber)

	m.AddRows(headerRow("CONTEO FÍSICO DE INVENTARIO", warehouse, count.CountNumber, string(count.Status)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(
		fmt.Sprintf("Inicio: %s   |   Cierre: %s   |   Aprobado: %s",
			formatTime(count.StartedAt), formatTime(count.CompletedAt), formatTime(count.ApprovedAt)),
		fmt.Sprintf("Aprobado por: %s   |   Notas: %s", nonEmpty(count.ApprovedBy, "—"), nonEmpty(count.Notes, "—")),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow([]column{
		{"SKU", 2, align.Left},
		{"Ítem", 3, align.Left},
		{"Sistema", 1, align.Right},
		{"Contado", 1, align.Right},
		{"Diferencia", 1, align.Right},
		{"Costo unit.", 2, align.Right},
		{"Valor dif.", 2, align.Right},
	}))
	for _, l := range count.Lines {
		sku, name := describe(items, l.ItemID)
		counted := "sin contar"
		if l.CountedQuantity != nil {
			counted = formatQty(*l.CountedQuantity)
		}
		variance := l.Variance()
		m.AddRows(detailRow([]cell{
			{sku, 2, align.Left, nil},
			{name, 3, align.Left, nil},
			{formatQty(l.SystemQuantity), 1, align.Right, nil},
			{counted, 1, align.Right, nil},
			{formatQty(variance), 1, align.Right, varianceColor(variance)},
			{"$" + formatMoney(l.UnitCost), 2, align.Right, nil},
			{"$" + formatMoney(variance.Mul(l.UnitCost)), 2, align.Right, varianceColor(variance)},
		}))
	}

	s := count.Summary
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([]total{
		{"Ítems con diferencia:", fmt.Sprintf("%d", s.ItemsWithVariance), false},
		{"Faltante:", "$" + formatMoney(s.ShortageValue), false},
		{"Sobrante:", "$" + formatMoney(s.SurplusValue), false},
		{"Exactitud:", s.AccuracyPct.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%", false},
		{"AJUSTE NETO:", "$" + formatMoney(s.NetAdjustmentValue), true},
	}))

	m.AddRows(line.NewRow(8))
	m.AddRows(signatureRow("Contó", "Aprobó"))
	return generate(m)
}

// WriteoffPDF comprobante de baja de inventario.
func (g *MarotoPDFGenerator) WriteoffPDF(
	_ context.Context,
	w *entity.Writeoff,
	warehouse *entity.Warehouse,
	items map[string]*entity.InventoryItem,
) ([]byte, error) {
	m := newDocument("Baja " + w.WriteoffNumber)

	m.AddRows(headerRow("BAJA DE INVENTARIO", warehouse, w.WriteoffNumber, string(w.Status)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(
		fmt.Sprintf("Motivo: %s   |   Enviada: %s   |   Aprobada: %s",
			w.Reason, formatTime(w.SubmittedAt), formatTime(w.ApprovedAt)),
		fmt.Sprintf("Aprobado por: %s   |   Notas: %s", nonEmpty(w.ApprovedBy, "—"), nonEmpty(w.Notes, "—")),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow([]column{
		{"SKU", 2, align.Left},
		{"Ítem", 4, align.Left},
		{"Cantidad", 2, align.Right},
		{"Costo unit.", 2, align.Right},
		{"Total", 2, align.Right},
	}))
	for _, l := range w.Lines {
		sku, name := describe(items, l.ItemID)
		m.AddRows(detailRow([]cell{
			{sku, 2, align.Left, nil},
			{name, 4, align.Left, nil},
			{formatQty(l.Quantity), 2, align.Right, nil},
			{"$" + formatMoney(l.UnitCost), 2, align.Right, nil},
			{"$" + formatMoney(l.TotalCost), 2, align.Right, nil},
		}))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([]total{
		{"VALOR DE LA BAJA:", "$" + formatMoney(w.TotalValue), true},
	}))
	if w.Status != entity.WriteoffApproved {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Documento sin aprobar: los costos son los vigentes al crear la baja.", props.Text{
				Size: 7, Color: colorGray, Top: 2,
			}),
		)))
	}

	m.AddRows(line.NewRow(8))
	m.AddRows(signatureRow("Solicitó", "Aprobó"))
	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título + bodega (izq) y número + estado (der).
func headerRow(title string, warehouse *entity.Warehouse, number, status string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Bodega: "+warehouse.Name, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Estado: "+strings.ToUpper(status), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func infoRow(first, second string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(first, props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New(second, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

type column struct {
	label string
	size  int
	align align.Type
}

// tableHeaderRow: cabecera de la tabla con fondo primario.
func tableHeaderRow(cols []column) core.Row {
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(out...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

type cell struct {
	value string
	size  int
	align align.Type
	color *props.Color
}

func detailRow(cells []cell) core.Row {
	out := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		out = append(out, col.New(c.size).Add(text.New(c.value, props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1, Color: c.color,
		})))
	}
	return row.New(7).Add(out...)
}

type total struct {
	label string
	value string
	grand bool
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(totals []total) core.Row {
	labels := make([]core.Component, 0, len(totals))
	values := make([]core.Component, 0, len(totals))
	for i, t := range totals {
		p := props.Text{Size: 9, Align: align.Right, Top: float64(i * 5)}
		if t.grand {
			p.Style = fontstyle.Bold
			p.Size = 10
			p.Color = colorPrimary
		}
		lp := p
		lp.Style = fontstyle.Bold
		lp.Right = 2
		labels = append(labels, text.New(t.label, lp))
		vp := p
		vp.Right = 1
		values = append(values, text.New(t.value, vp))
	}
	return row.New(float64(len(totals)*5 + 4)).Add(
		col.New(4),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
	)
}

func signatureRow(left, right string) core.Row {
	sign := func(label string) core.Col {
		return col.New(5).Add(
			text.New("______________________________", props.Text{Size: 9, Align: align.Center, Top: 8}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 14, Color: colorGray}),
		)
	}
	return row.New(22).Add(sign(left), col.New(2), sign(right))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func describe(items map[string]*entity.InventoryItem, itemID string) (sku, name string) {
	if it, ok := items[itemID]; ok {
		return it.SKU, it.Name
	}
	return "—", itemID
}

func varianceColor(v decimal.Decimal) *props.Color {
	if v.IsNegative() {
		return colorRed
	}
	return nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006 15:04")
}

// formatQty cantidad sin ceros decimales sobrantes.
func formatQty(d decimal.Decimal) string {
	return d.String()
}

// formatMoney valor con dos decimales, puntos de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50", -3600 → "-3.600,00"
func formatMoney(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}
