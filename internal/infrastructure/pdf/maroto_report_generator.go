// Package pdf renderiza el reporte diario de operaciones a PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Daily Operations Report        │  Shift date       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Sales Summary / Stock Summary / Shopping List / Notes      │
//	│  AI Insights / Purchased Stock / Variance Summary           │
//	│  Security / Risk                                            │
//	└─────────────────────────────────────────────────────────────┘
//
// El contenido sale solo del CompiledReport; mismo reporte, mismas secciones.
package pdf

import (
	"context"
	"fmt"
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

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

var _ appreport.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHigh    = &props.Color{Red: 178, Green: 34, Blue: 34}
	colorMedium  = &props.Color{Red: 204, Green: 122, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa report.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	author string
}

// NewMarotoReportGenerator construye el generador; author va a los metadatos del PDF.
func NewMarotoReportGenerator(author string) *MarotoReportGenerator {
	return &MarotoReportGenerator{author: author}
}

// GenerateReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateReportPDF(ctx context.Context, rep *entity.CompiledReport) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// La fecha de creación es la del turno para no depender del reloj.
	created, err := time.Parse(entity.DateLayout, rep.ShiftDate)
	if err != nil {
		return nil, fmt.Errorf("pdf: fecha de turno %q: %w", rep.ShiftDate, err)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Daily Operations Report "+rep.ShiftDate, true).
		WithAuthor(g.author, true).
		WithCreationDate(created).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	for _, s := range buildSections(rep) {
		m.AddRows(sectionRows(s)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Render ────────────────────────────────────────────────────────────────────

func headerRow(rep *entity.CompiledReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Daily Operations Report", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Sales, stock variance and risk for the shift", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("SHIFT DATE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(rep.ShiftDate, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func sectionRows(s section) []core.Row {
	rows := []core.Row{
		row.New(4),
		row.New(8).Add(col.New(12).Add(
			text.New(s.title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
		)),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}),
	}

	if len(s.lines) == 0 {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New(s.empty, props.Text{Size: 8, Style: fontstyle.Italic, Color: colorGray, Top: 1, Left: 2}),
		)))
	}

	for _, l := range s.lines {
		// Líneas sin valor (bullets, notas) ocupan el ancho completo.
		if l.value == "" {
			rows = append(rows, row.New(6).Add(col.New(12).Add(
				text.New(l.label, props.Text{Size: 8, Top: 1, Left: 2, Color: severityColor(l.severity)}),
			)))
			continue
		}
		rows = append(rows, row.New(6).Add(
			col.New(8).Add(text.New(l.label, props.Text{Size: 8, Top: 1, Left: 2})),
			col.New(4).Add(text.New(l.value, props.Text{
				Size: 8, Top: 1, Right: 2, Align: align.Right, Color: severityColor(l.severity),
			})),
		))
	}
	return rows
}

func severityColor(sev string) *props.Color {
	switch sev {
	case entity.SeverityHigh:
		return colorHigh
	case entity.SeverityMedium:
		return colorMedium
	default:
		return nil
	}
}
