// Package archive empaqueta la exportación por rango: un PDF por reporte más
// summary.xlsx con una fila por fecha.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
)

var _ appreport.RangeArchiver = (*ZipArchiver)(nil)

const (
	summaryFilename = "summary.xlsx"
	summarySheet    = "Reports"
)

var summaryHeader = []any{
	"Date", "Report ID", "Total Sales", "Burgers Sold", "Rolls Diff", "Meat Diff (kg)", "Risk Score", "Flags", "Emailed At",
}

// ZipArchiver implementa report.RangeArchiver.
type ZipArchiver struct{}

// NewZipArchiver construye el empaquetador.
func NewZipArchiver() *ZipArchiver { return &ZipArchiver{} }

// BuildArchive arma el ZIP en memoria. Las entradas llegan en orden de fecha.
func (a *ZipArchiver) BuildArchive(ctx context.Context, entries []appreport.ArchiveEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := appreport.ReportFilename(e.Report.Report.ShiftDate)
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: e.Report.Date,
		})
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", name, err)
		}
		if _, err := fw.Write(e.PDF); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", name, err)
		}
	}

	xlsx, err := buildSummary(entries)
	if err != nil {
		return nil, err
	}
	fw, err := zw.Create(summaryFilename)
	if err != nil {
		return nil, fmt.Errorf("zip: crear entrada %s: %w", summaryFilename, err)
	}
	if _, err := fw.Write(xlsx); err != nil {
		return nil, fmt.Errorf("zip: escribir %s: %w", summaryFilename, err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}

func buildSummary(entries []appreport.ArchiveEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}

	for i, e := range entries {
		rep := e.Report.Report
		emailed := ""
		if e.Report.EmailedAt != nil {
			emailed = e.Report.EmailedAt.UTC().Format("2006-01-02 15:04")
		}
		values := []any{
			rep.ShiftDate,
			e.Report.ID,
			rep.Sales.TotalSales.InexactFloat64(),
			rep.Sales.BurgersSold,
			rep.Variance.Rolls.Diff,
			rep.Variance.Meat.DiffKg().InexactFloat64(),
			rep.Insights.RiskScore,
			strings.Join(rep.Insights.Flags, ", "),
			emailed,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("xlsx: celda: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %s: %w", rep.ShiftDate, err)
		}
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return out.Bytes(), nil
}
