package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

func entry(date string, risk int, pdf string) appreport.ArchiveEntry {
	d, _ := time.Parse(entity.DateLayout, date)
	return appreport.ArchiveEntry{
		Report: &entity.PersistedReport{
			ID:   "id-" + date,
			Date: d,
			Report: entity.CompiledReport{
				ShiftDate: date,
				Sales:     entity.SalesSummary{TotalSales: decimal.RequireFromString("310.25"), BurgersSold: 40},
				Variance:  entity.VarianceResult{Rolls: entity.UnitVariance{Diff: 6}, Meat: entity.MeatVariance{Diff: 700}},
				Insights:  entity.InsightResult{RiskScore: risk, Flags: []string{"ROLLS_VARIANCE", "MEAT_VARIANCE"}},
			},
		},
		PDF: []byte(pdf),
	}
}

func TestBuildArchive(t *testing.T) {
	data, err := NewZipArchiver().BuildArchive(context.Background(), []appreport.ArchiveEntry{
		entry("2026-03-13", 40, "%PDF-a"),
		entry("2026-03-14", 0, "%PDF-b"),
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	files := map[string][]byte{}
	for _, f := range zr.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		files[f.Name] = b
	}
	assert.Equal(t, []string{"Daily-Report-2026-03-13.pdf", "Daily-Report-2026-03-14.pdf", "summary.xlsx"}, names)
	assert.Equal(t, "%PDF-b", string(files["Daily-Report-2026-03-14.pdf"]))

	x, err := excelize.OpenReader(bytes.NewReader(files["summary.xlsx"]))
	require.NoError(t, err)
	defer x.Close()

	rows, err := x.GetRows("Reports")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2026-03-13", rows[1][0])
	assert.Equal(t, "id-2026-03-13", rows[1][1])
	assert.Equal(t, "40", rows[1][6])
	assert.Equal(t, "ROLLS_VARIANCE, MEAT_VARIANCE", rows[1][7])
}

func TestBuildArchive_SinReportes_SoloResumen(t *testing.T) {
	data, err := NewZipArchiver().BuildArchive(context.Background(), nil)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "summary.xlsx", zr.File[0].Name)
}

func TestBuildArchive_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewZipArchiver().BuildArchive(ctx, []appreport.ArchiveEntry{entry("2026-03-13", 0, "x")})
	assert.ErrorIs(t, err, context.Canceled)
}
