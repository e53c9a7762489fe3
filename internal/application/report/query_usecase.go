package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/internal/domain/repository"
)

const maxExportDays = 366

// QueryUseCase consultas sobre reportes persistidos. El JSON guardado es la
// fuente de verdad: los PDF se re-renderizan desde él, no desde los libros.
type QueryUseCase struct {
	reportRepo repository.ReportRepository
	generator  ReportPDFGenerator
	archiver   RangeArchiver
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	reportRepo repository.ReportRepository,
	generator ReportPDFGenerator,
	archiver RangeArchiver,
) *QueryUseCase {
	return &QueryUseCase{reportRepo: reportRepo, generator: generator, archiver: archiver}
}

// List todos los reportes, fecha descendente.
func (uc *QueryUseCase) List(ctx context.Context) ([]entity.ReportListItem, error) {
	items, err := uc.reportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listar reportes: %w", domain.ErrPersistence, err)
	}
	if items == nil {
		items = []entity.ReportListItem{}
	}
	return items, nil
}

// Get reporte compilado guardado por id.
func (uc *QueryUseCase) Get(ctx context.Context, id string) (*entity.CompiledReport, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p.Report, nil
}

// GetByDate reporte guardado de una fecha de turno.
func (uc *QueryUseCase) GetByDate(ctx context.Context, shiftDate time.Time) (*entity.PersistedReport, error) {
	date := shiftDate.Format(entity.DateLayout)
	p, err := uc.reportRepo.GetByDate(ctx, shiftDate)
	if err != nil {
		return nil, fmt.Errorf("%w: obtener reporte %s: %w", domain.ErrPersistence, date, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: no hay reporte guardado para %s", domain.ErrNotFound, date)
	}
	return p, nil
}

// RenderStored re-renderiza el PDF desde el JSON persistido.
func (uc *QueryUseCase) RenderStored(ctx context.Context, id string) ([]byte, string, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.generator.GenerateReportPDF(ctx, &p.Report)
	if err != nil {
		return nil, "", fmt.Errorf("render reporte %s: %w", id, err)
	}
	return doc, ReportFilename(p.Report.ShiftDate), nil
}

// Search coincidencia por subcadena sobre la fecha o el bloque de varianza.
func (uc *QueryUseCase) Search(ctx context.Context, q string) ([]entity.ReportListItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: q requerido", domain.ErrValidation)
	}
	items, err := uc.reportRepo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: buscar reportes: %w", domain.ErrPersistence, err)
	}
	if items == nil {
		items = []entity.ReportListItem{}
	}
	return items, nil
}

// ExportRange ZIP con un PDF por reporte cuya fecha cae en [start, end].
func (uc *QueryUseCase) ExportRange(ctx context.Context, start, end time.Time) ([]byte, string, error) {
	if end.Before(start) {
		return nil, "", fmt.Errorf("%w: end anterior a start", domain.ErrValidation)
	}
	if end.Sub(start) > maxExportDays*24*time.Hour {
		return nil, "", fmt.Errorf("%w: el rango máximo es de %d días", domain.ErrValidation, maxExportDays)
	}

	reports, err := uc.reportRepo.ListRange(ctx, start, end)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reportes del rango: %w", domain.ErrPersistence, err)
	}

	entries := make([]ArchiveEntry, 0, len(reports))
	for _, p := range reports {
		doc, err := uc.generator.GenerateReportPDF(ctx, &p.Report)
		if err != nil {
			return nil, "", fmt.Errorf("render reporte %s: %w", p.Report.ShiftDate, err)
		}
		entries = append(entries, ArchiveEntry{Report: p, PDF: doc})
	}

	zipBytes, err := uc.archiver.BuildArchive(ctx, entries)
	if err != nil {
		return nil, "", fmt.Errorf("armar archivo: %w", err)
	}
	filename := fmt.Sprintf("Daily-Reports-%s_%s.zip",
		start.Format(entity.DateLayout), end.Format(entity.DateLayout))
	return zipBytes, filename, nil
}

func (uc *QueryUseCase) load(ctx context.Context, id string) (*entity.PersistedReport, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrValidation)
	}
	p, err := uc.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: obtener reporte: %w", domain.ErrPersistence, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: reporte %s", domain.ErrNotFound, id)
	}
	return p, nil
}
