// Package report orquesta el pipeline del reporte diario de operaciones:
// compilación → render → persistencia → envío, más las consultas sobre los
// reportes ya guardados.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// ReportPDFGenerator puerto de salida para el render del documento.
// Debe ser determinista para un mismo reporte.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *entity.CompiledReport) ([]byte, error)
}

// Notifier puerto de salida del canal de notificación.
// Un error devuelto siempre envuelve domain.ErrDelivery.
type Notifier interface {
	Dispatch(ctx context.Context, document []byte, shiftDate time.Time, report *entity.CompiledReport) error
}

// RunLocker candado por clave para evitar dos generaciones simultáneas de la misma fecha.
// Si la clave ya está tomada devuelve domain.ErrRunInProgress.
type RunLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// ArchiveEntry un reporte persistido con su PDF ya renderizado.
type ArchiveEntry struct {
	Report *entity.PersistedReport
	PDF    []byte
}

// RangeArchiver empaqueta varios reportes en un único archivo comprimido.
type RangeArchiver interface {
	BuildArchive(ctx context.Context, entries []ArchiveEntry) ([]byte, error)
}

// Pasos del pipeline, usados en logs y errores.
const (
	StepCompile  = "compile"
	StepRender   = "render"
	StepPersist  = "persist"
	StepDispatch = "dispatch"
)

// StepError indica en qué paso del pipeline falló una ejecución.
type StepError struct {
	Step string
	Date string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("reporte %s: paso %s: %v", e.Date, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ParseShiftDate valida una fecha YYYY-MM-DD. Devuelve medianoche UTC.
func ParseShiftDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date requerido (YYYY-MM-DD)", domain.ErrValidation)
	}
	d, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q, formato YYYY-MM-DD", domain.ErrValidation, s)
	}
	return d, nil
}

// ReportFilename nombre del PDF para una fecha de turno.
func ReportFilename(date string) string {
	return fmt.Sprintf("Daily-Report-%s.pdf", date)
}
