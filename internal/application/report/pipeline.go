package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/internal/domain/repository"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

const defaultStepTimeout = 30 * time.Second

// PipelineConfig parámetros de ejecución del pipeline.
type PipelineConfig struct {
	StepTimeout time.Duration // límite por paso de I/O
}

// GenerateResult resultado de una ejecución.
type GenerateResult struct {
	ReportID string
	Date     string
	Emailed  bool
}

// PipelineUseCase ejecuta Compile → Render → Persist → Dispatch para una fecha.
// El mismo camino lo usan el scheduler, el endpoint de regeneración y el CLI.
type PipelineUseCase struct {
	compiler   *Compiler
	generator  ReportPDFGenerator
	reportRepo repository.ReportRepository
	notifier   Notifier // puede ser nil si el correo no está configurado
	locker     RunLocker
	cfg        PipelineConfig
	log        *logger.Logger
	now        func() time.Time
}

// NewPipelineUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPipelineUseCase(
	compiler *Compiler,
	generator ReportPDFGenerator,
	reportRepo repository.ReportRepository,
	notifier Notifier,
	locker RunLocker,
	cfg PipelineConfig,
	log *logger.Logger,
) *PipelineUseCase {
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = defaultStepTimeout
	}
	return &PipelineUseCase{
		compiler:   compiler,
		generator:  generator,
		reportRepo: reportRepo,
		notifier:   notifier,
		locker:     locker,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// Generate compila, renderiza, persiste y (opcionalmente) envía el reporte de shiftDate.
//
// Retorna:
//   - (result, nil)                   si todo sale bien.
//   - domain.ErrRunInProgress         si otra ejecución tiene tomada la fecha.
//   - *StepError{compile} + ErrNotFound si no hay ventas para la fecha.
//   - *StepError{persist}             si falla el guardado; no se envía nada.
//   - (result, *StepError{dispatch})  si el reporte quedó guardado pero el envío falló.
func (uc *PipelineUseCase) Generate(ctx context.Context, shiftDate time.Time, sendEmail bool) (*GenerateResult, error) {
	date := shiftDate.Format(entity.DateLayout)

	release, err := uc.locker.Acquire(ctx, "daily-report:"+date)
	if err != nil {
		return nil, err
	}
	defer release()

	log := uc.log.With().Str("date", date).Logger()

	// ── 1. Compilar ───────────────────────────────────────────────────────────
	compiled, err := uc.Compile(ctx, shiftDate)
	if err != nil {
		return nil, &StepError{Step: StepCompile, Date: date, Err: err}
	}

	// ── 2. Render ─────────────────────────────────────────────────────────────
	var doc []byte
	err = uc.step(ctx, func(stepCtx context.Context) error {
		var rErr error
		doc, rErr = uc.generator.GenerateReportPDF(stepCtx, compiled)
		return rErr
	})
	if err != nil {
		return nil, &StepError{Step: StepRender, Date: date, Err: err}
	}

	// ── 3. Persistir (antes de enviar: nunca se manda un reporte sin registro) ─
	var reportID string
	err = uc.step(ctx, func(stepCtx context.Context) error {
		var sErr error
		reportID, sErr = uc.reportRepo.Save(stepCtx, compiled)
		return sErr
	})
	if err != nil {
		return nil, &StepError{Step: StepPersist, Date: date, Err: wrapPersistence(err)}
	}
	log.Info().Str("step", StepPersist).Str("report_id", reportID).
		Int("risk_score", compiled.Insights.RiskScore).Msg("reporte diario guardado")

	result := &GenerateResult{ReportID: reportID, Date: date}
	if !sendEmail {
		return result, nil
	}

	// ── 4. Enviar ─────────────────────────────────────────────────────────────
	if err := uc.dispatch(ctx, doc, shiftDate, compiled); err != nil {
		log.Error().Err(err).Str("step", StepDispatch).Str("report_id", reportID).
			Msg("envío del reporte diario fallido")
		if mErr := uc.reportRepo.MarkDeliveryFailed(ctx, reportID, err.Error()); mErr != nil {
			log.Error().Err(mErr).Str("report_id", reportID).Msg("no se pudo registrar el fallo de envío")
		}
		return result, &StepError{Step: StepDispatch, Date: date, Err: err}
	}
	result.Emailed = true
	if mErr := uc.reportRepo.MarkDelivered(ctx, reportID, uc.now()); mErr != nil {
		log.Warn().Err(mErr).Str("report_id", reportID).Msg("no se pudo registrar el envío")
	}
	log.Info().Str("step", StepDispatch).Str("report_id", reportID).Msg("reporte diario enviado")
	return result, nil
}

// Preview compila y renderiza sin persistir ni enviar (GET /reports/daily/:date/pdf).
func (uc *PipelineUseCase) Preview(ctx context.Context, shiftDate time.Time) ([]byte, string, error) {
	compiled, err := uc.Compile(ctx, shiftDate)
	if err != nil {
		return nil, "", err
	}
	var doc []byte
	err = uc.step(ctx, func(stepCtx context.Context) error {
		var rErr error
		doc, rErr = uc.generator.GenerateReportPDF(stepCtx, compiled)
		return rErr
	})
	if err != nil {
		return nil, "", fmt.Errorf("render: %w", err)
	}
	return doc, ReportFilename(compiled.ShiftDate), nil
}

// Compile expone la compilación en vivo (usada por reportctl diff).
func (uc *PipelineUseCase) Compile(ctx context.Context, shiftDate time.Time) (*entity.CompiledReport, error) {
	var compiled *entity.CompiledReport
	err := uc.step(ctx, func(stepCtx context.Context) error {
		var cErr error
		compiled, cErr = uc.compiler.CompileReport(stepCtx, shiftDate)
		return cErr
	})
	return compiled, err
}

func (uc *PipelineUseCase) dispatch(ctx context.Context, doc []byte, shiftDate time.Time, compiled *entity.CompiledReport) error {
	if uc.notifier == nil {
		return fmt.Errorf("%w: notificador no configurado", domain.ErrDelivery)
	}
	// Los reintentos y el timeout por intento los aplica el notificador.
	return uc.notifier.Dispatch(ctx, doc, shiftDate, compiled)
}

// step ejecuta fn con un contexto limitado por StepTimeout.
func (uc *PipelineUseCase) step(ctx context.Context, fn func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, uc.cfg.StepTimeout)
	defer cancel()
	return fn(stepCtx)
}

func wrapPersistence(err error) error {
	if errors.Is(err, domain.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}
