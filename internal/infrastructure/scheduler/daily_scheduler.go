// Package scheduler dispara el pipeline del reporte diario una vez al día,
// para el turno de "ayer" en la zona horaria del restaurante.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

// Generator lo que el scheduler necesita del pipeline.
type Generator interface {
	Generate(ctx context.Context, shiftDate time.Time, sendEmail bool) (*appreport.GenerateResult, error)
}

// Config hora local de disparo.
type Config struct {
	Location *time.Location
	Hour     int
	Minute   int
}

// DailyScheduler Idle → Running → Idle. Un disparo que llega con una ejecución
// en curso se descarta.
type DailyScheduler struct {
	gen     Generator
	cfg     Config
	log     *logger.Logger
	now     func() time.Time
	timer   func(d time.Duration) *time.Timer
	running atomic.Bool
	runs    sync.WaitGroup // ejecuciones lanzadas por Start
}

// NewDailyScheduler construye el scheduler. Location nil = UTC.
func NewDailyScheduler(gen Generator, cfg Config, log *logger.Logger) *DailyScheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &DailyScheduler{gen: gen, cfg: cfg, log: log, now: time.Now, timer: time.NewTimer}
}

// Start bloquea hasta que ctx se cancele y hasta que termine la ejecución en
// curso, si la hay. La ejecución no se corta con ctx: la acotan los timeouts
// por paso del pipeline, así el apagado no deja un reporte a medio guardar.
func (s *DailyScheduler) Start(ctx context.Context) {
	defer s.runs.Wait()

	s.log.Info().Str("timezone", s.cfg.Location.String()).
		Int("hour", s.cfg.Hour).Int("minute", s.cfg.Minute).Msg("scheduler de reporte diario iniciado")
	for {
		next := NextRun(s.now(), s.cfg)
		s.log.Debug().Time("next_run", next).Msg("próxima ejecución programada")

		timer := s.timer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info().Msg("scheduler de reporte diario detenido, esperando ejecución en curso")
			return
		case <-timer.C:
		}
		// Cada disparo corre aparte: un pipeline lento no corre el siguiente horario.
		s.runs.Add(1)
		go func() {
			defer s.runs.Done()
			s.RunOnce(context.WithoutCancel(ctx))
		}()
	}
}

// RunOnce ejecuta el pipeline para ayer. Devuelve false si se descartó por solapamiento.
func (s *DailyScheduler) RunOnce(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn().Msg("ejecución diaria anterior aún en curso, disparo descartado")
		return false
	}
	defer s.running.Store(false)

	shiftDate := Yesterday(s.now(), s.cfg.Location)
	date := shiftDate.Format(entity.DateLayout)
	log := s.log.With().Str("date", date).Logger()

	res, err := s.gen.Generate(ctx, shiftDate, true)
	switch {
	case err == nil:
		log.Info().Str("report_id", res.ReportID).Bool("emailed", res.Emailed).Msg("reporte diario completado")
	case errors.Is(err, domain.ErrNotFound):
		log.Info().Msg("sin registro de ventas para la fecha, no se genera reporte")
	case errors.Is(err, domain.ErrRunInProgress):
		log.Warn().Msg("la fecha ya se está generando en otra ejecución")
	default:
		ev := log.Error().Err(err)
		var stepErr *appreport.StepError
		if errors.As(err, &stepErr) {
			ev = ev.Str("step", stepErr.Step)
		}
		if res != nil {
			ev = ev.Str("report_id", res.ReportID)
		}
		ev.Msg("reporte diario fallido")
	}
	return true
}

// NextRun siguiente instante estrictamente posterior a now con hora Hour:Minute en Location.
func NextRun(now time.Time, cfg Config) time.Time {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), cfg.Hour, cfg.Minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, cfg.Hour, cfg.Minute, 0, 0, loc)
	}
	return next
}

// Yesterday fecha de turno (medianoche UTC) del día anterior a now en loc.
func Yesterday(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()-1, 0, 0, 0, 0, time.UTC)
}
