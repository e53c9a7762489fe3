// Package bootstrap arma el grafo de dependencias del pipeline de reportes
// a partir de la configuración. Lo comparten cmd/api y cmd/reportctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain/inventory"
	"github.com/jhoicas/resto-backoffice/internal/infrastructure/archive"
	"github.com/jhoicas/resto-backoffice/internal/infrastructure/lock"
	"github.com/jhoicas/resto-backoffice/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/resto-backoffice/internal/infrastructure/pdf"
	"github.com/jhoicas/resto-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/resto-backoffice/pkg/config"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

// App casos de uso listos para usar más los recursos a cerrar.
type App struct {
	Pipeline *appreport.PipelineUseCase
	Queries  *appreport.QueryUseCase

	pool *pgxpool.Pool
	rdb  *redis.Client
}

// PolicyFromConfig traduce los umbrales configurados a la política del dominio.
func PolicyFromConfig(c config.PolicyConfig) inventory.Policy {
	return inventory.Policy{
		MeatGramsPerRoll:       c.MeatGramsPerRoll,
		RollsFlagThreshold:     c.RollsFlagThreshold,
		RollsHighThreshold:     c.RollsHighThreshold,
		MeatFlagThresholdGrams: c.MeatFlagThresholdGrams,
		MeatHighThresholdGrams: c.MeatHighThresholdGrams,
		DrinkFlagThreshold:     c.DrinkFlagThreshold,
		DrinkHighThreshold:     c.DrinkHighThreshold,
		RiskPerFlag:            c.RiskPerFlag,
		RiskCap:                c.RiskCap,
		DrinkKeys:              inventory.ParseDrinkKeyPolicy(c.DrinkKeys),
	}
}

// Notifier SMTP si el correo está configurado; nil en otro caso.
// Devuelve la interfaz para no filtrar un *SMTPNotifier nil tipado.
func Notifier(cfg config.MailConfig, log *logger.Logger) appreport.Notifier {
	if !cfg.Enabled() {
		return nil
	}
	return mail.NewSMTPNotifier(cfg, log)
}

// New conecta PostgreSQL (y Redis si hay REDIS_ADDR) y arma el pipeline.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	a := &App{pool: pool}

	var locker appreport.RunLocker = lock.NewMemoryLocker()
	if cfg.Redis.Addr != "" {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("conexión a Redis: %w", err)
		}
		a.rdb = rdb
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("candado de reportes sobre Redis")
	}

	notifier := Notifier(cfg.Mail, log)
	if notifier == nil {
		log.Warn().Msg("SMTP no configurado: los reportes se guardan pero no se envían")
	}

	policy := PolicyFromConfig(cfg.Policy)
	salesRepo := postgres.NewSalesRepository(pool)
	listRepo := postgres.NewShoppingListRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	generator := infrapdf.NewMarotoReportGenerator(cfg.App.Name)

	compiler := appreport.NewCompiler(salesRepo, listRepo, policy)
	a.Pipeline = appreport.NewPipelineUseCase(
		compiler, generator, reportRepo, notifier, locker,
		appreport.PipelineConfig{StepTimeout: cfg.Pipeline.StepTimeout}, log,
	)
	a.Queries = appreport.NewQueryUseCase(reportRepo, generator, archive.NewZipArchiver())
	return a, nil
}

// Close libera conexiones.
func (a *App) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
