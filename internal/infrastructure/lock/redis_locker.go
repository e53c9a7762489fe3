package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/pkg/config"
	"github.com/jhoicas/resto-backoffice/pkg/logger"
)

var _ appreport.RunLocker = (*RedisLocker)(nil)

// RedisLocker candado distribuido por clave (varias instancias de la API).
// El TTL debe cubrir la ejecución completa del pipeline.
type RedisLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisLocker construye el candado sobre un cliente ya conectado.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLocker{locker: redislock.New(rdb), ttl: ttl, log: log}
}

// Acquire intenta tomar la clave una sola vez (sin reintentos).
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lk, err := l.locker.Obtain(ctx, "lock:"+key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunInProgress, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener candado %s: %w", key, err)
	}
	return func() {
		// Contexto propio: el del request puede estar ya cancelado al liberar.
		relCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if rErr := lk.Release(relCtx); rErr != nil && !errors.Is(rErr, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(rErr).Str("key", key).Msg("no se pudo liberar el candado redis")
		}
	}, nil
}
