package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/internal/infrastructure/lock"
)

func TestMemoryLocker_SegundaAdquisicionFalla(t *testing.T) {
	l := lock.NewMemoryLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "daily-report:2024-05-01")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "daily-report:2024-05-01")
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	// Otra fecha no se bloquea.
	other, err := l.Acquire(ctx, "daily-report:2024-05-02")
	require.NoError(t, err)
	other()

	release()
	release() // idempotente

	again, err := l.Acquire(ctx, "daily-report:2024-05-01")
	require.NoError(t, err)
	again()
}

func TestMemoryLocker_SoloUnGanadorConcurrente(t *testing.T) {
	l := lock.NewMemoryLocker()
	var wins int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	releases := make(chan func(), 32)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if rel, err := l.Acquire(context.Background(), "k"); err == nil {
				atomic.AddInt32(&wins, 1)
				releases <- rel
			}
		}()
	}
	close(start)
	wg.Wait()
	close(releases)

	assert.Equal(t, int32(1), wins)
	for rel := range releases {
		rel()
	}
}
