// Package lock implementa application/report.RunLocker: en memoria para un
// solo proceso y sobre Redis (redislock) cuando hay varias instancias.
package lock

import (
	"context"
	"fmt"
	"sync"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain"
)

var _ appreport.RunLocker = (*MemoryLocker)(nil)

// MemoryLocker candado por clave dentro del proceso. No bloquea: si la clave
// está tomada responde ErrRunInProgress de inmediato.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker construye el candado.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

// Acquire toma la clave; release es idempotente.
func (l *MemoryLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunInProgress, key)
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
