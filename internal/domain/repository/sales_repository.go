package repository

import (
	"context"
	"time"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// SalesRepository puerto de lectura del libro de ventas (lo escribe el formulario de cierre).
type SalesRepository interface {
	// GetByShiftDate devuelve (nil, nil) si no hay registro para la fecha.
	GetByShiftDate(ctx context.Context, shiftDate time.Time) (*entity.SalesRecord, error)
}

// ShoppingListRepository puerto de lectura de listas de compras.
type ShoppingListRepository interface {
	// GetByShiftDate devuelve (nil, nil) si no hay lista; no es un error.
	GetByShiftDate(ctx context.Context, shiftDate time.Time) (*entity.ShoppingListRecord, error)
}
