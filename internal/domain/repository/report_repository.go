package repository

import (
	"context"
	"time"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// ReportRepository define el puerto de persistencia de reportes diarios.
type ReportRepository interface {
	// Save hace upsert por fecha de turno: si ya existe una fila para la fecha,
	// reemplaza el JSON y devuelve el id existente; si no, inserta y devuelve el nuevo.
	Save(ctx context.Context, report *entity.CompiledReport) (string, error)
	// GetByID devuelve (nil, nil) si el id no existe.
	GetByID(ctx context.Context, id string) (*entity.PersistedReport, error)
	GetByDate(ctx context.Context, date time.Time) (*entity.PersistedReport, error)
	// List ordena por fecha descendente.
	List(ctx context.Context) ([]entity.ReportListItem, error)
	// Search coincidencia por subcadena (sin distinguir mayúsculas) sobre la fecha
	// o el bloque de varianza serializado.
	Search(ctx context.Context, q string) ([]entity.ReportListItem, error)
	// ListRange reportes con fecha en [start, end], orden ascendente.
	ListRange(ctx context.Context, start, end time.Time) ([]*entity.PersistedReport, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	MarkDeliveryFailed(ctx context.Context, id string, reason string) error
}
