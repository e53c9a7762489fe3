package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación de ReportRepository sobre daily_reports.
// report_json es la fuente de verdad para re-renderizar.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

const upsertReportSQL = `
		INSERT INTO daily_reports (report_date, sales_id, stock_id, shopping_list_id, report_json, created_at, updated_at)
		VALUES ($1, $2, $2, $3, $4, now(), now())
		ON CONFLICT (report_date) DO UPDATE SET
			sales_id         = EXCLUDED.sales_id,
			stock_id         = EXCLUDED.stock_id,
			shopping_list_id = EXCLUDED.shopping_list_id,
			report_json      = EXCLUDED.report_json,
			updated_at       = now()
		RETURNING id`

// Save upsert por fecha en una sola sentencia; la fila existente conserva su id.
// El stock viaja embebido en el registro de ventas, por eso stock_id = sales_id.
func (r *ReportRepo) Save(ctx context.Context, report *entity.CompiledReport) (string, error) {
	date, err := time.Parse(entity.DateLayout, report.ShiftDate)
	if err != nil {
		return "", fmt.Errorf("fecha de reporte %q: %w", report.ShiftDate, err)
	}
	doc, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	var id string
	err = r.q.QueryRow(ctx, upsertReportSQL,
		date, report.Sales.ID, nullIfEmpty(report.ShoppingListID()), doc,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert daily report: %w", err)
	}
	return id, nil
}

const selectReportSQL = `
		SELECT id, report_date, sales_id, stock_id, shopping_list_id, report_json,
		       created_at, updated_at, emailed_at, last_delivery_error
		FROM daily_reports`

// GetByID devuelve (nil, nil) si el id no existe o no es un uuid.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.PersistedReport, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	p, err := scanReport(r.q.QueryRow(ctx, selectReportSQL+` WHERE id = $1`, id))
	if err != nil && isInvalidText(err) {
		return nil, nil
	}
	return p, err
}

// GetByDate devuelve (nil, nil) si no hay reporte para la fecha.
func (r *ReportRepo) GetByDate(ctx context.Context, date time.Time) (*entity.PersistedReport, error) {
	return scanReport(r.q.QueryRow(ctx, selectReportSQL+` WHERE report_date = $1`, date))
}

// List todos los reportes, fecha descendente.
func (r *ReportRepo) List(ctx context.Context) ([]entity.ReportListItem, error) {
	query := `
		SELECT id, report_date, created_at
		FROM daily_reports ORDER BY report_date DESC`
	return r.listItems(ctx, "list daily reports", query)
}

// Search ILIKE sobre la fecha formateada y el bloque variance del JSON.
func (r *ReportRepo) Search(ctx context.Context, q string) ([]entity.ReportListItem, error) {
	query := `
		SELECT id, report_date, created_at
		FROM daily_reports
		WHERE to_char(report_date, 'YYYY-MM-DD') ILIKE $1
		   OR (report_json -> 'variance')::text ILIKE $1
		ORDER BY report_date DESC`
	return r.listItems(ctx, "search daily reports", query, containsPattern(q))
}

// ListRange reportes completos con fecha en [start, end], ascendente.
func (r *ReportRepo) ListRange(ctx context.Context, start, end time.Time) ([]*entity.PersistedReport, error) {
	rows, err := r.q.Query(ctx, selectReportSQL+`
		WHERE report_date BETWEEN $1 AND $2
		ORDER BY report_date ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list range: %w", err)
	}
	defer rows.Close()

	var out []*entity.PersistedReport
	for rows.Next() {
		p, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list range rows: %w", err)
	}
	return out, nil
}

// MarkDelivered registra el envío y limpia el último error.
func (r *ReportRepo) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE daily_reports SET emailed_at = $2, last_delivery_error = NULL, updated_at = now()
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}

// MarkDeliveryFailed deja el motivo del último envío fallido en la fila.
func (r *ReportRepo) MarkDeliveryFailed(ctx context.Context, id string, reason string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE daily_reports SET last_delivery_error = $2, updated_at = now()
		WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("mark delivery failed: %w", err)
	}
	return nil
}

func (r *ReportRepo) listItems(ctx context.Context, op, query string, args ...any) ([]entity.ReportListItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []entity.ReportListItem{}
	for rows.Next() {
		var (
			it   entity.ReportListItem
			date time.Time
		)
		if err := rows.Scan(&it.ID, &date, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		it.Date = date.Format(entity.DateLayout)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	return items, nil
}

func scanReport(row pgx.Row) (*entity.PersistedReport, error) {
	var (
		p         entity.PersistedReport
		listID    *string
		lastError *string
		doc       []byte
	)
	err := row.Scan(&p.ID, &p.Date, &p.SalesID, &p.StockID, &listID, &doc,
		&p.CreatedAt, &p.UpdatedAt, &p.EmailedAt, &lastError)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan daily report: %w", err)
	}
	if listID != nil {
		p.ShoppingListID = *listID
	}
	if lastError != nil {
		p.LastDeliveryError = *lastError
	}
	if err := json.Unmarshal(doc, &p.Report); err != nil {
		return nil, fmt.Errorf("decode report_json %s: %w", p.ID, err)
	}
	return &p, nil
}
