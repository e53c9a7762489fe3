package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/internal/domain/repository"
)

var (
	_ repository.SalesRepository        = (*SalesRepo)(nil)
	_ repository.ShoppingListRepository = (*ShoppingListRepo)(nil)
)

// SalesRepo lectura del libro de ventas (sales_records). El pipeline nunca escribe aquí.
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// GetByShiftDate devuelve (nil, nil) si no hay cierre para la fecha.
func (r *SalesRepo) GetByShiftDate(ctx context.Context, shiftDate time.Time) (*entity.SalesRecord, error) {
	query := `
		SELECT id, shift_date, cash_sales, qr_sales, delivery_sales, total_sales,
		       COALESCE(notes, ''), payload, created_at
		FROM sales_records WHERE shift_date = $1`
	var (
		s       entity.SalesRecord
		payload []byte
	)
	err := r.q.QueryRow(ctx, query, shiftDate).Scan(
		&s.ID, &s.ShiftDate, &s.CashSales, &s.QRSales, &s.DeliverySales, &s.TotalSales,
		&s.Notes, &payload, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales record: %w", err)
	}
	if s.Payload, err = decodePayload(payload); err != nil {
		return nil, fmt.Errorf("decode payload %s: %w", s.ID, err)
	}
	return &s, nil
}

// decodePayload conserva los números como json.Number; la coerción a enteros
// ocurre en inventory.Extract*.
func decodePayload(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(b) == 0 {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	// Un payload que no es objeto (null, array) se trata como vacío.
	if m, ok := raw.(map[string]any); ok {
		out = m
	}
	return out, nil
}

// ShoppingListRepo lectura de shopping_lists.
type ShoppingListRepo struct {
	q Querier
}

// NewShoppingListRepository construye el adaptador.
func NewShoppingListRepository(q Querier) *ShoppingListRepo {
	return &ShoppingListRepo{q: q}
}

// GetByShiftDate devuelve (nil, nil) si el turno no cargó lista.
func (r *ShoppingListRepo) GetByShiftDate(ctx context.Context, shiftDate time.Time) (*entity.ShoppingListRecord, error) {
	query := `
		SELECT id, shift_date, items, created_at
		FROM shopping_lists WHERE shift_date = $1`
	var (
		l     entity.ShoppingListRecord
		items []byte
	)
	err := r.q.QueryRow(ctx, query, shiftDate).Scan(&l.ID, &l.ShiftDate, &items, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &l.Items); err != nil {
			return nil, fmt.Errorf("decode items %s: %w", l.ID, err)
		}
	}
	return &l, nil
}
