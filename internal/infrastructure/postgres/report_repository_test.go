package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// fakeRow devuelve valores fijos en Scan.
type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

// recordingQuerier captura la última sentencia y responde con fakeRow.
type recordingQuerier struct {
	sql  string
	args []any
	row  fakeRow
	hits int
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql, q.args = sql, args
	q.hits++
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args
	q.hits++
	return nil, errors.New("no soportado en el fake")
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql, q.args = sql, args
	q.hits++
	return q.row
}

func sampleReport() *entity.CompiledReport {
	return &entity.CompiledReport{
		ShiftDate: "2026-03-14",
		Sales:     entity.SalesSummary{ID: "11111111-1111-1111-1111-111111111111"},
		Variance: entity.VarianceResult{
			Rolls:  entity.UnitVariance{Expected: 10, Actual: 4, Diff: 6},
			Meat:   entity.MeatVariance{ExpectedGrams: 4400, ActualGrams: 4400},
			Drinks: map[string]entity.UnitVariance{},
		},
		Insights: entity.InsightResult{RiskScore: 40, Insights: []entity.Insight{}, Flags: []string{"ROLLS_VARIANCE", "NO_SHOPPING_LIST"}},
	}
}

func TestSave_UpsertEnUnaSentencia(t *testing.T) {
	q := &recordingQuerier{row: fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "22222222-2222-2222-2222-222222222222"
		return nil
	}}}
	repo := NewReportRepository(q)

	id, err := repo.Save(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", id)
	assert.Equal(t, 1, q.hits)

	assert.Contains(t, q.sql, "ON CONFLICT (report_date) DO UPDATE")
	assert.Contains(t, q.sql, "report_json      = EXCLUDED.report_json")
	assert.Contains(t, q.sql, "RETURNING id")

	require.Len(t, q.args, 4)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), q.args[0])
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", q.args[1])
	assert.Nil(t, q.args[2], "sin lista de compras va NULL")

	var stored map[string]any
	require.NoError(t, json.Unmarshal(q.args[3].([]byte), &stored))
	meat := stored["variance"].(map[string]any)["meat"].(map[string]any)
	assert.Equal(t, "4.40", meat["expectedKg"])
}

func TestSave_FechaInvalida(t *testing.T) {
	q := &recordingQuerier{}
	rep := sampleReport()
	rep.ShiftDate = "14/03/2026"

	_, err := NewReportRepository(q).Save(context.Background(), rep)
	assert.Error(t, err)
	assert.Equal(t, 0, q.hits)
}

func TestGetByID_IDMalFormado_NoConsulta(t *testing.T) {
	q := &recordingQuerier{}
	p, err := NewReportRepository(q).GetByID(context.Background(), "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 0, q.hits)
}

func TestGetByID_SinFila(t *testing.T) {
	q := &recordingQuerier{row: fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}}
	p, err := NewReportRepository(q).GetByID(context.Background(), "22222222-2222-2222-2222-222222222222")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.True(t, strings.Contains(q.sql, "WHERE id = $1"))
}

func TestGetByDate_DecodificaJSON(t *testing.T) {
	doc, err := json.Marshal(sampleReport())
	require.NoError(t, err)
	listID := "33333333-3333-3333-3333-333333333333"

	q := &recordingQuerier{row: fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "22222222-2222-2222-2222-222222222222"
		*(dest[1].(*time.Time)) = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		*(dest[2].(*string)) = "11111111-1111-1111-1111-111111111111"
		*(dest[3].(*string)) = "11111111-1111-1111-1111-111111111111"
		*(dest[4].(**string)) = &listID
		*(dest[5].(*[]byte)) = doc
		return nil
	}}}

	p, err := NewReportRepository(q).GetByDate(context.Background(), time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, listID, p.ShoppingListID)
	assert.Equal(t, p.SalesID, p.StockID)
	assert.Equal(t, 6, p.Report.Variance.Rolls.Diff)
	assert.Equal(t, 40, p.Report.Insights.RiskScore)
	assert.Nil(t, p.EmailedAt)
	assert.Empty(t, p.LastDeliveryError)
}

func TestMarkDeliveryFailed(t *testing.T) {
	q := &recordingQuerier{}
	require.NoError(t, NewReportRepository(q).MarkDeliveryFailed(context.Background(), "id-1", "smtp: timeout"))
	assert.Contains(t, q.sql, "last_delivery_error = $2")
	assert.Equal(t, []any{"id-1", "smtp: timeout"}, q.args)
}

func TestContainsPattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%2026-03%", containsPattern("2026-03"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%coke\_zero%`, containsPattern("coke_zero"))
}

func TestDecodePayload(t *testing.T) {
	m, err := decodePayload([]byte(`{"rollsStart": 50, "drinksSold": {"coke": 3}}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("50"), m["rollsStart"])

	m, err = decodePayload([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)

	m, err = decodePayload(nil)
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = decodePayload([]byte(`{`))
	assert.Error(t, err)
}
