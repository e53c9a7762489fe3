// Package reporttest dobles en memoria de los puertos del pipeline de reportes,
// para tests de casos de uso y handlers sin base de datos ni SMTP.
package reporttest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/internal/domain/repository"
)

var (
	_ repository.SalesRepository        = (*SalesRepo)(nil)
	_ repository.ShoppingListRepository = (*ShoppingListRepo)(nil)
	_ repository.ReportRepository       = (*ReportRepo)(nil)
	_ appreport.ReportPDFGenerator      = (*Generator)(nil)
	_ appreport.Notifier                = (*Notifier)(nil)
	_ appreport.RangeArchiver           = (*Archiver)(nil)
)

func key(t time.Time) string { return t.Format(entity.DateLayout) }

// MustDate parsea YYYY-MM-DD o hace panic.
func MustDate(s string) time.Time {
	d, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// SalesRepo libro de ventas en memoria.
type SalesRepo struct {
	Records map[string]*entity.SalesRecord
	Err     error
}

// NewSalesRepo construye el repo con los registros dados (indexados por fecha).
func NewSalesRepo(records ...*entity.SalesRecord) *SalesRepo {
	r := &SalesRepo{Records: map[string]*entity.SalesRecord{}}
	for _, rec := range records {
		r.Records[key(rec.ShiftDate)] = rec
	}
	return r
}

func (r *SalesRepo) GetByShiftDate(_ context.Context, d time.Time) (*entity.SalesRecord, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Records[key(d)], nil
}

// ShoppingListRepo listas de compras en memoria.
type ShoppingListRepo struct {
	Lists map[string]*entity.ShoppingListRecord
}

func NewShoppingListRepo(lists ...*entity.ShoppingListRecord) *ShoppingListRepo {
	r := &ShoppingListRepo{Lists: map[string]*entity.ShoppingListRecord{}}
	for _, l := range lists {
		r.Lists[key(l.ShiftDate)] = l
	}
	return r
}

func (r *ShoppingListRepo) GetByShiftDate(_ context.Context, d time.Time) (*entity.ShoppingListRecord, error) {
	return r.Lists[key(d)], nil
}

// ReportRepo store de reportes en memoria con upsert por fecha.
// Guarda el JSON serializado para reproducir el round-trip real.
type ReportRepo struct {
	mu      sync.Mutex
	rows    map[string]*row // por id
	byDate  map[string]string
	SaveErr error
	Saves   int
}

type row struct {
	id        string
	date      time.Time
	salesID   string
	listID    string
	json      []byte
	createdAt time.Time
	emailedAt *time.Time
	lastErr   string
}

func NewReportRepo() *ReportRepo {
	return &ReportRepo{rows: map[string]*row{}, byDate: map[string]string{}}
}

func (r *ReportRepo) Save(_ context.Context, rep *entity.CompiledReport) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saves++
	if r.SaveErr != nil {
		return "", r.SaveErr
	}
	b, err := json.Marshal(rep)
	if err != nil {
		return "", err
	}
	if id, ok := r.byDate[rep.ShiftDate]; ok {
		x := r.rows[id]
		x.json, x.salesID, x.listID = b, rep.Sales.ID, rep.ShoppingListID()
		return id, nil
	}
	id := uuid.NewString()
	r.rows[id] = &row{
		id: id, date: MustDate(rep.ShiftDate), salesID: rep.Sales.ID, listID: rep.ShoppingListID(),
		json: b, createdAt: time.Now(),
	}
	r.byDate[rep.ShiftDate] = id
	return id, nil
}

// Count filas guardadas.
func (r *ReportRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Delivery estado de envío de una fila.
func (r *ReportRepo) Delivery(id string) (emailed bool, lastErr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.rows[id]
	if !ok {
		return false, ""
	}
	return x.emailedAt != nil, x.lastErr
}

func (r *ReportRepo) toPersisted(x *row) (*entity.PersistedReport, error) {
	p := &entity.PersistedReport{
		ID: x.id, Date: x.date, SalesID: x.salesID, StockID: x.salesID, ShoppingListID: x.listID,
		CreatedAt: x.createdAt, UpdatedAt: x.createdAt, EmailedAt: x.emailedAt, LastDeliveryError: x.lastErr,
	}
	if err := json.Unmarshal(x.json, &p.Report); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ReportRepo) GetByID(_ context.Context, id string) (*entity.PersistedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return r.toPersisted(x)
}

func (r *ReportRepo) GetByDate(_ context.Context, d time.Time) (*entity.PersistedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byDate[key(d)]
	if !ok {
		return nil, nil
	}
	return r.toPersisted(r.rows[id])
}

func (r *ReportRepo) sortedRows(desc bool) []*row {
	out := make([]*row, 0, len(r.rows))
	for _, x := range r.rows {
		out = append(out, x)
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].date.After(out[j].date)
		}
		return out[i].date.Before(out[j].date)
	})
	return out
}

func (r *ReportRepo) List(_ context.Context) ([]entity.ReportListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []entity.ReportListItem{}
	for _, x := range r.sortedRows(true) {
		items = append(items, entity.ReportListItem{ID: x.id, Date: key(x.date), CreatedAt: x.createdAt})
	}
	return items, nil
}

func (r *ReportRepo) Search(_ context.Context, q string) ([]entity.ReportListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q = strings.ToLower(q)
	items := []entity.ReportListItem{}
	for _, x := range r.sortedRows(true) {
		var doc struct {
			Variance json.RawMessage `json:"variance"`
		}
		_ = json.Unmarshal(x.json, &doc)
		if strings.Contains(key(x.date), q) || strings.Contains(strings.ToLower(string(doc.Variance)), q) {
			items = append(items, entity.ReportListItem{ID: x.id, Date: key(x.date), CreatedAt: x.createdAt})
		}
	}
	return items, nil
}

func (r *ReportRepo) ListRange(_ context.Context, start, end time.Time) ([]*entity.PersistedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PersistedReport
	for _, x := range r.sortedRows(false) {
		if x.date.Before(start) || x.date.After(end) {
			continue
		}
		p, err := r.toPersisted(x)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ReportRepo) MarkDelivered(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.rows[id]; ok {
		x.emailedAt, x.lastErr = &at, ""
	}
	return nil
}

func (r *ReportRepo) MarkDeliveryFailed(_ context.Context, id string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x, ok := r.rows[id]; ok {
		x.lastErr = reason
	}
	return nil
}

// Generator "PDF" determinista: %PDF- seguido del JSON del reporte.
type Generator struct {
	Err   error
	Calls int
}

func (g *Generator) GenerateReportPDF(_ context.Context, rep *entity.CompiledReport) ([]byte, error) {
	g.Calls++
	if g.Err != nil {
		return nil, g.Err
	}
	b, err := json.Marshal(rep)
	if err != nil {
		return nil, err
	}
	return append([]byte("%PDF-"), b...), nil
}

// Notifier registra los envíos; Err simula un rechazo del canal.
type Notifier struct {
	Err   error
	Sent  []string // fechas enviadas
	Docs  [][]byte
	Order *[]string // si no es nil, agrega "dispatch"
}

func (n *Notifier) Dispatch(_ context.Context, doc []byte, shiftDate time.Time, _ *entity.CompiledReport) error {
	if n.Order != nil {
		*n.Order = append(*n.Order, "dispatch")
	}
	if n.Err != nil {
		return n.Err
	}
	n.Sent = append(n.Sent, key(shiftDate))
	n.Docs = append(n.Docs, doc)
	return nil
}

// Archiver concatena los nombres de archivo; suficiente para verificar el contenido.
type Archiver struct{}

func (Archiver) BuildArchive(_ context.Context, entries []appreport.ArchiveEntry) ([]byte, error) {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, fmt.Sprintf("%s:%d", appreport.ReportFilename(e.Report.Report.ShiftDate), len(e.PDF)))
	}
	return []byte(strings.Join(names, "\n")), nil
}

// SalesRecord registro de ventas de ejemplo con payload completo.
func SalesRecord(date string) *entity.SalesRecord {
	return &entity.SalesRecord{
		ID:        "sales-" + date,
		ShiftDate: MustDate(date),
		Notes:     "Fryer #2 serviced",
		Payload: map[string]any{
			"salesBreakdown":  map[string]any{"burgersSold": float64(40)},
			"drinksSold":      map[string]any{"coke": float64(10)},
			"rollsStart":      float64(50),
			"rollsEnd":        float64(10),
			"meatStartGrams":  float64(8000),
			"meatEndGrams":    float64(4400),
			"drinkStockStart": map[string]any{"coke": float64(24)},
			"drinkStockEnd":   map[string]any{"coke": float64(14)},
		},
		CreatedAt: time.Now(),
	}
}
