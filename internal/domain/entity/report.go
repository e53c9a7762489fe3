package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha de turno usado en URLs, nombres de archivo y JSON.
const DateLayout = "2006-01-02"

// Severidades de un insight.
const (
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Tipos de bandera que levanta el motor de anomalías.
const (
	FlagRollsVariance  = "ROLLS_VARIANCE"
	FlagMeatVariance   = "MEAT_VARIANCE"
	FlagDrinkVariance  = "DRINK_VARIANCE"
	FlagNoShoppingList = "NO_SHOPPING_LIST"
)

// UnitVariance esperado vs contado para una cantidad discreta.
// Diff = Expected - Actual.
type UnitVariance struct {
	Expected int `json:"expected"`
	Actual   int `json:"actual"`
	Diff     int `json:"diff"`
}

// MeatVariance varianza continua en gramos. Los campos en kg son proyecciones
// de los gramos y solo existen en la serialización.
type MeatVariance struct {
	ExpectedGrams int
	ActualGrams   int
	Diff          int
}

var thousand = decimal.NewFromInt(1000)

func gramsToKg(g int) decimal.Decimal {
	return decimal.NewFromInt(int64(g)).Div(thousand).Round(2)
}

// ExpectedKg gramos esperados en kg, 2 decimales.
func (m MeatVariance) ExpectedKg() decimal.Decimal { return gramsToKg(m.ExpectedGrams) }

// ActualKg gramos contados en kg, 2 decimales.
func (m MeatVariance) ActualKg() decimal.Decimal { return gramsToKg(m.ActualGrams) }

// DiffKg diferencia en kg, 2 decimales.
func (m MeatVariance) DiffKg() decimal.Decimal { return gramsToKg(m.Diff) }

type meatVarianceJSON struct {
	ExpectedGrams int    `json:"expectedGrams"`
	ActualGrams   int    `json:"actualGrams"`
	Diff          int    `json:"diff"`
	ExpectedKg    string `json:"expectedKg"`
	ActualKg      string `json:"actualKg"`
	DiffKg        string `json:"diffKg"`
}

// MarshalJSON agrega expectedKg/actualKg/diffKg calculados.
func (m MeatVariance) MarshalJSON() ([]byte, error) {
	return json.Marshal(meatVarianceJSON{
		ExpectedGrams: m.ExpectedGrams,
		ActualGrams:   m.ActualGrams,
		Diff:          m.Diff,
		ExpectedKg:    m.ExpectedKg().StringFixed(2),
		ActualKg:      m.ActualKg().StringFixed(2),
		DiffKg:        m.DiffKg().StringFixed(2),
	})
}

// UnmarshalJSON lee solo los gramos; los kg almacenados se descartan.
func (m *MeatVariance) UnmarshalJSON(b []byte) error {
	var raw meatVarianceJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m.ExpectedGrams = raw.ExpectedGrams
	m.ActualGrams = raw.ActualGrams
	m.Diff = raw.Diff
	return nil
}

// VarianceResult salida del motor de varianza.
type VarianceResult struct {
	Rolls  UnitVariance            `json:"rolls"`
	Meat   MeatVariance            `json:"meat"`
	Drinks map[string]UnitVariance `json:"drinks"`
}

// Insight anomalía detectada.
type Insight struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// InsightResult salida del motor de anomalías.
type InsightResult struct {
	RiskScore int       `json:"riskScore"`
	Insights  []Insight `json:"insights"`
	Flags     []string  `json:"flags"`
}

// CompiledReport unidad de persistencia y de render.
type CompiledReport struct {
	ShiftDate      string              `json:"shiftDate"`
	Sales          SalesSummary        `json:"sales"`
	Stock          StockSnapshot       `json:"stock"`
	ShoppingList   *ShoppingListRecord `json:"shoppingList"`
	Variance       VarianceResult      `json:"variance"`
	PurchasedStock PurchasedStock      `json:"purchasedStock"`
	Insights       InsightResult       `json:"insights"`
}

// ShoppingListID id de la lista asociada o vacío si no hay.
func (r *CompiledReport) ShoppingListID() string {
	if r.ShoppingList == nil {
		return ""
	}
	return r.ShoppingList.ID
}

// PersistedReport fila de daily_reports. Una por fecha.
type PersistedReport struct {
	ID                string
	Date              time.Time
	SalesID           string
	StockID           string
	ShoppingListID    string
	Report            CompiledReport
	CreatedAt         time.Time
	UpdatedAt         time.Time
	EmailedAt         *time.Time
	LastDeliveryError string
}

// ReportListItem proyección ligera para listados.
type ReportListItem struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}
