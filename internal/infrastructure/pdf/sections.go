package pdf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// Textos por defecto de secciones vacías.
const (
	emptyShoppingList = "No items requested."
	emptyNotes        = "No notes provided."
	emptyInsights     = "No insights generated."
)

// section bloque titulado del documento. lines vacío se muestra con empty.
type section struct {
	title string
	lines []reportLine
	empty string
}

type reportLine struct {
	label    string
	value    string
	severity string
}

func kv(label, value string) reportLine { return reportLine{label: label, value: value} }

// buildSections arma el contenido del documento en orden fijo. Todo mapa se
// recorre con claves ordenadas.
func buildSections(rep *entity.CompiledReport) []section {
	sku := skuLabeler()
	return []section{
		salesSection(rep, sku),
		stockSection(rep, sku),
		shoppingListSection(rep),
		notesSection(rep),
		insightsSection(rep),
		purchasedSection(rep, sku),
		varianceSection(rep, sku),
		riskSection(rep),
	}
}

func salesSection(rep *entity.CompiledReport, sku func(string) string) section {
	s := rep.Sales
	lines := []reportLine{
		kv("Cash sales", money(s.CashSales)),
		kv("QR sales", money(s.QRSales)),
		kv("Delivery sales", money(s.DeliverySales)),
		kv("Total sales", money(s.TotalSales)),
		kv("Burgers sold", fmt.Sprint(s.BurgersSold)),
	}
	for _, k := range s.DrinksSold.SortedKeys() {
		lines = append(lines, kv("Drinks sold: "+sku(k), fmt.Sprint(s.DrinksSold[k])))
	}
	return section{title: "Sales Summary", lines: lines}
}

func stockSection(rep *entity.CompiledReport, sku func(string) string) section {
	st := rep.Stock
	lines := []reportLine{
		kv("Rolls (start / end)", fmt.Sprintf("%d / %d", st.RollsStart, st.RollsEnd)),
		kv("Meat (start / end)", fmt.Sprintf("%s kg / %s kg", kg(st.MeatStartGrams), kg(st.MeatEndGrams))),
	}
	for _, k := range unionKeys(st.DrinkStockStart, st.DrinkStockEnd) {
		lines = append(lines, kv(sku(k)+" (start / end)",
			fmt.Sprintf("%d / %d", st.DrinkStockStart.Get(k), st.DrinkStockEnd.Get(k))))
	}
	return section{title: "Stock Summary", lines: lines}
}

func shoppingListSection(rep *entity.CompiledReport) section {
	s := section{title: "Shopping List", empty: emptyShoppingList}
	if rep.ShoppingList.IsEmpty() {
		return s
	}
	for _, it := range rep.ShoppingList.Items {
		label := it.Name
		if it.Notes != "" {
			label += " (" + it.Notes + ")"
		}
		s.lines = append(s.lines, kv(label, strings.TrimSpace(qty(it.Qty)+" "+it.Unit)))
	}
	return s
}

func notesSection(rep *entity.CompiledReport) section {
	s := section{title: "Notes", empty: emptyNotes}
	for _, l := range strings.Split(strings.TrimSpace(rep.Sales.Notes), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			s.lines = append(s.lines, reportLine{label: l})
		}
	}
	return s
}

func insightsSection(rep *entity.CompiledReport) section {
	// El puntaje siempre se imprime; el placeholder reemplaza solo los bullets.
	s := section{title: "AI Insights", empty: emptyInsights}
	s.lines = append(s.lines, kv("Risk score", fmt.Sprintf("%d / 100", rep.Insights.RiskScore)))
	if len(rep.Insights.Insights) == 0 {
		s.lines = append(s.lines, reportLine{label: emptyInsights})
		return s
	}
	for _, in := range rep.Insights.Insights {
		s.lines = append(s.lines, reportLine{
			label:    fmt.Sprintf("- [%s] %s", strings.ToUpper(in.Severity), in.Message),
			severity: in.Severity,
		})
	}
	return s
}

func purchasedSection(rep *entity.CompiledReport, sku func(string) string) section {
	p := rep.PurchasedStock
	lines := []reportLine{
		kv("Rolls purchased", fmt.Sprint(p.Rolls)),
		kv("Meat purchased", kg(p.MeatGrams)+" kg"),
	}
	for _, k := range p.Drinks.SortedKeys() {
		lines = append(lines, kv(sku(k)+" purchased", fmt.Sprint(p.Drinks[k])))
	}
	return section{title: "Purchased Stock", lines: lines}
}

func varianceSection(rep *entity.CompiledReport, sku func(string) string) section {
	v := rep.Variance
	flagged := flaggedTypes(rep.Insights)
	lines := []reportLine{
		{
			label:    fmt.Sprintf("Rolls: expected %d, counted %d", v.Rolls.Expected, v.Rolls.Actual),
			value:    signed(v.Rolls.Diff),
			severity: flagged[entity.FlagRollsVariance],
		},
		{
			label: fmt.Sprintf("Meat: expected %s kg, counted %s kg",
				v.Meat.ExpectedKg().StringFixed(2), v.Meat.ActualKg().StringFixed(2)),
			value:    v.Meat.DiffKg().StringFixed(2) + " kg",
			severity: flagged[entity.FlagMeatVariance],
		},
	}
	keys := make([]string, 0, len(v.Drinks))
	for k := range v.Drinks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d := v.Drinks[k]
		lines = append(lines, reportLine{
			label: fmt.Sprintf("%s: expected %d, counted %d", sku(k), d.Expected, d.Actual),
			value: signed(d.Diff),
		})
	}
	return section{title: "Variance Summary", lines: lines}
}

// riskSection lee el mismo RiskScore que AI Insights; no hay un segundo cálculo.
func riskSection(rep *entity.CompiledReport) section {
	in := rep.Insights
	lines := []reportLine{
		{label: "Risk score", value: fmt.Sprintf("%d / 100", in.RiskScore), severity: riskSeverity(in.RiskScore)},
		kv("Flags raised", fmt.Sprint(len(in.Flags))),
	}
	for _, f := range in.Flags {
		lines = append(lines, reportLine{label: "- " + f})
	}
	return section{title: "Security / Risk", lines: lines}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// skuLabeler "coke_zero" → "Coke Zero". cases.Caser no se comparte entre goroutines.
func skuLabeler() func(string) string {
	caser := cases.Title(language.English)
	return func(sku string) string {
		return caser.String(strings.NewReplacer("_", " ", "-", " ").Replace(sku))
	}
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func kg(grams int) string {
	return decimal.NewFromInt(int64(grams)).Div(decimal.NewFromInt(1000)).StringFixed(2)
}

func qty(q float64) string {
	return decimal.NewFromFloat(q).String()
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprint(n)
}

func unionKeys(a, b entity.DrinkCounts) []string {
	u := entity.DrinkCounts{}
	for k := range a {
		u[k] = 0
	}
	for k := range b {
		u[k] = 0
	}
	return u.SortedKeys()
}

// flaggedTypes severidad máxima por tipo de bandera.
func flaggedTypes(in entity.InsightResult) map[string]string {
	out := map[string]string{}
	for _, i := range in.Insights {
		if out[i.Type] != entity.SeverityHigh {
			out[i.Type] = i.Severity
		}
	}
	return out
}

func riskSeverity(score int) string {
	switch {
	case score >= 60:
		return entity.SeverityHigh
	case score > 0:
		return entity.SeverityMedium
	default:
		return ""
	}
}
