package mail

import (
	"fmt"
	"strings"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// Subject asunto del correo diario.
func Subject(date string, rep *entity.CompiledReport) string {
	return fmt.Sprintf("Daily Operations Report %s (risk %d/100)", date, rep.Insights.RiskScore)
}

// Summary cuerpo en texto plano: riesgo, compras, varianzas y banderas.
func Summary(date string, rep *entity.CompiledReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily Operations Report for %s\n\n", date)
	fmt.Fprintf(&b, "Risk score: %d/100\n", rep.Insights.RiskScore)
	fmt.Fprintf(&b, "Total sales: %s\n\n", rep.Sales.TotalSales.StringFixed(2))

	p := rep.PurchasedStock
	b.WriteString("Purchased stock\n")
	fmt.Fprintf(&b, "  Rolls: %d\n", p.Rolls)
	fmt.Fprintf(&b, "  Meat: %dg\n", p.MeatGrams)
	for _, sku := range p.Drinks.SortedKeys() {
		fmt.Fprintf(&b, "  %s: %d\n", sku, p.Drinks[sku])
	}

	v := rep.Variance
	b.WriteString("\nVariance highlights\n")
	fmt.Fprintf(&b, "  Rolls diff: %d\n", v.Rolls.Diff)
	fmt.Fprintf(&b, "  Meat diff: %s kg\n", v.Meat.DiffKg().StringFixed(2))
	for _, sku := range sortedVarianceKeys(v.Drinks) {
		if d := v.Drinks[sku].Diff; d != 0 {
			fmt.Fprintf(&b, "  %s diff: %d\n", sku, d)
		}
	}

	b.WriteString("\nSecurity highlights\n")
	if len(rep.Insights.Insights) == 0 {
		b.WriteString("  No insights generated.\n")
	}
	for _, in := range rep.Insights.Insights {
		fmt.Fprintf(&b, "  [%s] %s\n", strings.ToUpper(in.Severity), in.Message)
	}

	b.WriteString("\nThe full report is attached as PDF.\n")
	return b.String()
}

func sortedVarianceKeys(m map[string]entity.UnitVariance) []string {
	c := make(entity.DrinkCounts, len(m))
	for k := range m {
		c[k] = 0
	}
	return c.SortedKeys()
}
