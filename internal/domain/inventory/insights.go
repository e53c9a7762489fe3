package inventory

import (
	"fmt"
	"sort"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// ComputeInsights clasifica las varianzas en anomalías y calcula el riesgo agregado.
// Orden de evaluación: panes → carne → bebidas (SKU ordenado) → lista de compras.
// riskScore = min(RiskCap, RiskPerFlag × banderas); cada SKU marcado cuenta aparte.
func ComputeInsights(
	variance entity.VarianceResult,
	shoppingList *entity.ShoppingListRecord,
	policy Policy,
) entity.InsightResult {
	res := entity.InsightResult{Insights: []entity.Insight{}, Flags: []string{}}
	add := func(flag, severity, msg string) {
		res.Flags = append(res.Flags, flag)
		res.Insights = append(res.Insights, entity.Insight{Type: flag, Severity: severity, Message: msg})
	}

	if d := abs(variance.Rolls.Diff); d > policy.RollsFlagThreshold {
		add(entity.FlagRollsVariance,
			severity(d, policy.RollsHighThreshold),
			fmt.Sprintf("Rolls variance of %d (expected %d, counted %d)",
				variance.Rolls.Diff, variance.Rolls.Expected, variance.Rolls.Actual))
	}

	if d := abs(variance.Meat.Diff); d > policy.MeatFlagThresholdGrams {
		add(entity.FlagMeatVariance,
			severity(d, policy.MeatHighThresholdGrams),
			fmt.Sprintf("Meat variance of %dg (%s kg; expected %dg, counted %dg)",
				variance.Meat.Diff, variance.Meat.DiffKg().StringFixed(2),
				variance.Meat.ExpectedGrams, variance.Meat.ActualGrams))
	}

	skus := make([]string, 0, len(variance.Drinks))
	for sku := range variance.Drinks {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	for _, sku := range skus {
		v := variance.Drinks[sku]
		if d := abs(v.Diff); d > policy.DrinkFlagThreshold {
			add(entity.FlagDrinkVariance,
				severity(d, policy.DrinkHighThreshold),
				fmt.Sprintf("Drink %s variance of %d (expected %d, counted %d)", sku, v.Diff, v.Expected, v.Actual))
		}
	}

	if shoppingList.IsEmpty() {
		add(entity.FlagNoShoppingList, entity.SeverityMedium, "No shopping list was submitted for this shift")
	}

	res.RiskScore = RiskScore(len(res.Flags), policy)
	return res
}

// RiskScore cuantización gruesa: puntos fijos por bandera con tope.
func RiskScore(flagCount int, policy Policy) int {
	score := policy.RiskPerFlag * flagCount
	if score > policy.RiskCap {
		score = policy.RiskCap
	}
	if score < 0 {
		score = 0
	}
	return score
}

func severity(absDiff, highThreshold int) string {
	if absDiff > highThreshold {
		return entity.SeverityHigh
	}
	return entity.SeverityMedium
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
