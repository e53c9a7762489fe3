package inventory

import "github.com/jhoicas/resto-backoffice/internal/domain/entity"

// ComputeVariance calcula esperado vs contado para panes, carne y bebidas
// (servicio de dominio puro, sin I/O). No modifica los argumentos.
//
//	esperado = inicial + comprado - vendido
//	diff     = esperado - final
func ComputeVariance(
	sales entity.SalesFigures,
	stock entity.StockSnapshot,
	purchased entity.PurchasedStock,
	policy Policy,
) entity.VarianceResult {
	rollsSold := sales.BurgersSold

	rollsExpected := stock.RollsStart + purchased.Rolls - rollsSold
	meatExpected := stock.MeatStartGrams + purchased.MeatGrams - rollsSold*policy.MeatGramsPerRoll

	keys := drinkKeys(sales, stock, purchased, policy.DrinkKeys)
	drinks := make(map[string]entity.UnitVariance, len(keys))
	for _, sku := range keys {
		expected := stock.DrinkStockStart.Get(sku) + purchased.Drinks.Get(sku) - sales.DrinksSold.Get(sku)
		actual := stock.DrinkStockEnd.Get(sku)
		drinks[sku] = entity.UnitVariance{Expected: expected, Actual: actual, Diff: expected - actual}
	}

	return entity.VarianceResult{
		Rolls: entity.UnitVariance{
			Expected: rollsExpected,
			Actual:   stock.RollsEnd,
			Diff:     rollsExpected - stock.RollsEnd,
		},
		Meat: entity.MeatVariance{
			ExpectedGrams: meatExpected,
			ActualGrams:   stock.MeatEndGrams,
			Diff:          meatExpected - stock.MeatEndGrams,
		},
		Drinks: drinks,
	}
}

// drinkKeys SKUs a evaluar, ordenados.
func drinkKeys(
	sales entity.SalesFigures,
	stock entity.StockSnapshot,
	purchased entity.PurchasedStock,
	policy DrinkKeyPolicy,
) []string {
	if policy == DrinkKeysStart {
		return stock.DrinkStockStart.SortedKeys()
	}
	union := entity.DrinkCounts{}
	for _, m := range []entity.DrinkCounts{stock.DrinkStockStart, stock.DrinkStockEnd, purchased.Drinks, sales.DrinksSold} {
		for sku := range m {
			union[sku] = 0
		}
	}
	return union.SortedKeys()
}
