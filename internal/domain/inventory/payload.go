package inventory

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
)

// Claves del payload del formulario de cierre.
const (
	keySalesBreakdown     = "salesBreakdown"
	keyBurgersSold        = "burgersSold"
	keyDrinksSold         = "drinksSold"
	keyRollsStart         = "rollsStart"
	keyRollsEnd           = "rollsEnd"
	keyMeatStartGrams     = "meatStartGrams"
	keyMeatEndGrams       = "meatEndGrams"
	keyDrinkStockStart    = "drinkStockStart"
	keyDrinkStockEnd      = "drinkStockEnd"
	keyRollsPurchased     = "rollsPurchased"
	keyMeatPurchasedGrams = "meatPurchasedGrams"
	keyDrinksPurchased    = "drinksPurchased"
)

// ExtractStock arma el StockSnapshot desde el payload. Nunca falla: cualquier
// campo ausente o no numérico vale cero.
func ExtractStock(payload map[string]any) entity.StockSnapshot {
	return entity.StockSnapshot{
		RollsStart:      toInt(payload[keyRollsStart]),
		RollsEnd:        toInt(payload[keyRollsEnd]),
		MeatStartGrams:  toInt(payload[keyMeatStartGrams]),
		MeatEndGrams:    toInt(payload[keyMeatEndGrams]),
		DrinkStockStart: toCounts(payload[keyDrinkStockStart]),
		DrinkStockEnd:   toCounts(payload[keyDrinkStockEnd]),
	}
}

// ExtractPurchased compras del turno; ausentes = 0.
func ExtractPurchased(payload map[string]any) entity.PurchasedStock {
	return entity.PurchasedStock{
		Rolls:     toInt(payload[keyRollsPurchased]),
		MeatGrams: toInt(payload[keyMeatPurchasedGrams]),
		Drinks:    toCounts(payload[keyDrinksPurchased]),
	}
}

// ExtractSales consumo del turno. burgersSold vive en salesBreakdown.
func ExtractSales(payload map[string]any) entity.SalesFigures {
	var burgers int
	if breakdown, ok := payload[keySalesBreakdown].(map[string]any); ok {
		burgers = toInt(breakdown[keyBurgersSold])
	}
	return entity.SalesFigures{
		BurgersSold: burgers,
		DrinksSold:  toCounts(payload[keyDrinksSold]),
	}
}

// toInt coerción tolerante: números, json.Number y strings numéricos; el resto 0.
func toInt(v any) int {
	var f float64
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(n), 64); err != nil {
			return 0
		}
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}

// toCounts convierte un objeto {sku: n} a DrinkCounts. Nunca devuelve nil.
func toCounts(v any) entity.DrinkCounts {
	out := entity.DrinkCounts{}
	m, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for sku, raw := range m {
		if strings.TrimSpace(sku) == "" {
			continue
		}
		out[sku] = toInt(raw)
	}
	return out
}
