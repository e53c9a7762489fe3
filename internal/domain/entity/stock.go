package entity

import "sort"

// DrinkCounts cantidades por SKU de bebida. Un SKU ausente vale cero.
type DrinkCounts map[string]int

// Get devuelve la cantidad del SKU o 0 si no existe.
func (d DrinkCounts) Get(sku string) int {
	if d == nil {
		return 0
	}
	return d[sku]
}

// SortedKeys claves en orden lexicográfico (iteración determinista).
func (d DrinkCounts) SortedKeys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StockSnapshot conteos de inicio y fin de turno extraídos del payload de ventas.
// No se persiste por separado.
type StockSnapshot struct {
	RollsStart      int         `json:"rollsStart"`
	RollsEnd        int         `json:"rollsEnd"`
	MeatStartGrams  int         `json:"meatStartGrams"`
	MeatEndGrams    int         `json:"meatEndGrams"`
	DrinkStockStart DrinkCounts `json:"drinkStockStart"`
	DrinkStockEnd   DrinkCounts `json:"drinkStockEnd"`
}

// PurchasedStock compras recibidas durante el turno.
type PurchasedStock struct {
	Rolls     int         `json:"rolls"`
	MeatGrams int         `json:"meatGrams"`
	Drinks    DrinkCounts `json:"drinks"`
}

// SalesFigures consumo del turno usado por el motor de varianza.
type SalesFigures struct {
	BurgersSold int         `json:"burgersSold"`
	DrinksSold  DrinkCounts `json:"drinksSold"`
}
