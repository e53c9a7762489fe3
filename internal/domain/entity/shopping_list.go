package entity

import "time"

// ShoppingListItem artículo solicitado para reposición.
type ShoppingListItem struct {
	Name  string  `json:"name"`
	Qty   float64 `json:"qty"`
	Unit  string  `json:"unit"`
	Notes string  `json:"notes,omitempty"`
}

// ShoppingListRecord lista de compras opcional de un turno (máximo una por fecha).
type ShoppingListRecord struct {
	ID        string             `json:"id"`
	ShiftDate time.Time          `json:"shiftDate"`
	Items     []ShoppingListItem `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
}

// IsEmpty true si la lista es nil o no tiene artículos.
func (l *ShoppingListRecord) IsEmpty() bool {
	return l == nil || len(l.Items) == 0
}
