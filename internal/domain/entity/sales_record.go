package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord cierre de caja de un turno. Hay exactamente uno por fecha de turno.
// Payload es la bolsa libre que llena el formulario de ventas: conteos de stock
// inicial/final, compras del día y mapas por SKU de bebidas. Se interpreta solo
// en el borde de ingesta (inventory.ExtractStock y compañía).
type SalesRecord struct {
	ID            string          `json:"id"`
	ShiftDate     time.Time       `json:"shiftDate"`
	CashSales     decimal.Decimal `json:"cashSales"`
	QRSales       decimal.Decimal `json:"qrSales"`
	DeliverySales decimal.Decimal `json:"deliverySales"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	Notes         string          `json:"notes,omitempty"`
	Payload       map[string]any  `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SalesSummary la porción de SalesRecord que viaja dentro del reporte compilado.
type SalesSummary struct {
	ID            string          `json:"id"`
	CashSales     decimal.Decimal `json:"cashSales"`
	QRSales       decimal.Decimal `json:"qrSales"`
	DeliverySales decimal.Decimal `json:"deliverySales"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	BurgersSold   int             `json:"burgersSold"`
	DrinksSold    DrinkCounts     `json:"drinksSold"`
	Notes         string          `json:"notes,omitempty"`
}
