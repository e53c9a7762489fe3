package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/internal/domain/inventory"
	"github.com/jhoicas/resto-backoffice/internal/domain/repository"
)

// Compiler arma el CompiledReport de una fecha a partir de los libros de ventas
// y listas de compras. Solo lectura.
type Compiler struct {
	salesRepo repository.SalesRepository
	listRepo  repository.ShoppingListRepository
	policy    inventory.Policy
}

// NewCompiler construye el compilador inyectando repositorios y política.
func NewCompiler(
	salesRepo repository.SalesRepository,
	listRepo repository.ShoppingListRepository,
	policy inventory.Policy,
) *Compiler {
	return &Compiler{salesRepo: salesRepo, listRepo: listRepo, policy: policy}
}

// CompileReport carga ventas + lista de compras del turno y corre los motores.
//
// Retorna:
//   - domain.ErrNotFound     si no hay registro de ventas para la fecha.
//   - domain.ErrPersistence  si falla la lectura de algún libro.
func (c *Compiler) CompileReport(ctx context.Context, shiftDate time.Time) (*entity.CompiledReport, error) {
	date := shiftDate.Format(entity.DateLayout)

	// ── 1. Ventas (obligatorio) ───────────────────────────────────────────────
	sales, err := c.salesRepo.GetByShiftDate(ctx, shiftDate)
	if err != nil {
		return nil, fmt.Errorf("%w: obtener ventas %s: %w", domain.ErrPersistence, date, err)
	}
	if sales == nil {
		return nil, fmt.Errorf("%w: No sales record for %s", domain.ErrNotFound, date)
	}

	// ── 2. Stock y compras embebidos en el payload ────────────────────────────
	stock := inventory.ExtractStock(sales.Payload)
	purchased := inventory.ExtractPurchased(sales.Payload)
	figures := inventory.ExtractSales(sales.Payload)

	// ── 3. Lista de compras (opcional) ────────────────────────────────────────
	list, err := c.listRepo.GetByShiftDate(ctx, shiftDate)
	if err != nil {
		return nil, fmt.Errorf("%w: obtener lista de compras %s: %w", domain.ErrPersistence, date, err)
	}

	// ── 4. Motores ────────────────────────────────────────────────────────────
	variance := inventory.ComputeVariance(figures, stock, purchased, c.policy)
	insights := inventory.ComputeInsights(variance, list, c.policy)

	return &entity.CompiledReport{
		ShiftDate: date,
		Sales: entity.SalesSummary{
			ID:            sales.ID,
			CashSales:     sales.CashSales,
			QRSales:       sales.QRSales,
			DeliverySales: sales.DeliverySales,
			TotalSales:    sales.TotalSales,
			BurgersSold:   figures.BurgersSold,
			DrinksSold:    figures.DrinksSold,
			Notes:         sales.Notes,
		},
		Stock:          stock,
		ShoppingList:   list,
		Variance:       variance,
		PurchasedStock: purchased,
		Insights:       insights,
	}, nil
}
