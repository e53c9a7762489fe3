package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appreport "github.com/jhoicas/resto-backoffice/internal/application/report"
	"github.com/jhoicas/resto-backoffice/internal/application/report/reporttest"
	"github.com/jhoicas/resto-backoffice/internal/domain"
	"github.com/jhoicas/resto-backoffice/internal/domain/entity"
	"github.com/jhoicas/resto-backoffice/internal/domain/inventory"
)

func shoppingList(date string) *entity.ShoppingListRecord {
	return &entity.ShoppingListRecord{
		ID:        "list-" + date,
		ShiftDate: reporttest.MustDate(date),
		Items:     []entity.ShoppingListItem{{Name: "Buns", Qty: 60, Unit: "pcs"}},
		CreatedAt: time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC),
	}
}

func TestCompileReport_SinVentas_NotFound(t *testing.T) {
	c := appreport.NewCompiler(reporttest.NewSalesRepo(), reporttest.NewShoppingListRepo(), inventory.DefaultPolicy())

	_, err := c.CompileReport(context.Background(), reporttest.MustDate("2026-03-14"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "No sales record for 2026-03-14")
}

func TestCompileReport_ErrorDeLectura_Persistence(t *testing.T) {
	sales := reporttest.NewSalesRepo()
	sales.Err = errors.New("conexión rechazada")
	c := appreport.NewCompiler(sales, reporttest.NewShoppingListRepo(), inventory.DefaultPolicy())

	_, err := c.CompileReport(context.Background(), reporttest.MustDate("2026-03-14"))
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestCompileReport_SinLista_MarcaBandera(t *testing.T) {
	c := appreport.NewCompiler(
		reporttest.NewSalesRepo(reporttest.SalesRecord("2026-03-14")),
		reporttest.NewShoppingListRepo(),
		inventory.DefaultPolicy(),
	)

	rep, err := c.CompileReport(context.Background(), reporttest.MustDate("2026-03-14"))
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14", rep.ShiftDate)
	assert.Equal(t, "sales-2026-03-14", rep.Sales.ID)
	assert.Equal(t, 40, rep.Sales.BurgersSold)
	assert.Nil(t, rep.ShoppingList)
	assert.Empty(t, rep.ShoppingListID())

	assert.Equal(t, entity.UnitVariance{Expected: 10, Actual: 10, Diff: 0}, rep.Variance.Rolls)
	assert.Equal(t, 0, rep.Variance.Meat.Diff)
	assert.Equal(t, entity.UnitVariance{Expected: 14, Actual: 14, Diff: 0}, rep.Variance.Drinks["coke"])

	assert.Equal(t, []string{entity.FlagNoShoppingList}, rep.Insights.Flags)
	assert.Equal(t, 20, rep.Insights.RiskScore)
}

func TestCompileReport_ConLista_SinBanderas(t *testing.T) {
	c := appreport.NewCompiler(
		reporttest.NewSalesRepo(reporttest.SalesRecord("2026-03-14")),
		reporttest.NewShoppingListRepo(shoppingList("2026-03-14")),
		inventory.DefaultPolicy(),
	)

	rep, err := c.CompileReport(context.Background(), reporttest.MustDate("2026-03-14"))
	require.NoError(t, err)

	assert.Equal(t, "list-2026-03-14", rep.ShoppingListID())
	assert.Empty(t, rep.Insights.Flags)
	assert.Equal(t, 0, rep.Insights.RiskScore)
}

func TestCompileReport_ListaDeOtraFecha_NoSeUsa(t *testing.T) {
	c := appreport.NewCompiler(
		reporttest.NewSalesRepo(reporttest.SalesRecord("2026-03-14")),
		reporttest.NewShoppingListRepo(shoppingList("2026-03-13")),
		inventory.DefaultPolicy(),
	)

	rep, err := c.CompileReport(context.Background(), reporttest.MustDate("2026-03-14"))
	require.NoError(t, err)
	assert.Nil(t, rep.ShoppingList)
	assert.Contains(t, rep.Insights.Flags, entity.FlagNoShoppingList)
}
