package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/infrastructure/memory"
)

const testAdminID int64 = 1001

func newTestUseCase() (*inventory.UseCase, *memory.Store) {
	store := memory.NewStore()
	uc := inventory.NewUseCase(store.Items(), store.Warehouses(), store.Movements(), memory.NewTxRunner(store))
	return uc, store
}

func mustAdd(t *testing.T, uc *inventory.UseCase, sku, name string, qty int64) *entity.Item {
	t.Helper()
	item, err := uc.AddItem(inventory.AddItemInput{SKU: sku, Name: name, Qty: decimal.NewFromInt(qty)})
	require.NoError(t, err)
	return item
}

// ── Altas ─────────────────────────────────────────────────────────────────────

func TestAddItem_UnidadPorDefecto(t *testing.T) {
	uc, _ := newTestUseCase()

	item := mustAdd(t, uc, "TORN-M4", "Tornillo M4", 100)
	assert.Equal(t, "pcs", item.Unit, "sin unidad explícita debe aplicarse la predeterminada")
	assert.NotZero(t, item.ID, "el alta debe asignar un ID")
}

// TestAddItem_SKUDuplicadoCaseInsensitive verifica que la unicidad del SKU no
// distingue mayúsculas: "abc-1" y "ABC-1" son el mismo código.
func TestAddItem_SKUDuplicadoCaseInsensitive(t *testing.T) {
	uc, _ := newTestUseCase()
	mustAdd(t, uc, "ABC-1", "Original", 10)

	_, err := uc.AddItem(inventory.AddItemInput{SKU: "abc-1", Name: "Copia", Qty: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	n, err := uc.ItemByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Original", n.Name, "el duplicado no debe tocar el artículo existente")
}

func TestAddItem_EntradaVacia(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.AddItem(inventory.AddItemInput{SKU: "", Name: "Sin SKU"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AddItem(inventory.AddItemInput{SKU: "X-1", Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Resolución por clave ──────────────────────────────────────────────────────

// TestGetByKey_IDPrimeroLuegoSKU verifica el orden de resolución: una clave
// puramente numérica intenta primero como ID y solo después cae a SKU.
func TestGetByKey_IDPrimeroLuegoSKU(t *testing.T) {
	uc, _ := newTestUseCase()
	first := mustAdd(t, uc, "1", "SKU numérico uno", 5)
	second := mustAdd(t, uc, "OTRO", "Otro artículo", 7)

	// "2" coincide con el ID del segundo artículo, no con el SKU "1".
	got, err := uc.GetByKey("2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	// El SKU "1" solo se alcanza cuando el ID 1 es el propio artículo.
	got, err = uc.GetByKey("1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestGetByKey_SKUCaseInsensitive(t *testing.T) {
	uc, _ := newTestUseCase()
	item := mustAdd(t, uc, "Torn-M4", "Tornillo", 5)

	got, err := uc.GetByKey("  torn-m4 ")
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
}

func TestGetByKey_NoExiste(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.GetByKey("NADA")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GetByKey("")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Ajustes y movimientos ─────────────────────────────────────────────────────

// TestAdjustQty_EsAditivo verifica que dos ajustes se acumulan y que cada uno
// deja su propio movimiento de auditoría.
func TestAdjustQty_EsAditivo(t *testing.T) {
	uc, store := newTestUseCase()
	item := mustAdd(t, uc, "A-1", "Artículo", 10)
	ctx := context.Background()

	_, err := uc.AdjustQty(ctx, item.ID, decimal.NewFromInt(5), nil, testAdminID)
	require.NoError(t, err)
	updated, err := uc.AdjustQty(ctx, item.ID, decimal.RequireFromString("-3.5"), nil, testAdminID)
	require.NoError(t, err)

	assert.Equal(t, "11.5", updated.Qty.String())

	n, err := store.Movements().CountByItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "cada ajuste debe registrar un movimiento")
}

func TestAdjustQty_PuedeQuedarNegativo(t *testing.T) {
	uc, _ := newTestUseCase()
	item := mustAdd(t, uc, "A-1", "Artículo", 3)

	updated, err := uc.AdjustQty(context.Background(), item.ID, decimal.NewFromInt(-10), nil, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, "-7", updated.Qty.String(), "no hay piso en cero: el negativo es visible")
}

// TestSetQty_DeltaContraCantidadPrevia verifica que fijar la cantidad registra
// un único movimiento cuyo delta es nueva - previa, con la previa capturada al
// resolver la clave (no releída al confirmar).
func TestSetQty_DeltaContraCantidadPrevia(t *testing.T) {
	uc, store := newTestUseCase()
	item := mustAdd(t, uc, "A-1", "Artículo", 10)
	ctx := context.Background()

	// Otro admin mueve el stock entre la resolución y la confirmación.
	_, err := uc.AdjustQty(ctx, item.ID, decimal.NewFromInt(4), nil, 2002)
	require.NoError(t, err)

	updated, err := uc.SetQty(ctx, item.ID, decimal.NewFromInt(40), item.Qty, nil, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, "40", updated.Qty.String())

	moves, err := store.Movements().ListRecent(10)
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, "30", moves[0].Delta.String(), "el delta se calcula contra la cantidad que vio el operador (40-10)")
}

func TestAdjustQty_ArticuloInexistente(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.AdjustQty(context.Background(), 99, decimal.NewFromInt(1), nil, testAdminID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Borrado ───────────────────────────────────────────────────────────────────

// TestDelete_CascadaDeMovimientos verifica que borrar un artículo arrastra su
// historial completo.
func TestDelete_CascadaDeMovimientos(t *testing.T) {
	uc, store := newTestUseCase()
	item := mustAdd(t, uc, "A-1", "Artículo", 10)
	ctx := context.Background()

	_, err := uc.AdjustQty(ctx, item.ID, decimal.NewFromInt(1), nil, testAdminID)
	require.NoError(t, err)
	_, err = uc.AdjustQty(ctx, item.ID, decimal.NewFromInt(2), nil, testAdminID)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(item.ID))

	_, err = uc.ItemByID(item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	n, err := store.Movements().CountByItem(item.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "los movimientos deben caer en cascada")

	assert.ErrorIs(t, uc.Delete(item.ID), domain.ErrNotFound, "borrar dos veces no es idempotente silencioso")
}

// ── Paginación ────────────────────────────────────────────────────────────────

func TestListPage_RecortaFueraDeRango(t *testing.T) {
	uc, _ := newTestUseCase()
	for i := 0; i < 25; i++ {
		mustAdd(t, uc, "SKU-"+string(rune('A'+i)), "Artículo", 1)
	}

	p, err := uc.ListPage(99, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Number, "una página más allá del final se recorta a la última")
	assert.Equal(t, 3, p.Total)
	assert.Len(t, p.Items, 5)

	p, err = uc.ListPage(0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Number, "página menor que 1 se recorta a la primera")
	assert.Len(t, p.Items, 10)
}

func TestListPage_ColeccionVacia(t *testing.T) {
	uc, _ := newTestUseCase()

	p, err := uc.ListPage(5, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Number, "una colección vacía tiene exactamente una página")
	assert.Equal(t, 1, p.Total)
	assert.Empty(t, p.Items)
}

func TestListPageByWarehouse_FiltraYOrdena(t *testing.T) {
	uc, _ := newTestUseCase()
	central := "Central"
	norte := "Norte"

	_, err := uc.AddItem(inventory.AddItemInput{SKU: "B-1", Name: "Bravo", Qty: decimal.NewFromInt(9), Warehouse: &central})
	require.NoError(t, err)
	_, err = uc.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(2), Warehouse: &central})
	require.NoError(t, err)
	_, err = uc.AddItem(inventory.AddItemInput{SKU: "C-1", Name: "Charlie", Qty: decimal.NewFromInt(5), Warehouse: &norte})
	require.NoError(t, err)

	p, err := uc.ListPageByWarehouse(&central, "qty", 1, 10)
	require.NoError(t, err)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "A-1", p.Items[0].SKU, "orden por cantidad ascendente")
	assert.Equal(t, "B-1", p.Items[1].SKU)
}

// TestRemoveWarehouse_ReferenciaBlandaIntacta verifica que borrar una bodega
// no toca los artículos que la citan: el campo es una referencia por nombre
// sin FK, así que el nombre queda colgando a propósito.
func TestRemoveWarehouse_ReferenciaBlandaIntacta(t *testing.T) {
	uc, _ := newTestUseCase()
	_, err := uc.AddWarehouse("Central")
	require.NoError(t, err)
	central := "Central"
	item, err := uc.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(1), Warehouse: &central})
	require.NoError(t, err)

	require.NoError(t, uc.RemoveWarehouse("Central"))

	kept, err := uc.ItemByID(item.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.Warehouse)
	assert.Equal(t, "Central", *kept.Warehouse, "el artículo conserva el nombre de la bodega borrada")

	whs, err := uc.Warehouses()
	require.NoError(t, err)
	assert.Empty(t, whs, "la bodega ya no aparece en los filtros")
}

func TestRemoveWarehouse_Inexistente(t *testing.T) {
	uc, _ := newTestUseCase()

	err := uc.RemoveWarehouse("Fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Edición parcial ───────────────────────────────────────────────────────────

func TestUpdateFields_CambioDeSKUConflictivo(t *testing.T) {
	uc, _ := newTestUseCase()
	mustAdd(t, uc, "A-1", "Alfa", 1)
	other := mustAdd(t, uc, "B-1", "Bravo", 1)

	ch, ok := entity.TextChange(entity.FieldSKU, "a-1")
	require.True(t, ok)
	_, err := uc.UpdateFields(other.ID, []entity.FieldChange{ch})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "renombrar a un SKU ocupado (aun con otra caja) debe fallar")
}

func TestUpdateFields_LimpiarUbicacion(t *testing.T) {
	uc, _ := newTestUseCase()
	loc := "A-3"
	item, err := uc.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(1), Location: &loc})
	require.NoError(t, err)

	ch, ok := entity.OptionalTextChange(entity.FieldLocation, "", true)
	require.True(t, ok)
	updated, err := uc.UpdateFields(item.ID, []entity.FieldChange{ch})
	require.NoError(t, err)
	assert.Nil(t, updated.Location)
}

// ── Stock bajo ────────────────────────────────────────────────────────────────

func TestLowStock_UmbralInclusivo(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.AddItem(inventory.AddItemInput{SKU: "EN", Name: "En umbral", Qty: decimal.NewFromInt(5), MinQty: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, err = uc.AddItem(inventory.AddItemInput{SKU: "SOBRE", Name: "Sobre umbral", Qty: decimal.NewFromInt(6), MinQty: decimal.NewFromInt(5)})
	require.NoError(t, err)
	_, err = uc.AddItem(inventory.AddItemInput{SKU: "SIN", Name: "Sin umbral", Qty: decimal.Zero})
	require.NoError(t, err)

	low, err := uc.LowStock()
	require.NoError(t, err)
	require.Len(t, low, 1, "qty == min_qty cuenta como stock bajo; min_qty 0 desactiva la alerta")
	assert.Equal(t, "EN", low[0].SKU)
}
