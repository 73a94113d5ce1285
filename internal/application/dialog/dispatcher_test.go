package dialog_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-bot/internal/application/admins"
	"github.com/jhoicas/bodega-bot/internal/application/dialog"
	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/application/reports"
	"github.com/jhoicas/bodega-bot/internal/infrastructure/memory"
	"github.com/jhoicas/bodega-bot/internal/infrastructure/pdf"
	"github.com/jhoicas/bodega-bot/pkg/logger"
)

// Chats usados en los tests: 1 es superadmin, 2 es admin raso, 99 es un extraño.
const (
	superChat    int64 = 1
	adminChat    int64 = 2
	strangerChat int64 = 99
)

// fakeGateway captura todo lo que el despachador intenta enviar.
type fakeGateway struct {
	texts []string
	marks []*dialog.Markup
	docs  []string
	edits []string
}

func (g *fakeGateway) SendReply(_ int64, text string, markup *dialog.Markup) error {
	g.texts = append(g.texts, text)
	g.marks = append(g.marks, markup)
	return nil
}

func (g *fakeGateway) SendDocument(_ int64, _ []byte, filename, _ string) error {
	g.docs = append(g.docs, filename)
	return nil
}

func (g *fakeGateway) EditMessage(_ int64, _ int, text string, markup *dialog.Markup) error {
	g.edits = append(g.edits, text)
	g.marks = append(g.marks, markup)
	return nil
}

func (g *fakeGateway) last() string {
	if len(g.texts) == 0 {
		return ""
	}
	return g.texts[len(g.texts)-1]
}

func (g *fakeGateway) lastEdit() string {
	if len(g.edits) == 0 {
		return ""
	}
	return g.edits[len(g.edits)-1]
}

type fixture struct {
	d     *dialog.Dispatcher
	gw    *fakeGateway
	inv   *inventory.UseCase
	adm   *admins.UseCase
	store *memory.Store
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	inv := inventory.NewUseCase(store.Items(), store.Warehouses(), store.Movements(), memory.NewTxRunner(store))
	adm := admins.NewUseCase(store.Admins(), []int64{superChat})
	require.NoError(t, adm.EnsureSuperAdmins())
	require.NoError(t, adm.Add(adminChat, nil))

	gw := &fakeGateway{}
	d := dialog.NewDispatcher(inv, adm, reports.NewService(pdf.NewMarotoStockReport()), dialog.NewRegistry(), gw, logger.Nop(), 10)
	return &fixture{d: d, gw: gw, inv: inv, adm: adm, store: store, ctx: context.Background()}
}

// send alimenta una secuencia de mensajes del mismo chat.
func (f *fixture) send(chatID int64, msgs ...string) {
	for _, m := range msgs {
		f.d.HandleMessage(f.ctx, chatID, m)
	}
}

// ── Control de acceso ─────────────────────────────────────────────────────────

// TestAcceso_ExtranoRecibeNegativaFija verifica que un chat fuera de la lista
// recibe siempre la misma negativa, sea mensaje o botón, sin pista del motivo.
func TestAcceso_ExtranoRecibeNegativaFija(t *testing.T) {
	f := newFixture(t)

	f.send(strangerChat, "/start")
	denial := f.gw.last()
	assert.Contains(t, denial, "Acceso denegado")

	f.d.HandleCallback(f.ctx, strangerChat, 1, "list_items:1")
	assert.Equal(t, denial, f.gw.last(), "mensaje y callback deben negar con el mismo texto")
}

func TestAcceso_AdminEntraAlMenu(t *testing.T) {
	f := newFixture(t)

	f.send(adminChat, "/start")
	assert.NotContains(t, f.gw.last(), "Acceso denegado")
	require.NotNil(t, f.gw.marks[len(f.gw.marks)-1], "el saludo debe traer el teclado del menú")
}

// TestAcceso_RevocacionAMitadDeFlujo verifica que quitar a un admin de la
// lista surte efecto en su siguiente mensaje, aunque tenga un diálogo abierto.
func TestAcceso_RevocacionAMitadDeFlujo(t *testing.T) {
	f := newFixture(t)

	f.send(adminChat, dialog.BtnAddItem, "REV-1", "Artículo a medias")
	require.NoError(t, f.adm.Remove(adminChat))

	f.send(adminChat, "10")
	assert.Contains(t, f.gw.last(), "Acceso denegado")

	item, err := f.inv.FindBySKU("REV-1")
	require.NoError(t, err)
	assert.Nil(t, item, "el flujo revocado no debe terminar de crear nada")
}

// ── Cancelación ───────────────────────────────────────────────────────────────

// TestCancelar_AMitadDeFlujoNoMuta verifica que /cancel en cualquier paso
// descarta la sesión sin dejar rastro en los datos.
func TestCancelar_AMitadDeFlujoNoMuta(t *testing.T) {
	f := newFixture(t)

	f.send(adminChat, dialog.BtnAddItem, "NUEVO-1", "Artículo nuevo", "10", "/cancel")
	assert.Contains(t, f.gw.last(), "cancelada")

	_, err := f.inv.FindBySKU("NUEVO-1")
	require.NoError(t, err)
	item, _ := f.inv.FindBySKU("NUEVO-1")
	assert.Nil(t, item, "la cancelación no debe crear el artículo a medias")

	// El texto siguiente ya no cae en el flujo abortado.
	f.send(adminChat, "cualquier cosa")
	assert.Contains(t, f.gw.last(), "No entendí")
}

func TestCancelar_SinSesionActiva(t *testing.T) {
	f := newFixture(t)

	f.send(adminChat, "/cancel")
	assert.Contains(t, f.gw.last(), "cancelada", "cancelar sin diálogo activo responde igual, sin error")
}

// ── Alta de artículo ──────────────────────────────────────────────────────────

func TestAltaArticulo_FlujoCompleto(t *testing.T) {
	f := newFixture(t)

	f.send(adminChat,
		dialog.BtnAddItem,
		"TORN-M4",
		"Tornillo M4",
		"500",
		"pcs",
		"A-3",
		"-", // sin bodega
		"100",
	)
	assert.Contains(t, f.gw.last(), "Artículo creado")

	item, err := f.inv.GetByKey("TORN-M4")
	require.NoError(t, err)
	assert.Equal(t, "500", item.Qty.String())
	assert.Equal(t, "100", item.MinQty.String())
	require.NotNil(t, item.Location)
	assert.Equal(t, "A-3", *item.Location)
	assert.Nil(t, item.Warehouse)
}

func TestAltaArticulo_SKURepetidoRepiteElPaso(t *testing.T) {
	f := newFixture(t)
	_, err := f.inv.AddItem(inventory.AddItemInput{SKU: "DUP-1", Name: "Existente", Qty: decimal.Zero})
	require.NoError(t, err)

	f.send(adminChat, dialog.BtnAddItem, "dup-1")
	assert.Contains(t, f.gw.last(), "ya existe", "el SKU repetido (aun con otra caja) repite el paso")

	f.send(adminChat, "LIBRE-1")
	assert.Contains(t, f.gw.last(), "nombre", "con un SKU libre el flujo avanza al nombre")
}

func TestAltaArticulo_QtyInvalidoRepiteElPaso(t *testing.T) {
	f := newFixture(t)

	f.send(adminChat, dialog.BtnAddItem, "A-1", "Alfa", "doce")
	assert.Contains(t, f.gw.last(), "Se necesita un número")

	f.send(adminChat, "12,5", "-", "-", "-", "0")
	assert.Contains(t, f.gw.last(), "Artículo creado", "tras corregir, el flujo sigue donde estaba")
}

// TestAltaArticulo_BodegaPorBoton recorre el paso de bodega con el callback de
// selección en lugar del texto "-".
func TestAltaArticulo_BodegaPorBoton(t *testing.T) {
	f := newFixture(t)
	wh, err := f.inv.AddWarehouse("Central")
	require.NoError(t, err)

	f.send(adminChat, dialog.BtnAddItem, "A-1", "Alfa", "5", "-", "-")
	f.d.HandleCallback(f.ctx, adminChat, 1, "warehouse_select:"+itoa(wh.ID))
	f.send(adminChat, "0")

	item, err := f.inv.GetByKey("A-1")
	require.NoError(t, err)
	require.NotNil(t, item.Warehouse)
	assert.Equal(t, "Central", *item.Warehouse)
}

// TestAltaArticulo_PlantillaPrefill verifica el atajo de plantilla: elegir un
// artículo parecido copia unidad, ubicación y mínimo, que luego se aceptan con "-".
func TestAltaArticulo_PlantillaPrefill(t *testing.T) {
	f := newFixture(t)
	loc := "B-7"
	base, err := f.inv.AddItem(inventory.AddItemInput{
		SKU: "TORN-M3", Name: "Tornillo M3", Qty: decimal.NewFromInt(10),
		Unit: "caja", Location: &loc, MinQty: decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	f.send(adminChat, dialog.BtnAddItem, "TORN-M5", "Tornillo M5")
	f.d.HandleCallback(f.ctx, adminChat, 1, "prefill_item:"+itoa(base.ID))
	assert.Contains(t, f.gw.last(), "Plantilla aplicada")

	f.send(adminChat, "30", "-", "-", "-", "-")

	item, err := f.inv.GetByKey("TORN-M5")
	require.NoError(t, err)
	assert.Equal(t, "caja", item.Unit)
	require.NotNil(t, item.Location)
	assert.Equal(t, "B-7", *item.Location)
	assert.Equal(t, "20", item.MinQty.String())
}

// ── Ajustar y fijar stock ─────────────────────────────────────────────────────

func TestAjustarStock_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	item, err := f.inv.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(10)})
	require.NoError(t, err)

	f.send(adminChat, dialog.BtnAdjustQty, "A-1", "-3,5", "rotura en recepción")
	assert.Contains(t, f.gw.last(), "Stock ajustado")

	updated, err := f.inv.ItemByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "6.5", updated.Qty.String())

	moves, err := f.store.Movements().ListRecent(5)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	require.NotNil(t, moves[0].Note)
	assert.Equal(t, "rotura en recepción", *moves[0].Note)
	assert.Equal(t, adminChat, moves[0].AdminChatID)
}

func TestFijarStock_RegistraDeltaCalculado(t *testing.T) {
	f := newFixture(t)
	_, err := f.inv.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(10)})
	require.NoError(t, err)

	f.send(adminChat, dialog.BtnSetQty, "A-1", "40", "-")
	assert.Contains(t, f.gw.last(), "Stock fijado")

	moves, err := f.store.Movements().ListRecent(5)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "30", moves[0].Delta.String())
	assert.Nil(t, moves[0].Note, "el comentario \"-\" se omite")
}

func TestAjustarStock_ClaveInexistenteRepiteElPaso(t *testing.T) {
	f := newFixture(t)

	f.send(adminChat, dialog.BtnAdjustQty, "NADA")
	assert.Contains(t, f.gw.last(), "no encontrado")
}

// ── Eliminación ───────────────────────────────────────────────────────────────

func TestEliminar_ConfirmaConSi(t *testing.T) {
	f := newFixture(t)
	item, err := f.inv.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(1)})
	require.NoError(t, err)
	_, err = f.inv.AdjustQty(f.ctx, item.ID, decimal.NewFromInt(2), nil, adminChat)
	require.NoError(t, err)

	f.send(adminChat, dialog.BtnDeleteItem, "A-1")
	assert.Contains(t, f.gw.last(), "1 movimiento", "la advertencia dice cuánto historial se pierde")

	f.send(adminChat, "Sí")
	assert.Contains(t, f.gw.last(), "eliminado")

	_, err = f.inv.ItemByID(item.ID)
	assert.Error(t, err)
}

// TestEliminar_CualquierOtroTextoCancela verifica que la confirmación es
// estricta: solo "si"/"sí" borra; todo lo demás aborta sin tocar nada.
func TestEliminar_CualquierOtroTextoCancela(t *testing.T) {
	f := newFixture(t)
	item, err := f.inv.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(1)})
	require.NoError(t, err)

	f.send(adminChat, dialog.BtnDeleteItem, "A-1", "si, borra")
	assert.Contains(t, f.gw.last(), "cancelada")

	got, err := f.inv.ItemByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-1", got.SKU)
}

// ── Edición ───────────────────────────────────────────────────────────────────

func TestEditarArticulo_PorBotonDeCampo(t *testing.T) {
	f := newFixture(t)
	_, err := f.inv.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(1)})
	require.NoError(t, err)

	f.d.HandleCallback(f.ctx, adminChat, 1, "update_item")
	f.send(adminChat, "A-1")
	f.d.HandleCallback(f.ctx, adminChat, 1, "update_field:name")
	f.send(adminChat, "Alfa renombrado")

	assert.Contains(t, f.gw.last(), "actualizados")
	item, err := f.inv.GetByKey("A-1")
	require.NoError(t, err)
	assert.Equal(t, "Alfa renombrado", item.Name)
}

func TestFijarMinimo_AtajoConCampoPreseleccionado(t *testing.T) {
	f := newFixture(t)
	_, err := f.inv.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(1)})
	require.NoError(t, err)

	f.d.HandleCallback(f.ctx, adminChat, 1, "set_min")
	f.send(adminChat, "A-1", "25")

	item, err := f.inv.GetByKey("A-1")
	require.NoError(t, err)
	assert.Equal(t, "25", item.MinQty.String(), "el atajo salta la elección de campo")
}

// ── Paginación ────────────────────────────────────────────────────────────────

func TestPaginacion_BotonViejoSeRecorta(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 15; i++ {
		_, err := f.inv.AddItem(inventory.AddItemInput{
			SKU: "SKU-" + string(rune('A'+i)), Name: "Artículo", Qty: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
	}

	f.d.HandleCallback(f.ctx, adminChat, 1, "list_items:99")
	assert.Contains(t, f.gw.lastEdit(), "página 2/2", "una página fuera de rango se recorta a la última")
}

// ── Superadmin ────────────────────────────────────────────────────────────────

func TestGestionAdmins_SoloSuperadmin(t *testing.T) {
	f := newFixture(t)

	f.d.HandleCallback(f.ctx, adminChat, 1, "admin_add")
	assert.Contains(t, f.gw.last(), "superadmin", "un admin raso no puede iniciar el flujo")

	f.d.HandleCallback(f.ctx, superChat, 1, "admin_add")
	f.send(superChat, "777", "-")
	assert.Contains(t, f.gw.last(), "Admin agregado")

	f.send(int64(777), "/start")
	assert.NotContains(t, f.gw.last(), "Acceso denegado", "el recién agregado ya entra")
}

func TestQuitarAdmin_Inexistente(t *testing.T) {
	f := newFixture(t)

	f.d.HandleCallback(f.ctx, superChat, 1, "admin_remove")
	f.send(superChat, "12345")
	assert.Contains(t, f.gw.last(), "no es admin")
}

func TestCrearBodega_RequiereSuperadmin(t *testing.T) {
	f := newFixture(t)

	f.d.HandleCallback(f.ctx, adminChat, 1, "warehouse_add")
	assert.Contains(t, f.gw.last(), "superadmin")

	f.d.HandleCallback(f.ctx, superChat, 1, "warehouse_add")
	f.send(superChat, "Central")
	assert.Contains(t, f.gw.last(), "creada")

	whs, err := f.inv.Warehouses()
	require.NoError(t, err)
	require.Len(t, whs, 1)
}

// TestEliminarBodega_ReferenciaBlandaQueda verifica el flujo de baja de
// bodega: superadmin, borrado por nombre y artículos que conservan el nombre
// aunque la bodega ya no exista.
func TestEliminarBodega_ReferenciaBlandaQueda(t *testing.T) {
	f := newFixture(t)
	_, err := f.inv.AddWarehouse("Central")
	require.NoError(t, err)
	central := "Central"
	item, err := f.inv.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(3), Warehouse: &central})
	require.NoError(t, err)

	f.d.HandleCallback(f.ctx, adminChat, 1, "warehouse_remove")
	assert.Contains(t, f.gw.last(), "superadmin", "un admin raso no puede borrar bodegas")

	f.d.HandleCallback(f.ctx, superChat, 1, "warehouse_remove")
	f.send(superChat, "Central")
	assert.Contains(t, f.gw.last(), "eliminada")

	kept, err := f.inv.ItemByID(item.ID)
	require.NoError(t, err)
	require.NotNil(t, kept.Warehouse)
	assert.Equal(t, "Central", *kept.Warehouse)

	whs, err := f.inv.Warehouses()
	require.NoError(t, err)
	assert.Empty(t, whs)
}

func TestEliminarBodega_NombreDesconocido(t *testing.T) {
	f := newFixture(t)

	f.d.HandleCallback(f.ctx, superChat, 1, "warehouse_remove")
	f.send(superChat, "Fantasma")
	assert.Contains(t, f.gw.last(), "ninguna bodega")
}

// ── Flujos sin estado ─────────────────────────────────────────────────────────

func TestBusqueda_SinResultados(t *testing.T) {
	f := newFixture(t)

	f.send(adminChat, dialog.BtnSearch, "fantasma")
	assert.Contains(t, f.gw.last(), "Sin resultados")
}

func TestCargaMasiva_ResumenPorElDespachador(t *testing.T) {
	f := newFixture(t)

	f.send(adminChat, dialog.BtnBulkAdd, "A-1,Alfa,1\nB-1,Bravo,2")
	assert.Contains(t, f.gw.last(), "Creados: 2")
}

func TestExportar_EnviaDocumento(t *testing.T) {
	f := newFixture(t)
	_, err := f.inv.AddItem(inventory.AddItemInput{SKU: "A-1", Name: "Alfa", Qty: decimal.NewFromInt(1)})
	require.NoError(t, err)

	f.d.HandleCallback(f.ctx, adminChat, 1, "export_csv")
	require.Len(t, f.gw.docs, 1)
	assert.Equal(t, "stock_export.csv", f.gw.docs[0])
}

func TestExportar_BodegaVacia(t *testing.T) {
	f := newFixture(t)

	f.d.HandleCallback(f.ctx, adminChat, 1, "export_csv")
	assert.Empty(t, f.gw.docs)
	assert.Contains(t, f.gw.last(), "Nada para exportar")
}

// ── helper ────────────────────────────────────────────────────────────────────

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
