// Package dialog implementa el motor de diálogo del bot: un despachador que
// enruta mensajes y acciones de botón según la sesión activa del chat, y los
// flujos paso a paso de cada operación de bodega.
//
// Reglas de enrutamiento, en orden:
//  1. Verificación de admin. Falla cerrada: ante cualquier duda se niega.
//  2. Cancelación. El token de cancelar descarta la sesión sin mutar nada.
//  3. Sesión activa. Si hay diálogo en curso, el texto alimenta su paso.
//  4. Comandos y botones del menú en estado inactivo.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/bodega-bot/internal/application/admins"
	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/application/reports"
	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/pkg/logger"
)

// Respuestas fijas del despachador.
const (
	replyDenied   = "⛔ Acceso denegado. Este bot es solo para administradores."
	replyCanceled = "⏹️ Acción cancelada."
	replyUnknown  = "No entendí el comando. Usa el menú o escribe /help."
	replyInternal = "⚠️ Ocurrió un error interno. Intenta de nuevo."
	replyStale    = "Esa acción ya no está activa. Usa el menú."
	replyNoSuper  = "⛔ Solo un superadmin puede hacer eso."
)

const helpText = `<b>Bot de bodega</b>

Operaciones del menú:
• ➕ Agregar artículo: alta guiada paso a paso.
• 🔁 Ajustar stock: suma o resta (ej. +5, -3.5).
• ✅ Fijar stock: establece la cantidad exacta.
• 📋 Artículos: listado paginado.
• 🔍 Buscar: por SKU o parte del nombre.
• ⚠️ Stock bajo: artículos en o bajo su mínimo.
• 📥 Carga masiva: varias filas CSV de una vez.
• 🏢 Bodegas: listado y artículos por bodega.
• 📊 Reportes: exportar CSV, Excel o PDF, e historial.

Comandos: /start /menu /help /id /cancel
Escribe /cancel en cualquier momento para abortar el paso actual.`

// Dispatcher enruta cada evento entrante hacia el flujo o comando que
// corresponda. Depende del transporte solo a través de Gateway.
type Dispatcher struct {
	inventory *inventory.UseCase
	admins    *admins.UseCase
	reports   *reports.Service
	sessions  *Registry
	gw        Gateway
	log       *logger.Logger
	pageSize  int
}

func NewDispatcher(
	inv *inventory.UseCase,
	adm *admins.UseCase,
	rep *reports.Service,
	sessions *Registry,
	gw Gateway,
	log *logger.Logger,
	pageSize int,
) *Dispatcher {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Dispatcher{
		inventory: inv,
		admins:    adm,
		reports:   rep,
		sessions:  sessions,
		gw:        gw,
		log:       log,
		pageSize:  pageSize,
	}
}

// IsAdmin consulta la lista blanca. Un error de la base se trata como "no".
func (d *Dispatcher) IsAdmin(chatID int64) bool {
	ok, err := d.admins.IsAdmin(chatID)
	if err != nil {
		d.log.Error().Err(err).Int64("chat_id", chatID).Msg("verificar admin")
		return false
	}
	return ok
}

// HandleMessage atiende un mensaje de texto entrante.
func (d *Dispatcher) HandleMessage(ctx context.Context, chatID int64, text string) {
	text = strings.TrimSpace(text)

	if !d.IsAdmin(chatID) {
		d.log.Warn().Int64("chat_id", chatID).Msg("mensaje de chat no autorizado")
		d.reply(chatID, replyDenied, nil)
		return
	}

	if isCancel(text) {
		d.sessions.Clear(chatID)
		d.reply(chatID, replyCanceled, MainMenu())
		return
	}

	if s := d.sessions.Get(chatID); s != nil {
		d.handleStep(ctx, chatID, s, text)
		return
	}

	d.handleCommand(chatID, text)
}

// HandleCallback atiende la pulsación de un botón inline. messageID es el
// mensaje que lleva el teclado, para poder editarlo al paginar.
func (d *Dispatcher) HandleCallback(ctx context.Context, chatID int64, messageID int, action string) {
	if !d.IsAdmin(chatID) {
		d.log.Warn().Int64("chat_id", chatID).Str("action", action).Msg("callback de chat no autorizado")
		d.reply(chatID, replyDenied, nil)
		return
	}

	switch {
	case strings.HasPrefix(action, ActListItems+":"):
		d.paginateItems(chatID, messageID, strings.TrimPrefix(action, ActListItems+":"))
	case strings.HasPrefix(action, ActWarehouseFilter+":"):
		d.paginateWarehouse(chatID, messageID, strings.TrimPrefix(action, ActWarehouseFilter+":"))
	case strings.HasPrefix(action, ActWarehouseSelect+":"):
		d.addItemWarehouseSelected(chatID, strings.TrimPrefix(action, ActWarehouseSelect+":"))
	case strings.HasPrefix(action, ActPrefillItem+":"):
		d.addItemPrefill(chatID, strings.TrimPrefix(action, ActPrefillItem+":"))
	case strings.HasPrefix(action, ActUpdateField+":"):
		d.updateFieldChosen(chatID, strings.TrimPrefix(action, ActUpdateField+":"))
	case action == ActLowStock:
		d.sendLowStock(chatID)
	case action == ActHistory:
		d.sendHistory(chatID)
	case action == ActExportCSV, action == ActExportXLSX, action == ActExportPDF:
		d.sendExport(chatID, action)
	case action == ActWarehousesList:
		d.sendWarehousesList(chatID)
	case action == ActWarehouseItems:
		d.sendWarehouseFilter(chatID)
	case action == ActWarehouseAdd:
		d.startAddWarehouse(chatID)
	case action == ActWarehouseRemove:
		d.startRemoveWarehouse(chatID)
	case action == ActAdminsList:
		d.sendAdminsList(chatID)
	case action == ActAdminAdd:
		d.startAddAdmin(chatID)
	case action == ActAdminRemove:
		d.startRemoveAdmin(chatID)
	case action == ActUpdateItem:
		d.startUpdateItem(chatID, "")
	case action == ActSetMin:
		d.startUpdateItem(chatID, string(entity.FieldMinQty))
	default:
		d.log.Debug().Str("action", action).Int64("chat_id", chatID).Msg("acción desconocida")
		d.reply(chatID, replyStale, nil)
	}
}

func (d *Dispatcher) handleCommand(chatID int64, text string) {
	switch text {
	case "/start":
		d.reply(chatID, "👋 Hola. Soy el bot de la bodega.\nElige una operación del menú.", MainMenu())
	case "/menu", "/admin":
		d.reply(chatID, "Menú principal:", MainMenu())
	case "/help", BtnHelp:
		d.reply(chatID, helpText, MainMenu())
	case "/id":
		d.reply(chatID, fmt.Sprintf("Tu chat ID es <code>%d</code>", chatID), nil)
	case BtnAddItem:
		d.startAddItem(chatID)
	case BtnAdjustQty:
		d.startQtyFlow(chatID, FlowAdjustQty)
	case BtnSetQty:
		d.startQtyFlow(chatID, FlowSetQty)
	case BtnDeleteItem:
		d.startDeleteItem(chatID)
	case BtnListItems:
		d.sendItemsList(chatID)
	case BtnSearch:
		d.startSearch(chatID)
	case BtnLowStock:
		d.sendLowStock(chatID)
	case BtnBulkAdd:
		d.startBulkAdd(chatID)
	case BtnReports:
		d.reply(chatID, "📊 Reportes:", ReportsMenu())
	case BtnWarehouses:
		d.reply(chatID, "🏢 Bodegas:", WarehousesMenu())
	case BtnSettings:
		d.reply(chatID, "⚙️ Ajustes:", SettingsMenu())
	case BtnAdminPanel:
		d.reply(chatID, "🛠 Panel de administración:", AdminMenu())
	default:
		d.reply(chatID, replyUnknown, MainMenu())
	}
}

// handleStep alimenta el paso actual de la sesión con el texto recibido.
func (d *Dispatcher) handleStep(ctx context.Context, chatID int64, s *Session, text string) {
	switch s.Flow {
	case FlowAddItem:
		d.addItemStep(chatID, s, text)
	case FlowAdjustQty, FlowSetQty:
		d.qtyStep(ctx, chatID, s, text)
	case FlowDeleteItem:
		d.deleteStep(chatID, s, text)
	case FlowUpdateItem:
		d.updateStep(chatID, s, text)
	case FlowBulkAdd:
		d.bulkStep(chatID, s, text)
	case FlowSearch:
		d.searchStep(chatID, s, text)
	case FlowAddAdmin, FlowRemoveAdmin, FlowAddWarehouse:
		d.adminStep(chatID, s, text)
	default:
		// Sesión de una versión anterior del bot: descartarla.
		d.sessions.Clear(chatID)
		d.reply(chatID, replyStale, MainMenu())
	}
}

// ── Listados ────────────────────────────────────────────────────

func (d *Dispatcher) sendItemsList(chatID int64) {
	text, page, total, err := d.renderItemsPage(1)
	if err != nil {
		d.fail(chatID, err, "listar artículos")
		return
	}
	d.reply(chatID, text, PaginationMarkup(page, total))
}

func (d *Dispatcher) paginateItems(chatID int64, messageID int, rawPage string) {
	page, err := strconv.Atoi(rawPage)
	if err != nil {
		d.reply(chatID, replyStale, nil)
		return
	}

	text, page, total, err := d.renderItemsPage(page)
	if err != nil {
		d.fail(chatID, err, "paginar artículos")
		return
	}
	if err := d.gw.EditMessage(chatID, messageID, text, PaginationMarkup(page, total)); err != nil {
		d.log.Error().Err(err).Int64("chat_id", chatID).Msg("editar mensaje de listado")
	}
}

// renderItemsPage devuelve el texto de la página pedida junto con el número
// efectivo (ya acotado) y el total de páginas.
func (d *Dispatcher) renderItemsPage(page int) (string, int, int, error) {
	p, err := d.inventory.ListPage(page, d.pageSize)
	if err != nil {
		return "", 0, 0, err
	}
	if len(p.Items) == 0 {
		return "La bodega está vacía. Agrega el primer artículo con ➕.", p.Number, p.Total, nil
	}
	text := fmt.Sprintf("📋 Artículos (página %d/%d)\n%s", p.Number, p.Total, FormatItemsTable(p.Items))
	return text, p.Number, p.Total, nil
}

func (d *Dispatcher) sendWarehouseFilter(chatID int64) {
	whs, err := d.inventory.Warehouses()
	if err != nil {
		d.fail(chatID, err, "listar bodegas")
		return
	}
	if len(whs) == 0 {
		d.reply(chatID, "No hay bodegas registradas todavía.", nil)
		return
	}
	d.reply(chatID, "Elige la bodega:", WarehouseFilterMarkup(whs))
}

// paginateWarehouse atiende las acciones "<id>:<orden>:<página>" del listado
// filtrado por bodega.
func (d *Dispatcher) paginateWarehouse(chatID int64, messageID int, raw string) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		d.reply(chatID, replyStale, nil)
		return
	}
	whID, err1 := strconv.ParseInt(parts[0], 10, 64)
	page, err2 := strconv.Atoi(parts[2])
	sort := parts[1]
	if err1 != nil || err2 != nil {
		d.reply(chatID, replyStale, nil)
		return
	}

	var warehouse *string
	label := "Todas las bodegas"
	if whID != 0 {
		wh, err := d.inventory.WarehouseByID(whID)
		if errors.Is(err, domain.ErrNotFound) {
			d.reply(chatID, "Bodega no encontrada. Quizá fue eliminada.", nil)
			return
		}
		if err != nil {
			d.fail(chatID, err, "buscar bodega")
			return
		}
		warehouse = &wh.Name
		label = wh.Name
	}

	p, err := d.inventory.ListPageByWarehouse(warehouse, sort, page, d.pageSize)
	if err != nil {
		d.fail(chatID, err, "listar por bodega")
		return
	}

	text := fmt.Sprintf("🏢 %s (página %d/%d)\n%s", label, p.Number, p.Total, FormatItemsTable(p.Items))
	if len(p.Items) == 0 {
		text = fmt.Sprintf("🏢 %s: sin artículos.", label)
	}
	if err := d.gw.EditMessage(chatID, messageID, text, WarehouseNavMarkup(whID, sort, p.Number, p.Total)); err != nil {
		d.log.Error().Err(err).Int64("chat_id", chatID).Msg("editar listado por bodega")
	}
}

func (d *Dispatcher) sendLowStock(chatID int64) {
	items, err := d.inventory.LowStock()
	if err != nil {
		d.fail(chatID, err, "stock bajo")
		return
	}
	if len(items) == 0 {
		d.reply(chatID, "✅ Ningún artículo está en stock bajo.", nil)
		return
	}
	d.reply(chatID, "⚠️ Artículos en stock bajo:\n"+FormatItemsTable(items), nil)
}

func (d *Dispatcher) sendHistory(chatID int64) {
	moves, err := d.inventory.History()
	if err != nil {
		d.fail(chatID, err, "historial")
		return
	}
	if len(moves) == 0 {
		d.reply(chatID, "El historial está vacío.", nil)
		return
	}
	d.reply(chatID, "🕘 Últimos movimientos:\n"+FormatMovementsTable(moves), nil)
}

func (d *Dispatcher) sendWarehousesList(chatID int64) {
	whs, err := d.inventory.Warehouses()
	if err != nil {
		d.fail(chatID, err, "listar bodegas")
		return
	}
	if len(whs) == 0 {
		d.reply(chatID, "No hay bodegas registradas todavía.", nil)
		return
	}
	var b strings.Builder
	b.WriteString("🏢 Bodegas:\n")
	for _, w := range whs {
		fmt.Fprintf(&b, "• %s (ID %d)\n", w.Name, w.ID)
	}
	d.reply(chatID, b.String(), nil)
}

func (d *Dispatcher) sendAdminsList(chatID int64) {
	list, err := d.admins.List()
	if err != nil {
		d.fail(chatID, err, "listar admins")
		return
	}
	var b strings.Builder
	b.WriteString("👥 Administradores:\n")
	for _, a := range list {
		name := ""
		if a.Name != nil && *a.Name != "" {
			name = " — " + *a.Name
		}
		fmt.Fprintf(&b, "• <code>%d</code>%s\n", a.ChatID, name)
	}
	d.reply(chatID, b.String(), nil)
}

// ── Exportaciones ───────────────────────────────────────────────

func (d *Dispatcher) sendExport(chatID int64, action string) {
	items, err := d.inventory.ExportAll()
	if err != nil {
		d.fail(chatID, err, "exportar stock")
		return
	}
	if len(items) == 0 {
		d.reply(chatID, "La bodega está vacía. Nada para exportar.", nil)
		return
	}

	var doc *reports.Document
	switch action {
	case ActExportCSV:
		doc, err = d.reports.CSV(items)
	case ActExportXLSX:
		doc, err = d.reports.XLSX(items)
	case ActExportPDF:
		doc, err = d.reports.PDF(items)
	}
	if err != nil {
		d.fail(chatID, err, "generar reporte")
		return
	}

	if err := d.gw.SendDocument(chatID, doc.Bytes, doc.Filename, doc.Caption); err != nil {
		d.log.Error().Err(err).Int64("chat_id", chatID).Str("file", doc.Filename).Msg("enviar documento")
		d.reply(chatID, replyInternal, nil)
	}
}

// ── Auxiliares ──────────────────────────────────────────────────

func (d *Dispatcher) reply(chatID int64, text string, markup *Markup) {
	if err := d.gw.SendReply(chatID, text, markup); err != nil {
		d.log.Error().Err(err).Int64("chat_id", chatID).Msg("enviar respuesta")
	}
}

// fail reporta un error interno y descarta la sesión: un paso a medias sobre
// un estado dudoso es peor que pedir que se repita la operación.
func (d *Dispatcher) fail(chatID int64, err error, op string) {
	d.log.Error().Err(err).Str("op", op).Int64("chat_id", chatID).Msg("operación fallida")
	d.sessions.Clear(chatID)
	d.reply(chatID, replyInternal, MainMenu())
}

func isCancel(text string) bool {
	switch strings.ToLower(text) {
	case "/cancel", "cancelar", "⏹️ cancelar":
		return true
	}
	return false
}
