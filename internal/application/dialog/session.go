package dialog

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Nombres de flujo activables por una sesión.
const (
	FlowAddItem         = "add_item"
	FlowAdjustQty       = "adjust_qty"
	FlowSetQty          = "set_qty"
	FlowDeleteItem      = "delete_item"
	FlowUpdateItem      = "update_item"
	FlowBulkAdd         = "bulk_add"
	FlowSearch          = "search"
	FlowAddAdmin        = "add_admin"
	FlowRemoveAdmin     = "remove_admin"
	FlowAddWarehouse    = "add_warehouse"
	FlowRemoveWarehouse = "remove_warehouse"
)

// Pasos dentro de los flujos.
const (
	StepSKU       = "sku"
	StepName      = "name"
	StepQty       = "qty"
	StepUnit      = "unit"
	StepLocation  = "location"
	StepWarehouse = "warehouse"
	StepMinQty    = "min_qty"
	StepKey       = "key"
	StepDelta     = "delta"
	StepNewQty    = "new_qty"
	StepNote      = "note"
	StepConfirm   = "confirm"
	StepField     = "field"
	StepValue     = "value"
	StepLines     = "lines"
	StepQuery     = "query"
	StepChatID    = "chat_id"
	StepAdminName = "admin_name"
)

// Session es el estado de un diálogo en curso para un chat: el flujo activo,
// el paso actual y los valores capturados hasta el momento.
type Session struct {
	Flow   string
	Step   string
	values map[string]any
}

func NewSession(flow, step string) *Session {
	return &Session{Flow: flow, Step: step, values: make(map[string]any)}
}

func (s *Session) Set(key string, value any) {
	s.values[key] = value
}

func (s *Session) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s *Session) String(key string) (string, bool) {
	v, ok := s.values[key].(string)
	return v, ok
}

func (s *Session) Int64(key string) (int64, bool) {
	v, ok := s.values[key].(int64)
	return v, ok
}

func (s *Session) Decimal(key string) (decimal.Decimal, bool) {
	v, ok := s.values[key].(decimal.Decimal)
	return v, ok
}

// Registry guarda las sesiones en memoria, una por chat. No hay persistencia:
// un reinicio del proceso descarta los diálogos a medias.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Get retorna la sesión activa del chat, o nil si no hay diálogo en curso.
func (r *Registry) Get(chatID int64) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sessions[chatID]
}

// Set registra la sesión del chat. Sobrescribe cualquier diálogo anterior.
func (r *Registry) Set(chatID int64, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[chatID] = s
}

// Clear descarta la sesión del chat, si existe.
func (r *Registry) Clear(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, chatID)
}
