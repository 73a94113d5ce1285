package telegram

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jhoicas/bodega-bot/pkg/logger"
)

// Capacidad de la cola por chat. Una persona no escribe tan rápido; si la
// cola se llena es que el handler está colgado, y preferimos descartar el
// update a bloquear el polling del resto de los chats.
const chatQueueSize = 16

// sequencer reparte los updates en colas por chat: los eventos de un mismo
// chat se atienden de a uno y en orden de llegada, los de chats distintos en
// paralelo. Una sesión de diálogo nunca recibe dos pasos a la vez.
type sequencer struct {
	handle func(tgbotapi.Update)
	log    *logger.Logger

	mu      sync.Mutex
	queues  map[int64]chan tgbotapi.Update
	stopped bool
	wg      sync.WaitGroup
}

func newSequencer(handle func(tgbotapi.Update), log *logger.Logger) *sequencer {
	return &sequencer{
		handle: handle,
		log:    log,
		queues: make(map[int64]chan tgbotapi.Update),
	}
}

// dispatch encola el update en la cola de su chat, creando el worker la
// primera vez que el chat aparece. Updates sin chat se ignoran.
func (s *sequencer) dispatch(update tgbotapi.Update) {
	chatID := updateChatID(update)
	if chatID == 0 {
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	q, ok := s.queues[chatID]
	if !ok {
		q = make(chan tgbotapi.Update, chatQueueSize)
		s.queues[chatID] = q
		s.wg.Add(1)
		go s.drain(q)
	}
	s.mu.Unlock()

	select {
	case q <- update:
	default:
		s.log.Warn().Int64("chat_id", chatID).Msg("cola del chat llena, update descartado")
	}
}

func (s *sequencer) drain(q chan tgbotapi.Update) {
	defer s.wg.Done()
	for u := range q {
		s.handle(u)
	}
}

// stop cierra las colas y espera a que cada worker termine lo pendiente.
func (s *sequencer) stop() {
	s.mu.Lock()
	s.stopped = true
	for _, q := range s.queues {
		close(q)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// updateChatID extrae el chat al que pertenece el update; 0 si no trae chat.
func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}
