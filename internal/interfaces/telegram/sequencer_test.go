package telegram

import (
	"strconv"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-bot/pkg/logger"
)

func msgUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chatID}}}
}

// TestSecuenciador_OrdenPorChat verifica que los updates de un mismo chat se
// atienden en orden de llegada y nunca dos a la vez, aunque el handler sea
// lento y varios chats lleguen mezclados.
func TestSecuenciador_OrdenPorChat(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int64][]string)
	inflight := make(map[int64]int)

	seq := newSequencer(func(u tgbotapi.Update) {
		id := u.Message.Chat.ID
		mu.Lock()
		inflight[id]++
		assert.LessOrEqual(t, inflight[id], 1, "dos pasos del mismo chat corriendo a la vez")
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		seen[id] = append(seen[id], u.Message.Text)
		inflight[id]--
		mu.Unlock()
	}, logger.Nop())

	chats := []int64{10, 20, 30}
	const perChat = 10
	for i := 0; i < perChat; i++ {
		for _, id := range chats {
			seq.dispatch(msgUpdate(id, "m"+strconv.Itoa(i)))
		}
	}
	seq.stop()

	for _, id := range chats {
		require.Len(t, seen[id], perChat)
		for i, text := range seen[id] {
			assert.Equal(t, "m"+strconv.Itoa(i), text, "chat %d fuera de orden", id)
		}
	}
}

// TestSecuenciador_CallbackUsaElChatDelMensaje cubre la extracción del chat
// en las dos formas de update que enruta el bot.
func TestSecuenciador_CallbackUsaElChatDelMensaje(t *testing.T) {
	cb := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
	}}
	assert.Equal(t, int64(7), updateChatID(cb))
	assert.Equal(t, int64(5), updateChatID(msgUpdate(5, "hola")))
	assert.Zero(t, updateChatID(tgbotapi.Update{}), "update sin chat se descarta")
}

func TestSecuenciador_IgnoraTrasStop(t *testing.T) {
	var handled int
	seq := newSequencer(func(tgbotapi.Update) { handled++ }, logger.Nop())
	seq.stop()

	seq.dispatch(msgUpdate(1, "tarde"))
	assert.Zero(t, handled, "tras stop no debe arrancar workers nuevos")
}
