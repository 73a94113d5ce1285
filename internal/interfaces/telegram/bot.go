// Package telegram adapta el motor de diálogo al Bot API de Telegram:
// traduce updates entrantes a llamadas del despachador y el modelo de
// teclados neutro al formato propio de Telegram. Es la única pieza que
// importa la librería del Bot API.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jhoicas/bodega-bot/internal/application/dialog"
	"github.com/jhoicas/bodega-bot/pkg/logger"
)

var _ dialog.Gateway = (*Bot)(nil)

// Bot envuelve la conexión con Telegram y bombea updates al despachador.
type Bot struct {
	api *tgbotapi.BotAPI
	log *logger.Logger
}

// New conecta con el Bot API y valida el token.
func New(token string, debug bool, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug

	log.Info().Str("username", api.Self.UserName).Msg("bot conectado a Telegram")
	return &Bot{api: api, log: log}, nil
}

// Run consume updates por long polling hasta que el contexto se cancele.
// Los updates se serializan por chat: dos mensajes seguidos de la misma
// persona recorren su diálogo en orden y de a uno, mientras que un diálogo
// lento no bloquea a los demás chats. El estado de sesión cuenta con esto:
// nunca ve dos pasos concurrentes del mismo chat.
func (b *Bot) Run(ctx context.Context, d *dialog.Dispatcher) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	seq := newSequencer(func(u tgbotapi.Update) { b.handleUpdate(ctx, d, u) }, b.log)
	defer seq.stop()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			seq.dispatch(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, d *dialog.Dispatcher, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("pánico atendiendo update")
		}
	}()

	switch {
	case update.Message != nil:
		d.HandleMessage(ctx, update.Message.Chat.ID, update.Message.Text)
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		// Confirmar el callback primero para que el cliente deje de
		// mostrar el reloj, pase lo que pase después.
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.log.Warn().Err(err).Msg("confirmar callback")
		}
		if cb.Message == nil {
			return
		}
		d.HandleCallback(ctx, cb.Message.Chat.ID, cb.Message.MessageID, cb.Data)
	}
}

// SendReply implementa dialog.Gateway.
func (b *Bot) SendReply(chatID int64, text string, markup *dialog.Markup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if rm := toReplyMarkup(markup); rm != nil {
		msg.ReplyMarkup = rm
	}
	_, err := b.api.Send(msg)
	return err
}

// SendDocument implementa dialog.Gateway.
func (b *Bot) SendDocument(chatID int64, data []byte, filename, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	_, err := b.api.Send(doc)
	return err
}

// EditMessage implementa dialog.Gateway. Solo admite teclados inline: es lo
// único que Telegram permite editar en un mensaje ya enviado.
func (b *Bot) EditMessage(chatID int64, messageID int, text string, markup *dialog.Markup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if inline := toInlineKeyboard(markup); inline != nil {
		edit.ReplyMarkup = inline
	}
	_, err := b.api.Send(edit)
	return err
}

// toReplyMarkup traduce el teclado neutro al tipo concreto de Telegram.
func toReplyMarkup(m *dialog.Markup) interface{} {
	if m == nil {
		return nil
	}
	if inline := toInlineKeyboard(m); inline != nil {
		return *inline
	}
	if len(m.Reply) == 0 {
		return nil
	}

	var rows [][]tgbotapi.KeyboardButton
	for _, row := range m.Reply {
		var buttons []tgbotapi.KeyboardButton
		for _, text := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(text))
		}
		rows = append(rows, buttons)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func toInlineKeyboard(m *dialog.Markup) *tgbotapi.InlineKeyboardMarkup {
	if m == nil || len(m.Inline) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range m.Inline {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Action))
		}
		rows = append(rows, buttons)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
