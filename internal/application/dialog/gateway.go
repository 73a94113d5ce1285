package dialog

// Button es un botón accionable: al pulsarlo el transporte devuelve Action
// como señal estructurada (callback).
type Button struct {
	Text   string
	Action string
}

// Markup es el modelo de teclado neutro al transporte: Inline son botones
// pegados al mensaje (acciones callback), Reply es el teclado persistente de
// textos. El adaptador de Telegram lo traduce a su formato propio.
type Markup struct {
	Inline [][]Button
	Reply  [][]string
}

// Gateway es la capacidad mínima que el núcleo exige del transporte de chat.
type Gateway interface {
	SendReply(chatID int64, text string, markup *Markup) error
	SendDocument(chatID int64, data []byte, filename, caption string) error
	// EditMessage reemplaza texto y teclado de un mensaje ya enviado
	// (navegación de listados paginados).
	EditMessage(chatID int64, messageID int, text string, markup *Markup) error
}
