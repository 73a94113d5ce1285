package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement es una entrada del registro de auditoría de stock: un delta firmado
// por cada cambio de cantidad (ajuste o fijación). Solo-inserción; se borra
// únicamente en cascada con su artículo.
type Movement struct {
	ID          string // uuid
	ItemID      int64
	Delta       decimal.Decimal
	Note        *string
	AdminChatID int64
	CreatedAt   time.Time
}

// MovementWithItem es un movimiento junto al SKU y nombre del artículo,
// para el historial que se muestra al usuario.
type MovementWithItem struct {
	Movement
	ItemSKU  string
	ItemName string
}
