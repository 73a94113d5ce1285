package entity

import "time"

// Warehouse representa una bodega; los artículos la citan por nombre.
type Warehouse struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
