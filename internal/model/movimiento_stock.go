package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock is one line of a product's stock ledger. Only products that
// control stock get lines, and Saldo always equals the previous Saldo plus Delta.
type MovimientoStock struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID  `gorm:"type:uuid;not null;index:idx_mov_stock_producto,priority:1"`
	VentaID    *uuid.UUID `gorm:"type:uuid;index"`
	Tipo       string     `gorm:"type:varchar(20);not null"`
	Delta      int        `gorm:"not null"` // negative when units leave the shelf
	Saldo      int        `gorm:"not null"`
	Motivo     string
	CreatedAt  time.Time `gorm:"index:idx_mov_stock_producto,priority:2"`
}

func (MovimientoStock) TableName() string { return "movimientos_stock" }
