package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente holds the denormalized reward balances of a customer.
// PuntosFidelidad and SaldoCashback only move together with a ledger entry
// written in the same transaction; they are never edited directly.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Documento *string   `gorm:"type:varchar(20);uniqueIndex"`
	Email     *string
	Telefono  *string

	PuntosFidelidad     int             `gorm:"not null;default:0;check:puntos_fidelidad >= 0"`
	SaldoCashback       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;check:saldo_cashback >= 0"`
	CantidadCompras     int             `gorm:"not null;default:0"`
	TotalCompras        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCashbackGanado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContadoresCompra is a signed delta on a customer's purchase aggregates.
type ContadoresCompra struct {
	Compras       int
	TotalCompras  decimal.Decimal
	CashbackTotal decimal.Decimal
}
