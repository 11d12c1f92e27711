package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de transacción de los ledgers de fidelidad y cashback.
const (
	TxGanancia             = "ganancia"
	TxCanje                = "canje"
	TxAjuste               = "ajuste"
	TxVencimiento          = "vencimiento"
	TxTransferenciaEntrada = "transferencia_entrada"
	TxTransferenciaSalida  = "transferencia_salida"
	TxCanjeRecompensa      = "canje_recompensa"
)

// TransaccionFidelidad is an append-only, balance-chained loyalty ledger row.
// SaldoPosterior = previous balance + Puntos.
type TransaccionFidelidad struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_tx_fidelidad_cliente"`
	Tipo           string     `gorm:"type:varchar(30);not null"`
	Puntos         int        `gorm:"not null"`
	SaldoPosterior int        `gorm:"not null"`
	VentaID        *uuid.UUID `gorm:"type:uuid;index"`
	VenceAt        *time.Time `gorm:"index"`
	// TransaccionOrigenID points at the ganancia an expiration or reversal offsets.
	TransaccionOrigenID *uuid.UUID `gorm:"type:uuid;index"`
	Motivo              *string
	Actor               *string
	CreatedAt           time.Time `gorm:"index:idx_tx_fidelidad_cliente"`
}

func (TransaccionFidelidad) TableName() string { return "transacciones_fidelidad" }

// TransaccionCashback is an append-only, balance-chained cashback ledger row.
type TransaccionCashback struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_tx_cashback_cliente"`
	Tipo                string          `gorm:"type:varchar(30);not null"`
	Monto               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoPosterior      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentaID             *uuid.UUID      `gorm:"type:uuid;index"`
	VenceAt             *time.Time      `gorm:"index"`
	TransaccionOrigenID *uuid.UUID      `gorm:"type:uuid;index"`
	Motivo              *string
	Actor               *string
	CreatedAt           time.Time `gorm:"index:idx_tx_cashback_cliente"`
}

func (TransaccionCashback) TableName() string { return "transacciones_cashback" }

// ConfigFidelidad is the single loyalty program configuration row.
type ConfigFidelidad struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PuntosPorReal         decimal.Decimal `gorm:"type:decimal(10,4);not null;default:1"`
	CompraMinimaPuntos    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiasVencimientoPuntos int             `gorm:"not null;default:365"`
	MinimoPuntosCanje     int             `gorm:"not null;default:100"`
	ValorCanjePunto       decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0.01"`
	Activo                bool            `gorm:"not null;default:true"`
	AplicarATodos         bool            `gorm:"not null;default:true"`
	UpdatedAt             time.Time
}

func (ConfigFidelidad) TableName() string { return "config_fidelidad" }

// ConfigCashback is the single cashback program configuration row.
type ConfigCashback struct {
	ID                      uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PorcentajeCashback      decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:2"`
	CompraMinimaCashback    decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	CashbackMaximoPorCompra *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiasVencimientoCashback int              `gorm:"not null;default:90"`
	MinimoCanjeCashback     decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:5"`
	Activo                  bool             `gorm:"not null;default:true"`
	AplicarATodos           bool             `gorm:"not null;default:true"`
	UpdatedAt               time.Time
}

func (ConfigCashback) TableName() string { return "config_cashback" }

// DefaultConfigFidelidad is the row created on the first write.
func DefaultConfigFidelidad() ConfigFidelidad {
	return ConfigFidelidad{
		PuntosPorReal:         decimal.NewFromInt(1),
		CompraMinimaPuntos:    decimal.Zero,
		DiasVencimientoPuntos: 365,
		MinimoPuntosCanje:     100,
		ValorCanjePunto:       decimal.RequireFromString("0.01"),
		Activo:                true,
		AplicarATodos:         true,
	}
}

// DefaultConfigCashback is the row created on the first write.
func DefaultConfigCashback() ConfigCashback {
	return ConfigCashback{
		PorcentajeCashback:      decimal.NewFromInt(2),
		CompraMinimaCashback:    decimal.Zero,
		DiasVencimientoCashback: 90,
		MinimoCanjeCashback:     decimal.NewFromInt(5),
		Activo:                  true,
		AplicarATodos:           true,
	}
}
