package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja is one till shift of a punto de venta, from apertura to arqueo.
// At most one session per punto de venta is "abierta" at a time.
type SesionCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PuntoDeVenta int             `gorm:"not null;index"`
	Operador     string          `gorm:"not null"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'abierta'"`

	// Totales only moves through AplicarTotales with the exact payment split
	// of a venta: cierre adds it, anulación and reapertura subtract it.
	Totales TotalesCaja `gorm:"embedded;embeddedPrefix:total_"`

	// Arqueo stays empty until the session is closed.
	Arqueo ResultadoArqueo `gorm:"embedded;embeddedPrefix:arqueo_"`

	OpenedAt time.Time
	ClosedAt *time.Time
}

func (SesionCaja) TableName() string { return "sesiones_caja" }

// Abierta reports whether ventas can still settle against the session.
func (s *SesionCaja) Abierta() bool { return s.Estado == "abierta" }

// TotalesCaja is both the running totals of a session and the signed delta
// applied to them.
type TotalesCaja struct {
	Ventas   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Efectivo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Tarjeta  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Pix      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Otros    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// PorMetodo is Efectivo+Tarjeta+Pix+Otros, which equals Ventas when every
// delta came from a balanced payment split.
func (t TotalesCaja) PorMetodo() decimal.Decimal {
	return t.Efectivo.Add(t.Tarjeta).Add(t.Pix).Add(t.Otros)
}

// ResultadoArqueo is the blind count recorded when the session closes.
type ResultadoArqueo struct {
	Esperado      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Declarado     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Desvio        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DesvioPct     *decimal.Decimal `gorm:"type:decimal(7,2)"`
	Clasificacion *string          `gorm:"type:varchar(20)"`
	Observaciones *string
}

// MovimientoCaja is one append-only line of the till ledger. Corrections are
// new lines with the opposite sign.
type MovimientoCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo         string          `gorm:"type:varchar(20);not null"`
	MetodoPago   *string         `gorm:"type:varchar(20)"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion  string          `gorm:"not null"`
	ReferenciaID *uuid.UUID      `gorm:"type:uuid"` // venta that produced it, if any
	CreatedAt    time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
