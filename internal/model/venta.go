package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una venta (ticket de PDV o comanda).
const (
	VentaAbierta = "abierta"
	VentaCerrada = "cerrada"
	VentaAnulada = "anulada"
)

// Tipos de venta.
const (
	TipoVenta   = "venta"
	TipoComanda = "comanda"
)

// Métodos de pago aceptados en VentaPago.Metodo.
const (
	MetodoEfectivo = "efectivo"
	MetodoDebito   = "debito"
	MetodoCredito  = "credito"
	MetodoPix      = "pix"
	MetodoOtro     = "otro"
)

// Venta is the unit checkout settlement operates on: a PDV sale or a running-tab comanda.
// Invariant while not anulada: Total = Subtotal - Descuento + CargoAdicional, Total >= 0.
// Descuento = DescuentoItems + DescuentoVenta + DescuentoCupon + DescuentoFidelidad.
type Venta struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero       int        `gorm:"not null;uniqueIndex:idx_ventas_fecha_numero"`
	Fecha        time.Time  `gorm:"type:date;not null;uniqueIndex:idx_ventas_fecha_numero"`
	Tipo         string     `gorm:"type:varchar(20);not null;default:'venta'"`
	Mesa         *string    `gorm:"type:varchar(20)"`
	Estado       string     `gorm:"type:varchar(20);not null;default:'abierta';index"`
	SesionCajaID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClienteID    *uuid.UUID `gorm:"type:uuid;index"`

	Subtotal           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DescuentoItems     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DescuentoVenta     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DescuentoCupon     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DescuentoFidelidad decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Descuento          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CargoAdicional     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CuponID        *uuid.UUID      `gorm:"type:uuid"`
	PuntosGanados  int             `gorm:"not null;default:0"`
	PuntosUsados   int             `gorm:"not null;default:0"`
	CashbackGanado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	AbiertaAt  time.Time
	CerradaAt  *time.Time
	CerradaPor *string

	// Ajuste: set whenever a cerrada/anulada venta is mutated (reapertura, anulación).
	Ajustada     bool `gorm:"not null;default:false"`
	MotivoAjuste *string
	AjustadaPor  *string
	AjustadaAt   *time.Time

	MotivoAnulacion *string
	AnuladaPor      *string
	AnuladaAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
	Pagos []VentaPago `gorm:"foreignKey:VentaID"`
}

// ItemsActivos returns the non-cancelled line items, preserving order.
func (v *Venta) ItemsActivos() []VentaItem {
	activos := make([]VentaItem, 0, len(v.Items))
	for _, it := range v.Items {
		if !it.Cancelado {
			activos = append(activos, it)
		}
	}
	return activos
}

// VentaItem is a line of a Venta. Nombre, precio and costo are snapshotted when the item is added.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	NombreProducto string          `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioCosto    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Cantidad       int             `gorm:"not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PuntosGanados  int             `gorm:"not null;default:0"`

	Cancelado         bool `gorm:"not null;default:false"`
	MotivoCancelacion *string
	CanceladoPor      *string
	CanceladoAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VentaItem) TableName() string { return "venta_items" }

// VentaPago is one tendered payment. Deleted when the venta is reopened.
type VentaPago struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Metodo    string          `gorm:"type:varchar(20);not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

func (VentaPago) TableName() string { return "venta_pagos" }

// ContadorVenta holds the last ticket number handed out for a calendar day.
type ContadorVenta struct {
	Fecha  time.Time `gorm:"type:date;primaryKey"`
	Ultimo int       `gorm:"not null"`
}

func (ContadorVenta) TableName() string { return "contadores_venta" }
