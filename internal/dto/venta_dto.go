package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha        string `form:"fecha"`               // YYYY-MM-DD; empty = today
	Estado       string `form:"estado,default=all"` // abierta | cerrada | anulada | all
	SesionCajaID string `form:"sesion_caja_id"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirVentaRequest struct {
	SesionCajaID string  `json:"sesion_caja_id" validate:"required,uuid"`
	ClienteID    *string `json:"cliente_id"     validate:"omitempty,uuid"`
	Mesa         *string `json:"mesa"           validate:"omitempty,max=20"`
	Tipo         string  `json:"tipo"           validate:"omitempty,oneof=venta comanda"`
}

type AgregarItemRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   int             `json:"cantidad"    validate:"required,min=1"`
	Descuento  decimal.Decimal `json:"descuento"   validate:"min=0"`
}

type ActualizarCantidadRequest struct {
	Cantidad int `json:"cantidad" validate:"required,min=1"`
}

type PagoRequest struct {
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo debito credito pix otro"`
	Monto  decimal.Decimal `json:"monto"  validate:"required,gt=0"`
}

type CerrarVentaRequest struct {
	DescuentoVenta decimal.Decimal `json:"descuento_venta"  validate:"min=0"`
	CargoAdicional decimal.Decimal `json:"cargo_adicional"  validate:"min=0"`
	CodigoCupon    *string         `json:"codigo_cupon"     validate:"omitempty,min=2,max=40"`
	Pagos          []PagoRequest   `json:"pagos"            validate:"required,min=1,dive"`
	PuntosACanjear int             `json:"puntos_a_canjear" validate:"min=0"`
	Actor          string          `json:"actor"            validate:"required"`
}

// MotivoRequest is the body of cancel-item, anular and reabrir.
type MotivoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
	Actor  string `json:"actor"  validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Descuento      decimal.Decimal `json:"descuento"`
	Total          decimal.Decimal `json:"total"`
	PuntosGanados  int             `json:"puntos_ganados"`
	Cancelado      bool            `json:"cancelado"`
}

type PagoResponse struct {
	Metodo string          `json:"metodo"`
	Monto  decimal.Decimal `json:"monto"`
}

type VentaResponse struct {
	ID                 string              `json:"id"`
	Numero             int                 `json:"numero"`
	Fecha              string              `json:"fecha"`
	Tipo               string              `json:"tipo"`
	Mesa               *string             `json:"mesa"`
	Estado             string              `json:"estado"`
	SesionCajaID       string              `json:"sesion_caja_id"`
	ClienteID          *string             `json:"cliente_id"`
	Items              []ItemVentaResponse `json:"items"`
	Pagos              []PagoResponse      `json:"pagos"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	DescuentoItems     decimal.Decimal     `json:"descuento_items"`
	DescuentoVenta     decimal.Decimal     `json:"descuento_venta"`
	DescuentoCupon     decimal.Decimal     `json:"descuento_cupon"`
	DescuentoFidelidad decimal.Decimal     `json:"descuento_fidelidad"`
	Descuento          decimal.Decimal     `json:"descuento"`
	CargoAdicional     decimal.Decimal     `json:"cargo_adicional"`
	Total              decimal.Decimal     `json:"total"`
	PuntosGanados      int                 `json:"puntos_ganados"`
	PuntosUsados       int                 `json:"puntos_usados"`
	CashbackGanado     decimal.Decimal     `json:"cashback_ganado"`
	Ajustada           bool                `json:"ajustada"`
	MotivoAjuste       *string             `json:"motivo_ajuste"`
	AbiertaAt          string              `json:"abierta_at"`
	CerradaAt          *string             `json:"cerrada_at"`
}
