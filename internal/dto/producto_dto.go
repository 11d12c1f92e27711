package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CodigoBarras      string          `json:"codigo_barras"      validate:"required,min=4,max=18"`
	Nombre            string          `json:"nombre"             validate:"required,min=2,max=120"`
	Categoria         string          `json:"categoria"`
	PrecioCosto       decimal.Decimal `json:"precio_costo"       validate:"min=0"`
	PrecioVenta       decimal.Decimal `json:"precio_venta"       validate:"required,gt=0"`
	ControlaStock     *bool           `json:"controla_stock"`
	StockActual       int             `json:"stock_actual"       validate:"min=0"`
	StockMinimo       int             `json:"stock_minimo"       validate:"min=0"`
	UnidadMedida      string          `json:"unidad_medida"`
	ElegibleFidelidad *bool           `json:"elegible_fidelidad"`
	GeneraCashback    *bool           `json:"genera_cashback"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "true" (default) | "false" | "all"
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type PaginaQuery struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID                string          `json:"id"`
	CodigoBarras      string          `json:"codigo_barras"`
	Nombre            string          `json:"nombre"`
	Categoria         string          `json:"categoria"`
	PrecioCosto       decimal.Decimal `json:"precio_costo"`
	PrecioVenta       decimal.Decimal `json:"precio_venta"`
	ControlaStock     bool            `json:"controla_stock"`
	StockActual       int             `json:"stock_actual"`
	StockMinimo       int             `json:"stock_minimo"`
	UnidadMedida      string          `json:"unidad_medida"`
	ElegibleFidelidad bool            `json:"elegible_fidelidad"`
	GeneraCashback    bool            `json:"genera_cashback"`
	Activo            bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// MovimientoStockResponse is one line of a product's stock ledger.
type MovimientoStockResponse struct {
	ID        string  `json:"id"`
	Tipo      string  `json:"tipo"`
	Delta     int     `json:"delta"`
	Saldo     int     `json:"saldo"`
	Motivo    string  `json:"motivo"`
	VentaID   *string `json:"venta_id"`
	CreatedAt string  `json:"created_at"`
}

type MovimientoStockListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
