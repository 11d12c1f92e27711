package dto

import "github.com/shopspring/decimal"

// ─── Fidelidad ───────────────────────────────────────────────────────────────

type AjustePuntosRequest struct {
	Puntos int    `json:"puntos" validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
	Actor  string `json:"actor"  validate:"required"`
}

type CanjeRecompensaRequest struct {
	Puntos      int    `json:"puntos"      validate:"required,gt=0"`
	Descripcion string `json:"descripcion" validate:"required,min=3"`
	Actor       string `json:"actor"       validate:"required"`
}

type SaldoFidelidadResponse struct {
	ClienteID string `json:"cliente_id"`
	Puntos    int    `json:"puntos"`
}

type TransaccionFidelidadResponse struct {
	ID             string  `json:"id"`
	Tipo           string  `json:"tipo"`
	Puntos         int     `json:"puntos"`
	SaldoPosterior int     `json:"saldo_posterior"`
	VentaID        *string `json:"venta_id"`
	VenceAt        *string `json:"vence_at"`
	Motivo         *string `json:"motivo"`
	CreatedAt      string  `json:"created_at"`
}

// ─── Cashback ────────────────────────────────────────────────────────────────

type AjusteCashbackRequest struct {
	Monto  decimal.Decimal `json:"monto"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3"`
	Actor  string          `json:"actor"  validate:"required"`
}

type CanjeCashbackRequest struct {
	Monto decimal.Decimal `json:"monto" validate:"required,gt=0"`
	Actor string          `json:"actor" validate:"required"`
}

type TransferenciaCashbackRequest struct {
	DestinoID string          `json:"destino_id" validate:"required,uuid"`
	Monto     decimal.Decimal `json:"monto"      validate:"required,gt=0"`
	Actor     string          `json:"actor"      validate:"required"`
}

type SaldoCashbackResponse struct {
	ClienteID string          `json:"cliente_id"`
	Saldo     decimal.Decimal `json:"saldo"`
}

type TransaccionCashbackResponse struct {
	ID             string          `json:"id"`
	Tipo           string          `json:"tipo"`
	Monto          decimal.Decimal `json:"monto"`
	SaldoPosterior decimal.Decimal `json:"saldo_posterior"`
	VentaID        *string         `json:"venta_id"`
	VenceAt        *string         `json:"vence_at"`
	Motivo         *string         `json:"motivo"`
	CreatedAt      string          `json:"created_at"`
}

// ─── Configuración ───────────────────────────────────────────────────────────

// ConfigFidelidadRequest updates the loyalty program. Omitted fields keep the
// stored value, or the default on the first write.
type ConfigFidelidadRequest struct {
	PuntosPorReal         *decimal.Decimal `json:"puntos_por_real"`
	CompraMinimaPuntos    *decimal.Decimal `json:"compra_minima_puntos"`
	DiasVencimientoPuntos *int             `json:"dias_vencimiento_puntos" validate:"omitempty,min=0"`
	MinimoPuntosCanje     *int             `json:"minimo_puntos_canje"     validate:"omitempty,min=0"`
	ValorCanjePunto       *decimal.Decimal `json:"valor_canje_punto"`
	Activo                *bool            `json:"activo"`
	AplicarATodos         *bool            `json:"aplicar_a_todos"`
}

type ConfigFidelidadResponse struct {
	PuntosPorReal         decimal.Decimal `json:"puntos_por_real"`
	CompraMinimaPuntos    decimal.Decimal `json:"compra_minima_puntos"`
	DiasVencimientoPuntos int             `json:"dias_vencimiento_puntos"`
	MinimoPuntosCanje     int             `json:"minimo_puntos_canje"`
	ValorCanjePunto       decimal.Decimal `json:"valor_canje_punto"`
	Activo                bool            `json:"activo"`
	AplicarATodos         bool            `json:"aplicar_a_todos"`
}

// ConfigCashbackRequest updates the cashback program with the same partial
// semantics as ConfigFidelidadRequest.
type ConfigCashbackRequest struct {
	PorcentajeCashback      *decimal.Decimal `json:"porcentaje_cashback"`
	CompraMinimaCashback    *decimal.Decimal `json:"compra_minima_cashback"`
	CashbackMaximoPorCompra *decimal.Decimal `json:"cashback_maximo_por_compra"`
	DiasVencimientoCashback *int             `json:"dias_vencimiento_cashback" validate:"omitempty,min=0"`
	MinimoCanjeCashback     *decimal.Decimal `json:"minimo_canje_cashback"`
	Activo                  *bool            `json:"activo"`
	AplicarATodos           *bool            `json:"aplicar_a_todos"`
}

type ConfigCashbackResponse struct {
	PorcentajeCashback      decimal.Decimal  `json:"porcentaje_cashback"`
	CompraMinimaCashback    decimal.Decimal  `json:"compra_minima_cashback"`
	CashbackMaximoPorCompra *decimal.Decimal `json:"cashback_maximo_por_compra"`
	DiasVencimientoCashback int              `json:"dias_vencimiento_cashback"`
	MinimoCanjeCashback     decimal.Decimal  `json:"minimo_canje_cashback"`
	Activo                  bool             `json:"activo"`
	AplicarATodos           bool             `json:"aplicar_a_todos"`
}

// VencimientoResponse reports what an expiration sweep did or enqueued.
type VencimientoResponse struct {
	Encolados []string `json:"encolados"`
}

type ReencolarResponse struct {
	Reencolados int `json:"reencolados"`
}
