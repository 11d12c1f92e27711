package dto

import "github.com/shopspring/decimal"

type AbrirCajaRequest struct {
	PuntoDeVenta int             `json:"punto_de_venta" validate:"required,min=1"`
	Operador     string          `json:"operador"       validate:"required"`
	MontoInicial decimal.Decimal `json:"monto_inicial"  validate:"min=0"`
}

// DeclaracionArqueo is what the operator counted, per payment family. The
// expected amounts are never shown before it is submitted.
type DeclaracionArqueo struct {
	Efectivo decimal.Decimal `json:"efectivo" validate:"min=0"`
	Tarjeta  decimal.Decimal `json:"tarjeta"  validate:"min=0"`
	Pix      decimal.Decimal `json:"pix"      validate:"min=0"`
	Otros    decimal.Decimal `json:"otros"    validate:"min=0"`
}

type ArqueoRequest struct {
	SesionCajaID  string            `json:"sesion_caja_id" validate:"required,uuid"`
	Declaracion   DeclaracionArqueo `json:"declaracion"    validate:"required"`
	Observaciones *string           `json:"observaciones"`
}

type MovimientoManualRequest struct {
	SesionCajaID string          `json:"sesion_caja_id" validate:"required,uuid"`
	Tipo         string          `json:"tipo"           validate:"required,oneof=ingreso_manual egreso_manual"`
	MetodoPago   string          `json:"metodo_pago"    validate:"required,oneof=efectivo debito credito pix otro"`
	Monto        decimal.Decimal `json:"monto"          validate:"required,gt=0"`
	Descripcion  string          `json:"descripcion"    validate:"required,min=3"`
}

// MontosPorMetodo groups debito and credito under Tarjeta, the way the till
// drawer is counted.
type MontosPorMetodo struct {
	Efectivo decimal.Decimal `json:"efectivo"`
	Tarjeta  decimal.Decimal `json:"tarjeta"`
	Pix      decimal.Decimal `json:"pix"`
	Otros    decimal.Decimal `json:"otros"`
	Total    decimal.Decimal `json:"total"`
}

type DesvioResponse struct {
	Monto         decimal.Decimal `json:"monto"`
	Porcentaje    decimal.Decimal `json:"porcentaje"`
	Clasificacion string          `json:"clasificacion"`
}

type ArqueoResponse struct {
	SesionCajaID   string          `json:"sesion_caja_id"`
	Estado         string          `json:"estado"`
	MontoEsperado  MontosPorMetodo `json:"monto_esperado"`
	MontoDeclarado MontosPorMetodo `json:"monto_declarado"`
	Desvio         DesvioResponse  `json:"desvio"`
}

// ReporteCajaResponse is the live view of a session. Desvio, MontoDeclarado
// and ClosedAt stay null until the arqueo.
type ReporteCajaResponse struct {
	SesionCajaID string          `json:"sesion_caja_id"`
	PuntoDeVenta int             `json:"punto_de_venta"`
	Operador     string          `json:"operador"`
	Estado       string          `json:"estado"`
	OpenedAt     string          `json:"opened_at"`
	ClosedAt     *string         `json:"closed_at"`
	MontoInicial decimal.Decimal `json:"monto_inicial"`

	TotalVentas   decimal.Decimal `json:"total_ventas"`
	Ventas        MontosPorMetodo `json:"ventas"`
	MontoEsperado MontosPorMetodo `json:"monto_esperado"`

	MontoDeclarado *decimal.Decimal `json:"monto_declarado"`
	Desvio         *DesvioResponse  `json:"desvio"`
	Observaciones  *string          `json:"observaciones"`
}

type MovimientoCajaResponse struct {
	ID           string          `json:"id"`
	Tipo         string          `json:"tipo"`
	MetodoPago   *string         `json:"metodo_pago"`
	Monto        decimal.Decimal `json:"monto"`
	Descripcion  string          `json:"descripcion"`
	ReferenciaID *string         `json:"referencia_id"`
	CreatedAt    string          `json:"created_at"`
}
