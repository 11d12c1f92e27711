package dto

import "github.com/shopspring/decimal"

type CrearCuponRequest struct {
	Codigo          string           `json:"codigo"           validate:"required,min=2,max=40"`
	Descripcion     *string          `json:"descripcion"`
	Tipo            string           `json:"tipo"             validate:"required,oneof=porcentaje fijo"`
	Valor           decimal.Decimal  `json:"valor"            validate:"required,gt=0"`
	CompraMinima    *decimal.Decimal `json:"compra_minima"`
	DescuentoMaximo *decimal.Decimal `json:"descuento_maximo"`
	LimiteUso       *int             `json:"limite_uso"       validate:"omitempty,min=1"`
	ValidoDesde     *string          `json:"valido_desde"     validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ValidoHasta     *string          `json:"valido_hasta"     validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type ValidarCuponRequest struct {
	Codigo    string          `json:"codigo"     validate:"required"`
	Base      decimal.Decimal `json:"base"       validate:"min=0"`
	ClienteID string          `json:"cliente_id" validate:"required,uuid"`
}

type CambiarEstadoCuponRequest struct {
	Estado string `json:"estado" validate:"required,oneof=activo inactivo vencido"`
}

type CuponResponse struct {
	ID              string           `json:"id"`
	Codigo          string           `json:"codigo"`
	Descripcion     *string          `json:"descripcion"`
	Tipo            string           `json:"tipo"`
	Valor           decimal.Decimal  `json:"valor"`
	CompraMinima    *decimal.Decimal `json:"compra_minima"`
	DescuentoMaximo *decimal.Decimal `json:"descuento_maximo"`
	LimiteUso       *int             `json:"limite_uso"`
	ValidoDesde     *string          `json:"valido_desde"`
	ValidoHasta     *string          `json:"valido_hasta"`
	CantidadUsos    int              `json:"cantidad_usos"`
	Estado          string           `json:"estado"`
}

type ValidarCuponResponse struct {
	Cupon     CuponResponse   `json:"cupon"`
	Descuento decimal.Decimal `json:"descuento"`
}
