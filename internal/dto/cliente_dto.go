package dto

import "github.com/shopspring/decimal"

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=120"`
	Documento *string `json:"documento" validate:"omitempty,max=20"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=30"`
}

type ClienteResponse struct {
	ID                  string          `json:"id"`
	Nombre              string          `json:"nombre"`
	Documento           *string         `json:"documento"`
	Email               *string         `json:"email"`
	Telefono            *string         `json:"telefono"`
	PuntosFidelidad     int             `json:"puntos_fidelidad"`
	SaldoCashback       decimal.Decimal `json:"saldo_cashback"`
	CantidadCompras     int             `json:"cantidad_compras"`
	TotalCompras        decimal.Decimal `json:"total_compras"`
	TotalCashbackGanado decimal.Decimal `json:"total_cashback_ganado"`
}
