package service

import (
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance between tendered payments and a venta's total.
var Epsilon = decimal.RequireFromString("0.01")

var cien = decimal.NewFromInt(100)

// calcularLinea returns subtotal and total of a line. Descuento is not clamped;
// callers reject a descuento larger than the subtotal before calling.
func calcularLinea(precio decimal.Decimal, cantidad int, descuento decimal.Decimal) (subtotal, total decimal.Decimal) {
	subtotal = precio.Mul(decimal.NewFromInt(int64(cantidad))).Round(2)
	return subtotal, subtotal.Sub(descuento)
}

// RecalcularTotales rebuilds Subtotal, DescuentoItems, Descuento and Total of v
// from its non-cancelled items and the ticket-level discounts already set on it.
// It never accumulates: calling it twice yields the same result.
func RecalcularTotales(v *model.Venta) {
	subtotal, descItems := decimal.Zero, decimal.Zero
	for _, it := range v.Items {
		if it.Cancelado {
			continue
		}
		subtotal = subtotal.Add(it.Subtotal)
		descItems = descItems.Add(it.Descuento)
	}
	v.Subtotal = subtotal
	v.DescuentoItems = descItems
	v.Descuento = descItems.Add(v.DescuentoVenta).Add(v.DescuentoCupon).Add(v.DescuentoFidelidad)
	v.Total = subtotal.Sub(v.Descuento).Add(v.CargoAdicional)
}

// baseCupon is the amount a coupon is validated against: what is left after
// item and ticket discounts, never below zero.
func baseCupon(v *model.Venta, descuentoVenta decimal.Decimal) decimal.Decimal {
	base := v.Subtotal.Sub(v.DescuentoItems).Sub(descuentoVenta)
	if base.IsNegative() {
		return decimal.Zero
	}
	return base
}

func sumaPagos(pagos []model.VentaPago) decimal.Decimal {
	suma := decimal.Zero
	for _, p := range pagos {
		suma = suma.Add(p.Monto)
	}
	return suma
}

// pagosCoinciden reports whether the tendered sum reconciles to total within Epsilon.
func pagosCoinciden(pagos []model.VentaPago, total decimal.Decimal) bool {
	return sumaPagos(pagos).Sub(total).Abs().LessThanOrEqual(Epsilon)
}

// totalesDePagos builds the till delta for a venta's payments. Debit and credit
// both land in Tarjeta. signo is +1 on close and -1 on anulación or reapertura.
func totalesDePagos(total decimal.Decimal, pagos []model.VentaPago, signo int64) model.TotalesCaja {
	d := model.TotalesCaja{Ventas: total}
	for _, p := range pagos {
		switch p.Metodo {
		case model.MetodoEfectivo:
			d.Efectivo = d.Efectivo.Add(p.Monto)
		case model.MetodoDebito, model.MetodoCredito:
			d.Tarjeta = d.Tarjeta.Add(p.Monto)
		case model.MetodoPix:
			d.Pix = d.Pix.Add(p.Monto)
		default:
			d.Otros = d.Otros.Add(p.Monto)
		}
	}
	s := decimal.NewFromInt(signo)
	d.Ventas = d.Ventas.Mul(s)
	d.Efectivo = d.Efectivo.Mul(s)
	d.Tarjeta = d.Tarjeta.Mul(s)
	d.Pix = d.Pix.Mul(s)
	d.Otros = d.Otros.Mul(s)
	return d
}

// baseElegible is the part of the chargeable amount (Total minus CargoAdicional)
// attributable to the items for which elegible returns true. Ticket-level
// discounts shrink it in proportion to the eligible share of the item totals.
func baseElegible(v *model.Venta, elegible func(model.VentaItem) bool) decimal.Decimal {
	todos, elegibles := decimal.Zero, decimal.Zero
	for _, it := range v.Items {
		if it.Cancelado {
			continue
		}
		todos = todos.Add(it.Total)
		if elegible(it) {
			elegibles = elegibles.Add(it.Total)
		}
	}
	neto := v.Total.Sub(v.CargoAdicional)
	if !todos.IsPositive() || !elegibles.IsPositive() || !neto.IsPositive() {
		return decimal.Zero
	}
	return elegibles.Mul(neto).Div(todos).Round(2)
}

// PuntosPorCompra is floor(base * PuntosPorReal) when the program is active and
// base reaches the configured minimum.
func PuntosPorCompra(cfg model.ConfigFidelidad, base decimal.Decimal) int {
	if !cfg.Activo || !base.IsPositive() || base.LessThan(cfg.CompraMinimaPuntos) {
		return 0
	}
	return int(base.Mul(cfg.PuntosPorReal).Floor().IntPart())
}

// CashbackPorCompra is base * porcentaje / 100 rounded to cents and capped by
// CashbackMaximoPorCompra.
func CashbackPorCompra(cfg model.ConfigCashback, base decimal.Decimal) decimal.Decimal {
	if !cfg.Activo || !base.IsPositive() || base.LessThan(cfg.CompraMinimaCashback) {
		return decimal.Zero
	}
	monto := base.Mul(cfg.PorcentajeCashback).Div(cien).Round(2)
	if cfg.CashbackMaximoPorCompra != nil && monto.GreaterThan(*cfg.CashbackMaximoPorCompra) {
		monto = *cfg.CashbackMaximoPorCompra
	}
	return monto
}

// DistribuirPuntos splits puntos across the eligible, non-cancelled items in
// proportion to each item's share of the eligible total. Each share is floored
// and the last eligible item takes the remainder, so the result sums to puntos.
// The returned map is keyed by item ID.
func DistribuirPuntos(items []model.VentaItem, elegible func(model.VentaItem) bool, puntos int) map[uuid.UUID]int {
	reparto := map[uuid.UUID]int{}
	if puntos <= 0 {
		return reparto
	}
	var candidatos []model.VentaItem
	total := decimal.Zero
	for _, it := range items {
		if it.Cancelado || !elegible(it) {
			continue
		}
		candidatos = append(candidatos, it)
		total = total.Add(it.Total)
	}
	if len(candidatos) == 0 {
		return reparto
	}
	asignados := 0
	for i, it := range candidatos {
		if i == len(candidatos)-1 {
			reparto[it.ID] = puntos - asignados
			break
		}
		share := 0
		if total.IsPositive() {
			share = int(decimal.NewFromInt(int64(puntos)).Mul(it.Total).Div(total).Floor().IntPart())
		}
		reparto[it.ID] = share
		asignados += share
	}
	return reparto
}
