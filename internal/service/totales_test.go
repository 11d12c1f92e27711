package service

import (
	"testing"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(precio string, cantidad int, descuento string) model.VentaItem {
	sub, tot := calcularLinea(d(precio), cantidad, d(descuento))
	return model.VentaItem{ID: uuid.New(), PrecioUnitario: d(precio), Cantidad: cantidad, Subtotal: sub, Descuento: d(descuento), Total: tot}
}

func todos(model.VentaItem) bool { return true }

func TestRecalcularTotales_IgnoraCancelados(t *testing.T) {
	cancelado := item("99", 1, "0")
	cancelado.Cancelado = true
	v := &model.Venta{
		Items:          []model.VentaItem{item("10", 3, "2"), item("2.50", 2, "0"), cancelado},
		DescuentoVenta: d("1"),
		DescuentoCupon: d("3"),
		CargoAdicional: d("4"),
	}

	RecalcularTotales(v)
	RecalcularTotales(v)

	assert.True(t, d("35").Equal(v.Subtotal))
	assert.True(t, d("2").Equal(v.DescuentoItems))
	assert.True(t, d("6").Equal(v.Descuento))
	assert.True(t, d("33").Equal(v.Total))
}

func TestBaseCupon_NoNegativa(t *testing.T) {
	v := &model.Venta{Items: []model.VentaItem{item("10", 1, "0")}}
	RecalcularTotales(v)

	assert.True(t, d("7").Equal(baseCupon(v, d("3"))))
	assert.True(t, baseCupon(v, d("15")).IsZero())
}

func TestPagosCoinciden(t *testing.T) {
	pagos := []model.VentaPago{{Metodo: model.MetodoEfectivo, Monto: d("10")}, {Metodo: model.MetodoPix, Monto: d("5.01")}}

	assert.True(t, pagosCoinciden(pagos, d("15")))
	assert.True(t, pagosCoinciden(pagos, d("15.02")))
	assert.False(t, pagosCoinciden(pagos, d("15.03")))
	assert.False(t, pagosCoinciden(pagos, d("14.99")))
}

func TestTotalesDePagos_Signo(t *testing.T) {
	pagos := []model.VentaPago{
		{Metodo: model.MetodoEfectivo, Monto: d("10")},
		{Metodo: model.MetodoDebito, Monto: d("4")},
		{Metodo: model.MetodoCredito, Monto: d("6")},
		{Metodo: model.MetodoOtro, Monto: d("1")},
	}

	suma := totalesDePagos(d("21"), pagos, 1)
	resta := totalesDePagos(d("21"), pagos, -1)

	assert.True(t, d("10").Equal(suma.Tarjeta))
	assert.True(t, d("-10").Equal(resta.Tarjeta))
	assert.True(t, d("-21").Equal(resta.Ventas))
	assert.True(t, d("1").Equal(suma.Otros))
	assert.True(t, suma.Pix.IsZero())
}

func TestPuntosPorCompra(t *testing.T) {
	cfg := model.DefaultConfigFidelidad()
	cfg.CompraMinimaPuntos = d("10")

	assert.Equal(t, 29, PuntosPorCompra(cfg, d("29.99")))
	assert.Equal(t, 0, PuntosPorCompra(cfg, d("9.99")))

	cfg.Activo = false
	assert.Equal(t, 0, PuntosPorCompra(cfg, d("100")))
}

func TestCashbackPorCompra(t *testing.T) {
	cfg := model.DefaultConfigCashback()
	assert.True(t, d("0.67").Equal(CashbackPorCompra(cfg, d("33.33"))))

	tope := d("0.50")
	cfg.CashbackMaximoPorCompra = &tope
	assert.True(t, tope.Equal(CashbackPorCompra(cfg, d("33.33"))))
}

func TestBaseElegible_Proporcional(t *testing.T) {
	a, b := item("10", 1, "0"), item("30", 1, "0")
	v := &model.Venta{Items: []model.VentaItem{a, b}, DescuentoVenta: d("4"), CargoAdicional: d("5")}
	RecalcularTotales(v)

	soloA := func(it model.VentaItem) bool { return it.ID == a.ID }

	// net chargeable 36 shared 1:3
	assert.True(t, d("9").Equal(baseElegible(v, soloA)))
	assert.True(t, d("36").Equal(baseElegible(v, todos)))
}

func TestDistribuirPuntos_ResiduoAlUltimo(t *testing.T) {
	items := []model.VentaItem{item("10", 1, "0"), item("10", 1, "0"), item("10", 1, "0")}

	reparto := DistribuirPuntos(items, todos, 10)

	assert.Equal(t, 3, reparto[items[0].ID])
	assert.Equal(t, 3, reparto[items[1].ID])
	assert.Equal(t, 4, reparto[items[2].ID])
	assert.Empty(t, DistribuirPuntos(items, todos, 0))
}

func TestDescuentoCupon(t *testing.T) {
	maximo := d("5")
	pct := &model.Cupon{Tipo: model.CuponPorcentaje, Valor: d("15"), DescuentoMaximo: &maximo}
	fijo := &model.Cupon{Tipo: model.CuponFijo, Valor: d("20")}

	assert.True(t, d("1.50").Equal(DescuentoCupon(pct, d("10"))))
	assert.True(t, maximo.Equal(DescuentoCupon(pct, d("100"))))
	assert.True(t, d("12").Equal(DescuentoCupon(fijo, d("12"))))
}
