package service_test

import (
	"errors"
	"testing"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Abrir / items ────────────────────────────────────────────────────────────

func TestAbrirVenta_NumeracionDiaria(t *testing.T) {
	f := newFixture(t)

	v1 := f.abrir(t, false)
	v2 := f.abrir(t, true)

	assert.Equal(t, 1, v1.Numero)
	assert.Equal(t, 2, v2.Numero)
	assert.Equal(t, "abierta", v1.Estado)
	assert.Equal(t, "venta", v1.Tipo)
	require.NotNil(t, v2.ClienteID)
	assert.Equal(t, f.cliente, *v2.ClienteID)
}

func TestAbrirVenta_ComandaConMesa(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.Ventas.AbrirVenta(f.ctx, dto.AbrirVentaRequest{SesionCajaID: f.sesion, Tipo: "comanda", Mesa: ptr("7")})
	require.NoError(t, err)
	assert.Equal(t, "comanda", v.Tipo)
	require.NotNil(t, v.Mesa)
	assert.Equal(t, "7", *v.Mesa)
}

func TestAbrirVenta_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	id := uuid.NewString()

	_, err := f.svc.Ventas.AbrirVenta(f.ctx, dto.AbrirVentaRequest{SesionCajaID: f.sesion, ClienteID: &id})
	requireKind(t, err, service.KindNotFound)
}

func TestAbrirVenta_SesionCerrada(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Caja.Arqueo(f.ctx, dto.ArqueoRequest{
		SesionCajaID: f.sesion,
		Declaracion:  dto.DeclaracionArqueo{Efectivo: dec("100")},
	})
	require.NoError(t, err)

	_, err = f.svc.Ventas.AbrirVenta(f.ctx, dto.AbrirVentaRequest{SesionCajaID: f.sesion})
	requireKind(t, err, service.KindConflicto)
}

func TestAgregarItem_SnapshotYStock(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)

	v = f.agregar(t, v.ID, f.helado, 3)

	require.Len(t, v.Items, 1)
	it := v.Items[0]
	assert.Equal(t, "Helado 1 bola", it.Producto)
	assertDec(t, "10", it.PrecioUnitario)
	assertDec(t, "30", it.Subtotal)
	assertDec(t, "30", v.Total)
	assert.Equal(t, 47, f.stock(t, f.helado))
}

func TestAgregarItem_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)

	_, err := f.svc.Ventas.AgregarItem(f.ctx, uuid.MustParse(v.ID), dto.AgregarItemRequest{ProductoID: f.helado, Cantidad: 51})
	requireKind(t, err, service.KindRecursoInsuficiente)
	assert.Equal(t, 50, f.stock(t, f.helado))

	actual, err := f.svc.Ventas.ObtenerVenta(f.ctx, uuid.MustParse(v.ID))
	require.NoError(t, err)
	assert.Empty(t, actual.Items)
}

func TestAgregarItem_SinControlDeStock(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)

	v = f.agregar(t, v.ID, f.cono, 500)

	assertDec(t, "1250", v.Total)
	assert.Equal(t, 0, f.stock(t, f.cono))
}

func TestAgregarItem_DescuentoMayorAlSubtotal(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)

	_, err := f.svc.Ventas.AgregarItem(f.ctx, uuid.MustParse(v.ID), dto.AgregarItemRequest{
		ProductoID: f.helado, Cantidad: 1, Descuento: dec("10.01"),
	})
	requireKind(t, err, service.KindValidacion)
	assert.Equal(t, 50, f.stock(t, f.helado))
}

func TestAgregarItem_VentaCerrada(t *testing.T) {
	f := newFixture(t)
	v := f.ventaCerrada(t)

	_, err := f.svc.Ventas.AgregarItem(f.ctx, uuid.MustParse(v.ID), dto.AgregarItemRequest{ProductoID: f.helado, Cantidad: 1})
	requireKind(t, err, service.KindConflicto)
}

func TestActualizarCantidadItem_ReservaYLibera(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)
	v = f.agregar(t, v.ID, f.helado, 3)
	ventaID, itemID := uuid.MustParse(v.ID), uuid.MustParse(v.Items[0].ID)

	v, err := f.svc.Ventas.ActualizarCantidadItem(f.ctx, ventaID, itemID, 5)
	require.NoError(t, err)
	assertDec(t, "50", v.Total)
	assert.Equal(t, 45, f.stock(t, f.helado))

	v, err = f.svc.Ventas.ActualizarCantidadItem(f.ctx, ventaID, itemID, 1)
	require.NoError(t, err)
	assertDec(t, "10", v.Total)
	assert.Equal(t, 49, f.stock(t, f.helado))
}

func TestCancelarItem_DevuelveStockYRecalcula(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)
	f.agregar(t, v.ID, f.helado, 3)
	v = f.agregar(t, v.ID, f.cono, 2)
	ventaID, itemID := uuid.MustParse(v.ID), uuid.MustParse(v.Items[0].ID)

	v, err := f.svc.Ventas.CancelarItem(f.ctx, ventaID, itemID, "cliente desistió", "ana")
	require.NoError(t, err)
	assert.True(t, v.Items[0].Cancelado)
	assertDec(t, "5", v.Total)
	assert.Equal(t, 50, f.stock(t, f.helado))

	_, err = f.svc.Ventas.CancelarItem(f.ctx, ventaID, itemID, "otra vez", "ana")
	requireKind(t, err, service.KindConflicto)

	_, err = f.svc.Ventas.CancelarItem(f.ctx, ventaID, uuid.New(), "no existe", "ana")
	requireKind(t, err, service.KindNotFound)
}

func TestCancelarItem_MotivoObligatorio(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)
	v = f.agregar(t, v.ID, f.helado, 1)

	_, err := f.svc.Ventas.CancelarItem(f.ctx, uuid.MustParse(v.ID), uuid.MustParse(v.Items[0].ID), "  ", "ana")
	requireKind(t, err, service.KindValidacion)
}

// ── Cerrar ───────────────────────────────────────────────────────────────────

func TestCerrarVenta_ConClienteGanaPuntosYCashback(t *testing.T) {
	f := newFixture(t)

	v := f.ventaCerrada(t)

	assert.Equal(t, "cerrada", v.Estado)
	assertDec(t, "30", v.Total)
	assert.Equal(t, 30, v.PuntosGanados)
	assertDec(t, "0.60", v.CashbackGanado)
	require.Len(t, v.Pagos, 1)
	assert.NotNil(t, v.CerradaAt)
	assert.Equal(t, 30, v.Items[0].PuntosGanados)

	c := f.clienteActual(t, f.cliente)
	assert.Equal(t, 30, c.PuntosFidelidad)
	assertDec(t, "0.60", c.SaldoCashback)
	assert.Equal(t, 1, c.CantidadCompras)
	assertDec(t, "30", c.TotalCompras)
	assertDec(t, "0.60", c.TotalCashbackGanado)
	f.assertLedgersCuadran(t, f.cliente)

	caja := f.caja(t)
	assertDec(t, "30", caja.TotalVentas)
	assertDec(t, "30", caja.Ventas.Efectivo)
	assertDec(t, "130", caja.MontoEsperado.Efectivo)
}

func TestCerrarVenta_SinClienteNoGeneraRecompensas(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)
	f.agregar(t, v.ID, f.helado, 2)

	v, err := f.cerrar(v.ID, dto.CerrarVentaRequest{Pagos: []dto.PagoRequest{
		{Metodo: "debito", Monto: dec("12")},
		{Metodo: "pix", Monto: dec("8")},
	}})
	require.NoError(t, err)
	assert.Equal(t, 0, v.PuntosGanados)
	assert.True(t, v.CashbackGanado.IsZero())

	caja := f.caja(t)
	assertDec(t, "12", caja.Ventas.Tarjeta)
	assertDec(t, "8", caja.Ventas.Pix)
	assertDec(t, "20", caja.TotalVentas)
}

func TestCerrarVenta_DescuentoYCargo(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)
	f.agregar(t, v.ID, f.helado, 3)

	v, err := f.cerrar(v.ID, dto.CerrarVentaRequest{
		DescuentoVenta: dec("5"),
		CargoAdicional: dec("2.50"),
		Pagos:          efectivo("27.50"),
	})
	require.NoError(t, err)
	assertDec(t, "5", v.Descuento)
	assertDec(t, "27.50", v.Total)
}

func TestCerrarVenta_PagoNoCoincide(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)

	_, err := f.cerrar(v.ID, dto.CerrarVentaRequest{Pagos: efectivo("25")})
	requireKind(t, err, service.KindPagoNoCoincide)
	assert.True(t, errors.Is(err, service.ErrPagoNoCoincide))

	actual, err := f.svc.Ventas.ObtenerVenta(f.ctx, uuid.MustParse(v.ID))
	require.NoError(t, err)
	assert.Equal(t, "abierta", actual.Estado)
	assert.Empty(t, actual.Pagos)
	assert.Equal(t, 0, f.clienteActual(t, f.cliente).PuntosFidelidad)
}

func TestCerrarVenta_ToleranciaDeUnCentavo(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)
	f.agregar(t, v.ID, f.helado, 3)

	_, err := f.cerrar(v.ID, dto.CerrarVentaRequest{Pagos: efectivo("30.01")})
	require.NoError(t, err)
}

func TestCerrarVenta_Validaciones(t *testing.T) {
	f := newFixture(t)

	vacia := f.abrir(t, true)
	_, err := f.cerrar(vacia.ID, dto.CerrarVentaRequest{Pagos: efectivo("1")})
	requireKind(t, err, service.KindValidacion)

	sinPagos := f.abrir(t, true)
	f.agregar(t, sinPagos.ID, f.helado, 1)
	_, err = f.cerrar(sinPagos.ID, dto.CerrarVentaRequest{})
	requireKind(t, err, service.KindValidacion)

	_, err = f.cerrar(sinPagos.ID, dto.CerrarVentaRequest{Pagos: []dto.PagoRequest{{Metodo: "cheque", Monto: dec("10")}}})
	requireKind(t, err, service.KindValidacion)

	anonima := f.abrir(t, false)
	f.agregar(t, anonima.ID, f.helado, 1)
	_, err = f.cerrar(anonima.ID, dto.CerrarVentaRequest{CodigoCupon: ptr("PROMO10"), Pagos: efectivo("10")})
	requireKind(t, err, service.KindValidacion)
	_, err = f.cerrar(anonima.ID, dto.CerrarVentaRequest{PuntosACanjear: 100, Pagos: efectivo("10")})
	requireKind(t, err, service.KindValidacion)

	_, err = f.cerrar(uuid.NewString(), dto.CerrarVentaRequest{Pagos: efectivo("10")})
	requireKind(t, err, service.KindNotFound)
}

func TestCerrarVenta_YaCerrada(t *testing.T) {
	f := newFixture(t)
	v := f.ventaCerrada(t)

	_, err := f.cerrar(v.ID, dto.CerrarVentaRequest{Pagos: efectivo("30")})
	requireKind(t, err, service.KindConflicto)
}

func TestCerrarVenta_ConCuponPorcentual(t *testing.T) {
	f := newFixture(t)
	cupon := f.crearCupon(t, dto.CrearCuponRequest{Codigo: "promo10", Tipo: "porcentaje", Valor: dec("10")})
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)

	v, err := f.cerrar(v.ID, dto.CerrarVentaRequest{CodigoCupon: ptr("PROMO10"), Pagos: efectivo("27")})
	require.NoError(t, err)
	assertDec(t, "3", v.DescuentoCupon)
	assertDec(t, "27", v.Total)
	assert.Equal(t, 27, v.PuntosGanados)
	assertDec(t, "0.54", v.CashbackGanado)

	actual, err := f.svc.Cupones.ObtenerPorCodigo(f.ctx, cupon.Codigo)
	require.NoError(t, err)
	assert.Equal(t, 1, actual.CantidadUsos)
}

func TestCerrarVenta_CuponAgotadoNoSeConsume(t *testing.T) {
	f := newFixture(t)
	f.crearCupon(t, dto.CrearCuponRequest{Codigo: "UNAVEZ", Tipo: "fijo", Valor: dec("5"), LimiteUso: ptr(1)})

	v1 := f.abrir(t, true)
	f.agregar(t, v1.ID, f.helado, 1)
	_, err := f.cerrar(v1.ID, dto.CerrarVentaRequest{CodigoCupon: ptr("unavez"), Pagos: efectivo("5")})
	require.NoError(t, err)

	v2 := f.abrir(t, true)
	f.agregar(t, v2.ID, f.helado, 1)
	_, err = f.cerrar(v2.ID, dto.CerrarVentaRequest{CodigoCupon: ptr("UNAVEZ"), Pagos: efectivo("5")})
	requireKind(t, err, service.KindValidacion)
}

func TestCerrarVenta_CuponCompraMinimaSobreBase(t *testing.T) {
	f := newFixture(t)
	f.crearCupon(t, dto.CrearCuponRequest{Codigo: "MIN30", Tipo: "fijo", Valor: dec("5"), CompraMinima: ptr(dec("30"))})
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)

	// 30 of items minus a 1.00 ticket discount leaves a base of 29
	_, err := f.cerrar(v.ID, dto.CerrarVentaRequest{DescuentoVenta: dec("1"), CodigoCupon: ptr("MIN30"), Pagos: efectivo("24")})
	requireKind(t, err, service.KindValidacion)

	v, err = f.cerrar(v.ID, dto.CerrarVentaRequest{CodigoCupon: ptr("MIN30"), Pagos: efectivo("25")})
	require.NoError(t, err)
	assertDec(t, "25", v.Total)
}

func TestCerrarVenta_CanjeDePuntos(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Fidelidad.Ajustar(f.ctx, uuid.MustParse(f.cliente), dto.AjustePuntosRequest{Puntos: 200, Motivo: "bienvenida", Actor: "ana"})
	require.NoError(t, err)
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)

	v, err = f.cerrar(v.ID, dto.CerrarVentaRequest{PuntosACanjear: 100, Pagos: efectivo("29")})
	require.NoError(t, err)
	assertDec(t, "1", v.DescuentoFidelidad)
	assertDec(t, "29", v.Total)
	assert.Equal(t, 100, v.PuntosUsados)
	assert.Equal(t, 29, v.PuntosGanados)

	c := f.clienteActual(t, f.cliente)
	assert.Equal(t, 129, c.PuntosFidelidad)
	f.assertLedgersCuadran(t, f.cliente)
}

func TestCerrarVenta_CanjeDePuntosConProgramaInactivo(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Fidelidad.Ajustar(f.ctx, uuid.MustParse(f.cliente), dto.AjustePuntosRequest{Puntos: 200, Motivo: "bienvenida", Actor: "ana"})
	require.NoError(t, err)
	_, err = f.svc.Recompensas.GuardarConfigFidelidad(f.ctx, dto.ConfigFidelidadRequest{Activo: ptr(false)})
	require.NoError(t, err)
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)

	v, err = f.cerrar(v.ID, dto.CerrarVentaRequest{PuntosACanjear: 100, Pagos: efectivo("29")})
	require.NoError(t, err)
	assertDec(t, "1", v.DescuentoFidelidad)
	assert.Equal(t, 100, v.PuntosUsados)
	assert.Equal(t, 0, v.PuntosGanados)
	assert.Equal(t, 100, f.clienteActual(t, f.cliente).PuntosFidelidad)
	f.assertLedgersCuadran(t, f.cliente)
}

func TestCerrarVenta_CanjeDePuntosRechazado(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Fidelidad.Ajustar(f.ctx, uuid.MustParse(f.cliente), dto.AjustePuntosRequest{Puntos: 150, Motivo: "bienvenida", Actor: "ana"})
	require.NoError(t, err)
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 1)

	_, err = f.cerrar(v.ID, dto.CerrarVentaRequest{PuntosACanjear: 50, Pagos: efectivo("9.50")})
	requireKind(t, err, service.KindValidacion)

	_, err = f.cerrar(v.ID, dto.CerrarVentaRequest{PuntosACanjear: 200, Pagos: efectivo("8")})
	requireKind(t, err, service.KindRecursoInsuficiente)

	assert.Equal(t, 150, f.clienteActual(t, f.cliente).PuntosFidelidad)
}

func TestCerrarVenta_CanjeDePuntosSuperaLaBase(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Fidelidad.Ajustar(f.ctx, uuid.MustParse(f.cliente), dto.AjustePuntosRequest{Puntos: 5000, Motivo: "migración", Actor: "ana"})
	require.NoError(t, err)
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)

	_, err = f.cerrar(v.ID, dto.CerrarVentaRequest{PuntosACanjear: 3100, Pagos: efectivo("1")})
	requireKind(t, err, service.KindValidacion)
}

func TestCerrarVenta_ProductoNoElegible(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Recompensas.GuardarConfigFidelidad(f.ctx, dto.ConfigFidelidadRequest{AplicarATodos: ptr(false)})
	require.NoError(t, err)
	_, err = f.svc.Recompensas.GuardarConfigCashback(f.ctx, dto.ConfigCashbackRequest{AplicarATodos: ptr(false)})
	require.NoError(t, err)
	agua, err := f.svc.Productos.Crear(f.ctx, dto.CrearProductoRequest{
		CodigoBarras: "7890000000035", Nombre: "Agua", PrecioVenta: dec("10"), StockActual: 10,
		ElegibleFidelidad: ptr(false), GeneraCashback: ptr(false),
	})
	require.NoError(t, err)

	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 1)
	f.agregar(t, v.ID, agua.ID, 1)
	v, err = f.cerrar(v.ID, dto.CerrarVentaRequest{Pagos: efectivo("20")})
	require.NoError(t, err)

	assert.Equal(t, 10, v.PuntosGanados)
	assertDec(t, "0.20", v.CashbackGanado)
	assert.Equal(t, 10, v.Items[0].PuntosGanados)
	assert.Equal(t, 0, v.Items[1].PuntosGanados)
}

func TestCerrarVenta_FallaAlFinalRevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.crearCupon(t, dto.CrearCuponRequest{Codigo: "PROMO10", Tipo: "porcentaje", Valor: dec("10")})
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)
	f.store.SetFalla("Cupones.RegistrarUso", errors.New("conexión perdida"))

	_, err := f.cerrar(v.ID, dto.CerrarVentaRequest{CodigoCupon: ptr("PROMO10"), Pagos: efectivo("27")})
	requireKind(t, err, service.KindInfraestructura)

	actual, err := f.svc.Ventas.ObtenerVenta(f.ctx, uuid.MustParse(v.ID))
	require.NoError(t, err)
	assert.Equal(t, "abierta", actual.Estado)
	assert.Empty(t, actual.Pagos)

	c := f.clienteActual(t, f.cliente)
	assert.Equal(t, 0, c.PuntosFidelidad)
	assert.True(t, c.SaldoCashback.IsZero())
	assert.Equal(t, 0, c.CantidadCompras)
	assert.True(t, f.caja(t).TotalVentas.IsZero())
	f.assertLedgersCuadran(t, f.cliente)

	f.store.SetFalla("Cupones.RegistrarUso", nil)
	_, err = f.cerrar(v.ID, dto.CerrarVentaRequest{CodigoCupon: ptr("PROMO10"), Pagos: efectivo("27")})
	require.NoError(t, err)
}

// ── Anular ───────────────────────────────────────────────────────────────────

func TestAnularVenta_Cerrada(t *testing.T) {
	f := newFixture(t)
	v := f.ventaCerrada(t)

	v, err := f.svc.Ventas.AnularVenta(f.ctx, uuid.MustParse(v.ID), "error de carga", "supervisor")
	require.NoError(t, err)
	assert.Equal(t, "anulada", v.Estado)
	assert.True(t, v.Ajustada)
	assert.Equal(t, 50, f.stock(t, f.helado))

	caja := f.caja(t)
	assert.True(t, caja.TotalVentas.IsZero())
	assert.True(t, caja.Ventas.Efectivo.IsZero())

	c := f.clienteActual(t, f.cliente)
	assert.Equal(t, 0, c.CantidadCompras)
	// rewards already granted stay with the customer
	assert.Equal(t, 30, c.PuntosFidelidad)
	f.assertLedgersCuadran(t, f.cliente)

	_, err = f.svc.Ventas.AnularVenta(f.ctx, uuid.MustParse(v.ID), "de nuevo", "supervisor")
	requireKind(t, err, service.KindConflicto)
}

func TestAnularVenta_Abierta(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)
	f.agregar(t, v.ID, f.helado, 4)

	v, err := f.svc.Ventas.AnularVenta(f.ctx, uuid.MustParse(v.ID), "cliente se fue", "ana")
	require.NoError(t, err)
	assert.Equal(t, "anulada", v.Estado)
	assert.False(t, v.Ajustada)
	assert.Equal(t, 50, f.stock(t, f.helado))
	assert.True(t, f.caja(t).TotalVentas.IsZero())
}

func TestAnularVenta_MotivoObligatorio(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)

	_, err := f.svc.Ventas.AnularVenta(f.ctx, uuid.MustParse(v.ID), "", "ana")
	requireKind(t, err, service.KindValidacion)
}

// ── Reabrir ──────────────────────────────────────────────────────────────────

func TestReabrirVenta_RevierteYPermiteCerrarDeNuevo(t *testing.T) {
	f := newFixture(t)
	cupon := f.crearCupon(t, dto.CrearCuponRequest{Codigo: "PROMO10", Tipo: "porcentaje", Valor: dec("10")})
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)
	v, err := f.cerrar(v.ID, dto.CerrarVentaRequest{CodigoCupon: ptr("PROMO10"), Pagos: efectivo("27")})
	require.NoError(t, err)

	v, err = f.svc.Ventas.ReabrirVenta(f.ctx, uuid.MustParse(v.ID), "faltó un item", "supervisor")
	require.NoError(t, err)
	assert.Equal(t, "abierta", v.Estado)
	assert.True(t, v.Ajustada)
	assert.Empty(t, v.Pagos)
	assert.Nil(t, v.CerradaAt)
	assertDec(t, "30", v.Total)
	assert.Equal(t, 0, v.PuntosGanados)
	assert.Equal(t, 47, f.stock(t, f.helado))

	c := f.clienteActual(t, f.cliente)
	assert.Equal(t, 0, c.PuntosFidelidad)
	assert.True(t, c.SaldoCashback.IsZero())
	assert.Equal(t, 0, c.CantidadCompras)
	assert.True(t, c.TotalCompras.IsZero())
	f.assertLedgersCuadran(t, f.cliente)
	assert.True(t, f.caja(t).TotalVentas.IsZero())

	actual, err := f.svc.Cupones.ObtenerPorCodigo(f.ctx, cupon.Codigo)
	require.NoError(t, err)
	assert.Equal(t, 0, actual.CantidadUsos)

	f.agregar(t, v.ID, f.cono, 2)
	v, err = f.cerrar(v.ID, dto.CerrarVentaRequest{CodigoCupon: ptr("PROMO10"), Pagos: efectivo("31.50")})
	require.NoError(t, err)
	assert.Equal(t, 31, v.PuntosGanados)
	assert.Equal(t, 31, f.clienteActual(t, f.cliente).PuntosFidelidad)
	f.assertLedgersCuadran(t, f.cliente)
	assertDec(t, "31.50", f.caja(t).TotalVentas)
}

func TestReabrirVenta_DevuelvePuntosCanjeados(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Fidelidad.Ajustar(f.ctx, uuid.MustParse(f.cliente), dto.AjustePuntosRequest{Puntos: 100, Motivo: "bienvenida", Actor: "ana"})
	require.NoError(t, err)
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)
	v, err = f.cerrar(v.ID, dto.CerrarVentaRequest{PuntosACanjear: 100, Pagos: efectivo("29")})
	require.NoError(t, err)
	assert.Equal(t, 29, f.clienteActual(t, f.cliente).PuntosFidelidad)

	_, err = f.svc.Ventas.ReabrirVenta(f.ctx, uuid.MustParse(v.ID), "cobro equivocado", "supervisor")
	require.NoError(t, err)
	assert.Equal(t, 100, f.clienteActual(t, f.cliente).PuntosFidelidad)
	f.assertLedgersCuadran(t, f.cliente)
}

func TestReabrirVenta_RecompensasYaUsadas(t *testing.T) {
	f := newFixture(t)
	v := f.ventaCerrada(t)
	_, err := f.svc.Fidelidad.Ajustar(f.ctx, uuid.MustParse(f.cliente), dto.AjustePuntosRequest{Puntos: -20, Motivo: "corrección", Actor: "ana"})
	require.NoError(t, err)

	_, err = f.svc.Ventas.ReabrirVenta(f.ctx, uuid.MustParse(v.ID), "faltó un item", "supervisor")
	requireKind(t, err, service.KindRecursoInsuficiente)

	actual, err := f.svc.Ventas.ObtenerVenta(f.ctx, uuid.MustParse(v.ID))
	require.NoError(t, err)
	assert.Equal(t, "cerrada", actual.Estado)
	assertDec(t, "30", f.caja(t).TotalVentas)
}

func TestReabrirVenta_SoloDesdeCerrada(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)

	_, err := f.svc.Ventas.ReabrirVenta(f.ctx, uuid.MustParse(v.ID), "motivo", "ana")
	requireKind(t, err, service.KindConflicto)

	_, err = f.svc.Ventas.ReabrirVenta(f.ctx, uuid.MustParse(v.ID), "", "ana")
	requireKind(t, err, service.KindValidacion)
}

// ── Listar ───────────────────────────────────────────────────────────────────

func TestListarVentas_PorEstado(t *testing.T) {
	f := newFixture(t)
	f.ventaCerrada(t)
	f.abrir(t, false)

	todas, err := f.svc.Ventas.ListarVentas(f.ctx, dto.VentaFilter{Estado: "all"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), todas.Total)
	assert.Equal(t, 1, todas.Page)
	assert.Equal(t, 50, todas.Limit)

	cerradas, err := f.svc.Ventas.ListarVentas(f.ctx, dto.VentaFilter{Estado: "cerrada"})
	require.NoError(t, err)
	require.Len(t, cerradas.Data, 1)
	assert.Equal(t, "cerrada", cerradas.Data[0].Estado)
}
