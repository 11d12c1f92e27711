package service_test

import (
	"context"
	"testing"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository/memory"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixture ──────────────────────────────────────────────────────────────────
// One open till, two products and one customer, with both reward programs on
// their defaults: 1 point per real, 100 points minimum at 0.01 each, 2% cashback
// with a 5.00 minimum redemption.

type fixture struct {
	ctx     context.Context
	store   *memory.Store
	svc     *service.Services
	sesion  string
	cliente string
	otro    string
	helado  string // 10.00, stock 50
	cono    string // 2.50, no stock control
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f, err := construirFixture(context.Background())
	require.NoError(t, err)
	return f
}

// construirFixture seeds a fresh memory store. Suites that cannot fail through
// a *testing.T use it directly.
func construirFixture(ctx context.Context) (*fixture, error) {
	store := memory.New()
	f := &fixture{ctx: ctx, store: store, svc: service.NewServices(store, nil, 0, nil)}

	caja, err := f.svc.Caja.Abrir(ctx, dto.AbrirCajaRequest{PuntoDeVenta: 1, Operador: "ana", MontoInicial: dec("100")})
	if err != nil {
		return nil, err
	}
	f.sesion = caja.SesionCajaID

	helado, err := f.svc.Productos.Crear(ctx, dto.CrearProductoRequest{
		CodigoBarras: "7890000000011", Nombre: "Helado 1 bola",
		PrecioCosto: dec("4"), PrecioVenta: dec("10"), StockActual: 50,
	})
	if err != nil {
		return nil, err
	}
	f.helado = helado.ID

	cono, err := f.svc.Productos.Crear(ctx, dto.CrearProductoRequest{
		CodigoBarras: "7890000000028", Nombre: "Cono", PrecioCosto: dec("1"),
		PrecioVenta: dec("2.50"), ControlaStock: ptr(false),
	})
	if err != nil {
		return nil, err
	}
	f.cono = cono.ID

	c, err := f.svc.Clientes.Crear(ctx, dto.CrearClienteRequest{Nombre: "Beatriz"})
	if err != nil {
		return nil, err
	}
	f.cliente = c.ID
	o, err := f.svc.Clientes.Crear(ctx, dto.CrearClienteRequest{Nombre: "Carlos"})
	if err != nil {
		return nil, err
	}
	f.otro = o.ID

	if _, err := f.svc.Recompensas.GuardarConfigFidelidad(ctx, dto.ConfigFidelidadRequest{}); err != nil {
		return nil, err
	}
	if _, err := f.svc.Recompensas.GuardarConfigCashback(ctx, dto.ConfigCashbackRequest{}); err != nil {
		return nil, err
	}
	return f, nil
}

// abrir opens a venta, optionally for the fixture customer.
func (f *fixture) abrir(t *testing.T, conCliente bool) *dto.VentaResponse {
	t.Helper()
	req := dto.AbrirVentaRequest{SesionCajaID: f.sesion}
	if conCliente {
		req.ClienteID = &f.cliente
	}
	v, err := f.svc.Ventas.AbrirVenta(f.ctx, req)
	require.NoError(t, err)
	return v
}

func (f *fixture) agregar(t *testing.T, ventaID, productoID string, cantidad int) *dto.VentaResponse {
	t.Helper()
	v, err := f.svc.Ventas.AgregarItem(f.ctx, uuid.MustParse(ventaID), dto.AgregarItemRequest{ProductoID: productoID, Cantidad: cantidad})
	require.NoError(t, err)
	return v
}

func (f *fixture) cerrar(ventaID string, req dto.CerrarVentaRequest) (*dto.VentaResponse, error) {
	if req.Actor == "" {
		req.Actor = "ana"
	}
	return f.svc.Ventas.CerrarVenta(f.ctx, uuid.MustParse(ventaID), req)
}

func efectivo(monto string) []dto.PagoRequest {
	return []dto.PagoRequest{{Metodo: "efectivo", Monto: dec(monto)}}
}

// ventaCerrada runs the common path: 3 helados for the customer, paid in cash.
func (f *fixture) ventaCerrada(t *testing.T) *dto.VentaResponse {
	t.Helper()
	v := f.abrir(t, true)
	f.agregar(t, v.ID, f.helado, 3)
	cerrada, err := f.cerrar(v.ID, dto.CerrarVentaRequest{Pagos: efectivo("30")})
	require.NoError(t, err)
	return cerrada
}

func (f *fixture) clienteActual(t *testing.T, id string) *dto.ClienteResponse {
	t.Helper()
	c, err := f.svc.Clientes.ObtenerPorID(f.ctx, uuid.MustParse(id))
	require.NoError(t, err)
	return c
}

func (f *fixture) stock(t *testing.T, productoID string) int {
	t.Helper()
	p, err := f.svc.Productos.ObtenerPorID(f.ctx, uuid.MustParse(productoID))
	require.NoError(t, err)
	return p.StockActual
}

func (f *fixture) caja(t *testing.T) *dto.ReporteCajaResponse {
	t.Helper()
	r, err := f.svc.Caja.ObtenerReporte(f.ctx, uuid.MustParse(f.sesion))
	require.NoError(t, err)
	return r
}

func (f *fixture) crearCupon(t *testing.T, req dto.CrearCuponRequest) *dto.CuponResponse {
	t.Helper()
	c, err := f.svc.Cupones.Crear(f.ctx, req)
	require.NoError(t, err)
	return c
}

// assertLedgersCuadran checks both ledgers replay to the stored balances.
func (f *fixture) assertLedgersCuadran(t *testing.T, clienteID string) {
	t.Helper()
	id := uuid.MustParse(clienteID)
	c := f.clienteActual(t, clienteID)
	puntos, err := f.svc.Fidelidad.Replay(f.ctx, id)
	require.NoError(t, err)
	require.Equal(t, c.PuntosFidelidad, puntos, "replay de fidelidad")
	saldo, err := f.svc.Cashback.Replay(f.ctx, id)
	require.NoError(t, err)
	require.True(t, c.SaldoCashback.Equal(saldo), "replay de cashback: %s != %s", c.SaldoCashback, saldo)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "esperado %s, obtenido %s", want, got.String())
}

func requireKind(t *testing.T, err error, kind service.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, service.KindOf(err), "error: %v", err)
}
