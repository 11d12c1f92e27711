package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

type cierreTestContext struct {
	f     *fixture
	venta *dto.VentaResponse
	err   error
}

func (c *cierreTestContext) reset() error {
	f, err := construirFixture(context.Background())
	if err != nil {
		return err
	}
	c.f, c.venta, c.err = f, nil, nil
	return nil
}

func (c *cierreTestContext) ventaID() uuid.UUID { return uuid.MustParse(c.venta.ID) }

func (c *cierreTestContext) unaCajaAbiertaConFondo(fondo string) error {
	r, err := c.f.svc.Caja.ObtenerReporte(c.f.ctx, uuid.MustParse(c.f.sesion))
	if err != nil {
		return err
	}
	if !r.MontoInicial.Equal(dec(fondo)) {
		return fmt.Errorf("fondo esperado %s, obtenido %s", fondo, r.MontoInicial)
	}
	return nil
}

func (c *cierreTestContext) unaVentaAbiertaParaElCliente() error {
	v, err := c.f.svc.Ventas.AbrirVenta(c.f.ctx, dto.AbrirVentaRequest{SesionCajaID: c.f.sesion, ClienteID: &c.f.cliente})
	c.venta = v
	return err
}

func (c *cierreTestContext) unCuponPorcentual(codigo string, pct int) error {
	_, err := c.f.svc.Cupones.Crear(c.f.ctx, dto.CrearCuponRequest{Codigo: codigo, Tipo: "porcentaje", Valor: dec(fmt.Sprint(pct))})
	return err
}

func (c *cierreTestContext) agregar(productoID string, cantidad int) error {
	v, err := c.f.svc.Ventas.AgregarItem(c.f.ctx, c.ventaID(), dto.AgregarItemRequest{ProductoID: productoID, Cantidad: cantidad})
	if err != nil {
		return err
	}
	c.venta = v
	return nil
}

func (c *cierreTestContext) heladosEnLaVenta(n int) error { return c.agregar(c.f.helado, n) }

func (c *cierreTestContext) agregoConos(n int) error { return c.agregar(c.f.cono, n) }

func (c *cierreTestContext) cerrar(cupon *string, monto string) {
	v, err := c.f.cerrar(c.venta.ID, dto.CerrarVentaRequest{CodigoCupon: cupon, Pagos: efectivo(monto)})
	c.err = err
	if err == nil {
		c.venta = v
	}
}

func (c *cierreTestContext) cierroConCupon(codigo, monto string) error {
	c.cerrar(&codigo, monto)
	return nil
}

func (c *cierreTestContext) cierroPagando(monto string) error {
	c.cerrar(nil, monto)
	return nil
}

func (c *cierreTestContext) laVentaCerradaPagando(monto string) error {
	c.cerrar(nil, monto)
	return c.err
}

func (c *cierreTestContext) anuloLaVenta() error {
	v, err := c.f.svc.Ventas.AnularVenta(c.f.ctx, c.ventaID(), "cliente desistió", "ana")
	if err != nil {
		return err
	}
	c.venta = v
	return nil
}

func (c *cierreTestContext) reabroLaVenta() error {
	v, err := c.f.svc.Ventas.ReabrirVenta(c.f.ctx, c.ventaID(), "faltó un cono", "ana")
	if err != nil {
		return err
	}
	c.venta = v
	return nil
}

func (c *cierreTestContext) elTotalDeLaVentaEs(total string) error {
	if c.err != nil {
		return c.err
	}
	if !c.venta.Total.Equal(dec(total)) {
		return fmt.Errorf("total esperado %s, obtenido %s", total, c.venta.Total)
	}
	return nil
}

func (c *cierreTestContext) elClienteTienePuntos(puntos int) error {
	cl, err := c.f.svc.Clientes.ObtenerPorID(c.f.ctx, uuid.MustParse(c.f.cliente))
	if err != nil {
		return err
	}
	if cl.PuntosFidelidad != puntos {
		return fmt.Errorf("puntos esperados %d, obtenidos %d", puntos, cl.PuntosFidelidad)
	}
	return nil
}

func (c *cierreTestContext) elClienteTieneCashback(monto string) error {
	cl, err := c.f.svc.Clientes.ObtenerPorID(c.f.ctx, uuid.MustParse(c.f.cliente))
	if err != nil {
		return err
	}
	if !cl.SaldoCashback.Equal(dec(monto)) {
		return fmt.Errorf("cashback esperado %s, obtenido %s", monto, cl.SaldoCashback)
	}
	return nil
}

func (c *cierreTestContext) elStockDeHeladosEs(stock int) error {
	p, err := c.f.svc.Productos.ObtenerPorID(c.f.ctx, uuid.MustParse(c.f.helado))
	if err != nil {
		return err
	}
	if p.StockActual != stock {
		return fmt.Errorf("stock esperado %d, obtenido %d", stock, p.StockActual)
	}
	return nil
}

func (c *cierreTestContext) laCajaRegistraEnVentas(monto string) error {
	r, err := c.f.svc.Caja.ObtenerReporte(c.f.ctx, uuid.MustParse(c.f.sesion))
	if err != nil {
		return err
	}
	if !r.TotalVentas.Equal(dec(monto)) {
		return fmt.Errorf("ventas esperadas %s, obtenidas %s", monto, r.TotalVentas)
	}
	return nil
}

func (c *cierreTestContext) laOperacionFallaCon(kind string) error {
	if c.err == nil {
		return fmt.Errorf("se esperaba un error %q", kind)
	}
	if got := service.KindOf(c.err); string(got) != kind {
		return fmt.Errorf("error esperado %q, obtenido %q (%v)", kind, got, c.err)
	}
	return nil
}

func InitializeCierreScenario(ctx *godog.ScenarioContext) {
	tc := &cierreTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	ctx.Step(`^una caja abierta con (\d+\.\d{2}) de fondo$`, tc.unaCajaAbiertaConFondo)
	ctx.Step(`^una venta abierta para el cliente$`, tc.unaVentaAbiertaParaElCliente)
	ctx.Step(`^un cupón "([^"]*)" de (\d+) por ciento$`, tc.unCuponPorcentual)
	ctx.Step(`^(\d+) helados en la venta$`, tc.heladosEnLaVenta)
	ctx.Step(`^la venta cerrada pagando (\d+\.\d{2}) en efectivo$`, tc.laVentaCerradaPagando)

	ctx.Step(`^cierro la venta con el cupón "([^"]*)" pagando (\d+\.\d{2}) en efectivo$`, tc.cierroConCupon)
	ctx.Step(`^cierro la venta pagando (\d+\.\d{2}) en efectivo$`, tc.cierroPagando)
	ctx.Step(`^anulo la venta$`, tc.anuloLaVenta)
	ctx.Step(`^reabro la venta$`, tc.reabroLaVenta)
	ctx.Step(`^agrego (\d+) conos?$`, tc.agregoConos)

	ctx.Step(`^el total de la venta es (\d+\.\d{2})$`, tc.elTotalDeLaVentaEs)
	ctx.Step(`^el cliente tiene (\d+) puntos$`, tc.elClienteTienePuntos)
	ctx.Step(`^el cliente tiene (\d+\.\d{2}) de cashback$`, tc.elClienteTieneCashback)
	ctx.Step(`^el stock de helados es (\d+)$`, tc.elStockDeHeladosEs)
	ctx.Step(`^la caja registra (\d+\.\d{2}) en ventas$`, tc.laCajaRegistraEnVentas)
	ctx.Step(`^la operación falla con "([^"]*)"$`, tc.laOperacionFallaCon)
}

func TestCierreFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeCierreScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
