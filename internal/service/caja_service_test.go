package service_test

import (
	"testing"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbrirCajaDuplicada(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Caja.Abrir(f.ctx, dto.AbrirCajaRequest{PuntoDeVenta: 1, Operador: "bruno", MontoInicial: dec("50")})
	requireKind(t, err, service.KindConflicto)

	otra, err := f.svc.Caja.Abrir(f.ctx, dto.AbrirCajaRequest{PuntoDeVenta: 2, Operador: "bruno", MontoInicial: dec("50")})
	require.NoError(t, err)
	assert.Equal(t, "abierta", otra.Estado)
}

func TestArqueo_SinDesvio(t *testing.T) {
	f := newFixture(t)
	f.ventaCerrada(t)

	resp, err := f.svc.Caja.Arqueo(f.ctx, dto.ArqueoRequest{
		SesionCajaID: f.sesion,
		Declaracion:  dto.DeclaracionArqueo{Efectivo: dec("130")},
	})
	require.NoError(t, err)
	assert.Equal(t, "cerrada", resp.Estado)
	assertDec(t, "130", resp.MontoEsperado.Total)
	assert.Equal(t, "normal", resp.Desvio.Clasificacion)

	reporte := f.caja(t)
	assert.Equal(t, "cerrada", reporte.Estado)
	require.NotNil(t, reporte.ClosedAt)
	require.NotNil(t, reporte.Desvio)
}

func TestArqueo_Advertencia(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Caja.Arqueo(f.ctx, dto.ArqueoRequest{
		SesionCajaID: f.sesion,
		Declaracion:  dto.DeclaracionArqueo{Efectivo: dec("97")},
	})
	require.NoError(t, err)
	assert.Equal(t, "advertencia", resp.Desvio.Clasificacion)
	assertDec(t, "-3", resp.Desvio.Monto)
	assertDec(t, "-3", resp.Desvio.Porcentaje)
}

func TestArqueo_CriticoRequiereObservaciones(t *testing.T) {
	f := newFixture(t)
	f.ventaCerrada(t)
	req := dto.ArqueoRequest{
		SesionCajaID: f.sesion,
		Declaracion:  dto.DeclaracionArqueo{Efectivo: dec("100")},
	}

	_, err := f.svc.Caja.Arqueo(f.ctx, req)
	requireKind(t, err, service.KindValidacion)
	assert.Equal(t, "abierta", f.caja(t).Estado)

	req.Observaciones = ptr("faltante informado al supervisor")
	resp, err := f.svc.Caja.Arqueo(f.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "critico", resp.Desvio.Clasificacion)

	_, err = f.svc.Caja.Arqueo(f.ctx, req)
	requireKind(t, err, service.KindConflicto)
}

func TestRegistrarMovimiento_EntraEnElEsperado(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Caja.RegistrarMovimiento(f.ctx, dto.MovimientoManualRequest{
		SesionCajaID: f.sesion, Tipo: "ingreso_manual", MetodoPago: "efectivo", Monto: dec("20"), Descripcion: "cambio",
	}))
	require.NoError(t, f.svc.Caja.RegistrarMovimiento(f.ctx, dto.MovimientoManualRequest{
		SesionCajaID: f.sesion, Tipo: "egreso_manual", MetodoPago: "pix", Monto: dec("5"), Descripcion: "devolución",
	}))

	reporte := f.caja(t)
	assertDec(t, "120", reporte.MontoEsperado.Efectivo)
	assertDec(t, "-5", reporte.MontoEsperado.Pix)
	assertDec(t, "115", reporte.MontoEsperado.Total)
	assert.True(t, reporte.TotalVentas.IsZero())
}

func TestRegistrarMovimiento_SesionInexistente(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Caja.RegistrarMovimiento(f.ctx, dto.MovimientoManualRequest{
		SesionCajaID: uuid.NewString(), Tipo: "ingreso_manual", MetodoPago: "efectivo", Monto: dec("1"), Descripcion: "x",
	})
	requireKind(t, err, service.KindNotFound)
}

func TestSesionActiva(t *testing.T) {
	f := newFixture(t)

	activa, err := f.svc.Caja.SesionActiva(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, f.sesion, activa.SesionCajaID)

	_, err = f.svc.Caja.SesionActiva(f.ctx, 9)
	requireKind(t, err, service.KindNotFound)

	_, err = f.svc.Caja.Arqueo(f.ctx, dto.ArqueoRequest{SesionCajaID: f.sesion, Declaracion: dto.DeclaracionArqueo{Efectivo: dec("100")}})
	require.NoError(t, err)
	_, err = f.svc.Caja.SesionActiva(f.ctx, 1)
	requireKind(t, err, service.KindNotFound)
}

func TestListarMovimientos_VentaYAnulacion(t *testing.T) {
	f := newFixture(t)
	v := f.ventaCerrada(t)
	_, err := f.svc.Ventas.AnularVenta(f.ctx, uuid.MustParse(v.ID), "error de carga", "ana")
	require.NoError(t, err)

	movs, err := f.svc.Caja.ListarMovimientos(f.ctx, uuid.MustParse(f.sesion))
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, service.MovCajaVenta, movs[0].Tipo)
	assertDec(t, "30", movs[0].Monto)
	assert.Equal(t, service.MovCajaAnulacion, movs[1].Tipo)
	assertDec(t, "-30", movs[1].Monto)
	require.NotNil(t, movs[1].ReferenciaID)
	assert.Equal(t, v.ID, *movs[1].ReferenciaID)

	_, err = f.svc.Caja.ListarMovimientos(f.ctx, uuid.New())
	requireKind(t, err, service.KindNotFound)
}
