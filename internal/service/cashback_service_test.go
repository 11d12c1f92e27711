package service_test

import (
	"testing"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) cargarCashback(t *testing.T, clienteID, monto string) {
	t.Helper()
	_, err := f.svc.Cashback.Ajustar(f.ctx, uuid.MustParse(clienteID), dto.AjusteCashbackRequest{Monto: dec(monto), Motivo: "carga inicial", Actor: "ana"})
	require.NoError(t, err)
}

func TestCanjearCashback(t *testing.T) {
	f := newFixture(t)
	id := uuid.MustParse(f.cliente)
	f.cargarCashback(t, f.cliente, "10")

	_, err := f.svc.Cashback.Canjear(f.ctx, id, dto.CanjeCashbackRequest{Monto: dec("4.99"), Actor: "ana"})
	requireKind(t, err, service.KindValidacion)

	tx, err := f.svc.Cashback.Canjear(f.ctx, id, dto.CanjeCashbackRequest{Monto: dec("5"), Actor: "ana"})
	require.NoError(t, err)
	assert.Equal(t, "canje", tx.Tipo)
	assertDec(t, "-5", tx.Monto)
	assertDec(t, "5", tx.SaldoPosterior)

	_, err = f.svc.Cashback.Canjear(f.ctx, id, dto.CanjeCashbackRequest{Monto: dec("6"), Actor: "ana"})
	requireKind(t, err, service.KindRecursoInsuficiente)
	f.assertLedgersCuadran(t, f.cliente)
}

func TestCanjearCashback_ProgramaInactivo(t *testing.T) {
	f := newFixture(t)
	f.cargarCashback(t, f.cliente, "10")
	_, err := f.svc.Recompensas.GuardarConfigCashback(f.ctx, dto.ConfigCashbackRequest{Activo: ptr(false)})
	require.NoError(t, err)

	_, err = f.svc.Cashback.Canjear(f.ctx, uuid.MustParse(f.cliente), dto.CanjeCashbackRequest{Monto: dec("5"), Actor: "ana"})
	require.NoError(t, err)
}

func TestTransferirCashback(t *testing.T) {
	f := newFixture(t)
	origen := uuid.MustParse(f.cliente)
	f.cargarCashback(t, f.cliente, "10")

	err := f.svc.Cashback.Transferir(f.ctx, origen, dto.TransferenciaCashbackRequest{DestinoID: f.otro, Monto: dec("4"), Actor: "ana"})
	require.NoError(t, err)

	assertDec(t, "6", f.clienteActual(t, f.cliente).SaldoCashback)
	assertDec(t, "4", f.clienteActual(t, f.otro).SaldoCashback)
	f.assertLedgersCuadran(t, f.cliente)
	f.assertLedgersCuadran(t, f.otro)

	hist, err := f.svc.Cashback.Historial(f.ctx, uuid.MustParse(f.otro))
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "transferencia_entrada", hist[0].Tipo)
}

func TestTransferirCashback_Rechazos(t *testing.T) {
	f := newFixture(t)
	origen := uuid.MustParse(f.cliente)
	f.cargarCashback(t, f.cliente, "3")

	err := f.svc.Cashback.Transferir(f.ctx, origen, dto.TransferenciaCashbackRequest{DestinoID: f.otro, Monto: dec("3.01"), Actor: "ana"})
	requireKind(t, err, service.KindRecursoInsuficiente)

	err = f.svc.Cashback.Transferir(f.ctx, origen, dto.TransferenciaCashbackRequest{DestinoID: f.cliente, Monto: dec("1"), Actor: "ana"})
	requireKind(t, err, service.KindValidacion)

	err = f.svc.Cashback.Transferir(f.ctx, origen, dto.TransferenciaCashbackRequest{DestinoID: uuid.NewString(), Monto: dec("1"), Actor: "ana"})
	requireKind(t, err, service.KindNotFound)

	assertDec(t, "3", f.clienteActual(t, f.cliente).SaldoCashback)
	assert.True(t, f.clienteActual(t, f.otro).SaldoCashback.IsZero())
}

func TestVencerCashback(t *testing.T) {
	f := newFixture(t)
	f.ventaCerrada(t)

	total, err := f.svc.Cashback.VencerPendientes(f.ctx, time.Now().AddDate(0, 0, 91))
	require.NoError(t, err)
	assertDec(t, "0.60", total)
	assert.True(t, f.clienteActual(t, f.cliente).SaldoCashback.IsZero())
	f.assertLedgersCuadran(t, f.cliente)
}

func TestCashbackConTope(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Recompensas.GuardarConfigCashback(f.ctx, dto.ConfigCashbackRequest{
		PorcentajeCashback:      ptr(dec("10")),
		CashbackMaximoPorCompra: ptr(dec("2")),
	})
	require.NoError(t, err)

	v := f.ventaCerrada(t)
	assertDec(t, "2", v.CashbackGanado)

	_, err = f.svc.Recompensas.GuardarConfigCashback(f.ctx, dto.ConfigCashbackRequest{PorcentajeCashback: ptr(dec("101"))})
	requireKind(t, err, service.KindValidacion)
}
