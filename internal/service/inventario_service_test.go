package service_test

import (
	"testing"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibroDeStock_SigueAlItem(t *testing.T) {
	f := newFixture(t)
	v := f.abrir(t, false)
	v = f.agregar(t, v.ID, f.helado, 3)
	f.agregar(t, v.ID, f.cono, 2)
	ventaID, itemID := uuid.MustParse(v.ID), uuid.MustParse(v.Items[0].ID)

	_, err := f.svc.Ventas.ActualizarCantidadItem(f.ctx, ventaID, itemID, 1)
	require.NoError(t, err)
	_, err = f.svc.Ventas.CancelarItem(f.ctx, ventaID, itemID, "cliente desistió", "ana")
	require.NoError(t, err)

	movs, total, err := f.svc.Inventario.ListarMovimientos(f.ctx, uuid.MustParse(f.helado), 1, 50)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, movs, 3)

	// newest first
	assert.Equal(t, service.MovStockLiberacion, movs[0].Tipo)
	assert.Equal(t, 1, movs[0].Delta)
	assert.Equal(t, 50, movs[0].Saldo)
	assert.Equal(t, "item cancelado: cliente desistió", movs[0].Motivo)
	assert.Equal(t, 2, movs[1].Delta)
	assert.Equal(t, 49, movs[1].Saldo)
	assert.Equal(t, service.MovStockReserva, movs[2].Tipo)
	assert.Equal(t, -3, movs[2].Delta)
	assert.Equal(t, 47, movs[2].Saldo)
	require.NotNil(t, movs[2].VentaID)
	assert.Equal(t, v.ID, *movs[2].VentaID)

	pagina, total, err := f.svc.Inventario.ListarMovimientos(f.ctx, uuid.MustParse(f.helado), 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, pagina, 1)
	assert.Equal(t, -3, pagina[0].Delta)

	sinControl, total, err := f.svc.Inventario.ListarMovimientos(f.ctx, uuid.MustParse(f.cono), 1, 50)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sinControl)

	_, _, err = f.svc.Inventario.ListarMovimientos(f.ctx, uuid.New(), 1, 50)
	requireKind(t, err, service.KindNotFound)
}
