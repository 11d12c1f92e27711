package service

import (
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/cache"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"
)

// Services is the wired service graph, shared by the HTTP layer, the worker
// pool and the tests.
type Services struct {
	Ventas      VentaService
	Inventario  InventarioService
	Caja        CajaService
	Cupones     CuponService
	Fidelidad   FidelidadService
	Cashback    CashbackService
	Recompensas RecompensaService
	Productos   ProductoService
	Clientes    ClienteService
}

// NewServices builds every service over one Store. A nil cache disables config
// caching; a nil loc means UTC business days.
func NewServices(store repository.Store, c cache.ConfigCache, cacheTTL time.Duration, loc *time.Location) *Services {
	recompensas := NewRecompensaService(store, c, cacheTTL)
	inventario := NewInventarioService(store)
	caja := NewCajaService(store)
	cupones := NewCuponService(store)
	fidelidad := NewFidelidadService(store, recompensas)
	cashback := NewCashbackService(store, recompensas)

	return &Services{
		Ventas:      NewVentaService(store, inventario, caja, cupones, fidelidad, cashback, recompensas, loc),
		Inventario:  inventario,
		Caja:        caja,
		Cupones:     cupones,
		Fidelidad:   fidelidad,
		Cashback:    cashback,
		Recompensas: recompensas,
		Productos:   NewProductoService(store),
		Clientes:    NewClienteService(store),
	}
}
