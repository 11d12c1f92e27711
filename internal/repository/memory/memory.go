// Package memory is an in-process repository.Store used by service, property
// and feature tests. Transactions work on a copy of the data and swap it in
// only when the callback succeeds, so rollback behaves like the database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type data struct {
	ventas     map[uuid.UUID]model.Venta
	items      map[uuid.UUID][]model.VentaItem
	pagos      map[uuid.UUID][]model.VentaPago
	contadores map[string]int

	productos map[uuid.UUID]model.Producto
	movStock  []model.MovimientoStock

	sesiones map[uuid.UUID]model.SesionCaja
	movCaja  []model.MovimientoCaja

	clientes map[uuid.UUID]model.Cliente
	cupones  map[uuid.UUID]model.Cupon
	usos     []model.UsoCupon

	txFidelidad []model.TransaccionFidelidad
	txCashback  []model.TransaccionCashback

	cfgFidelidad *model.ConfigFidelidad
	cfgCashback  *model.ConfigCashback
}

func newData() *data {
	return &data{
		ventas:     map[uuid.UUID]model.Venta{},
		items:      map[uuid.UUID][]model.VentaItem{},
		pagos:      map[uuid.UUID][]model.VentaPago{},
		contadores: map[string]int{},
		productos:  map[uuid.UUID]model.Producto{},
		sesiones:   map[uuid.UUID]model.SesionCaja{},
		clientes:   map[uuid.UUID]model.Cliente{},
		cupones:    map[uuid.UUID]model.Cupon{},
	}
}

func (d *data) clone() *data {
	c := &data{
		ventas:      make(map[uuid.UUID]model.Venta, len(d.ventas)),
		items:       make(map[uuid.UUID][]model.VentaItem, len(d.items)),
		pagos:       make(map[uuid.UUID][]model.VentaPago, len(d.pagos)),
		contadores:  make(map[string]int, len(d.contadores)),
		productos:   make(map[uuid.UUID]model.Producto, len(d.productos)),
		movStock:    append([]model.MovimientoStock(nil), d.movStock...),
		sesiones:    make(map[uuid.UUID]model.SesionCaja, len(d.sesiones)),
		movCaja:     append([]model.MovimientoCaja(nil), d.movCaja...),
		clientes:    make(map[uuid.UUID]model.Cliente, len(d.clientes)),
		cupones:     make(map[uuid.UUID]model.Cupon, len(d.cupones)),
		usos:        append([]model.UsoCupon(nil), d.usos...),
		txFidelidad: append([]model.TransaccionFidelidad(nil), d.txFidelidad...),
		txCashback:  append([]model.TransaccionCashback(nil), d.txCashback...),
	}
	for k, v := range d.ventas {
		c.ventas[k] = v
	}
	for k, v := range d.items {
		c.items[k] = append([]model.VentaItem(nil), v...)
	}
	for k, v := range d.pagos {
		c.pagos[k] = append([]model.VentaPago(nil), v...)
	}
	for k, v := range d.contadores {
		c.contadores[k] = v
	}
	for k, v := range d.productos {
		c.productos[k] = v
	}
	for k, v := range d.sesiones {
		c.sesiones[k] = v
	}
	for k, v := range d.clientes {
		c.clientes[k] = v
	}
	for k, v := range d.cupones {
		c.cupones[k] = v
	}
	if d.cfgFidelidad != nil {
		cfg := *d.cfgFidelidad
		c.cfgFidelidad = &cfg
	}
	if d.cfgCashback != nil {
		cfg := *d.cfgCashback
		c.cfgCashback = &cfg
	}
	return c
}

// Store implements repository.Store in memory.
type Store struct {
	mu     *sync.Mutex
	d      *data
	inTx   bool
	fallas map[string]error
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.Mutex{}, d: newData(), fallas: map[string]error{}}
}

// SetFalla makes the named operation (e.g. "Cupones.RegistrarUso") return err
// until cleared with a nil err.
func (s *Store) SetFalla(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fallas, op)
		return
	}
	s.fallas[op] = err
}

func (s *Store) falla(op string) error { return s.fallas[op] }

// lock guards access from outside a transaction. Inside one, the owning
// Transaction call already holds the mutex.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, d: s.d.clone(), inTx: true, fallas: s.fallas}
	if err := fn(tx); err != nil {
		return err
	}
	s.d = tx.d
	return nil
}

func (s *Store) Ventas() repository.VentaRepository                     { return &ventaRepo{s} }
func (s *Store) Productos() repository.ProductoRepository               { return &productoRepo{s} }
func (s *Store) MovimientosStock() repository.MovimientoStockRepository { return &movStockRepo{s} }
func (s *Store) Cajas() repository.CajaRepository                       { return &cajaRepo{s} }
func (s *Store) Clientes() repository.ClienteRepository                 { return &clienteRepo{s} }
func (s *Store) Cupones() repository.CuponRepository                    { return &cuponRepo{s} }
func (s *Store) Fidelidad() repository.FidelidadRepository              { return &fidelidadRepo{s} }
func (s *Store) Cashback() repository.CashbackRepository                { return &cashbackRepo{s} }
func (s *Store) Recompensas() repository.ConfigRecompensaRepository     { return &configRepo{s} }

// uniqueViolation mirrors what PostgreSQL reports for a duplicate key.
func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint", ConstraintName: constraint}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func ahora() time.Time { return time.Now().UTC() }
