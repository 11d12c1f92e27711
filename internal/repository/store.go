package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrStockInsuficiente is returned by ProductoRepository.DescontarStock when the
// conditional decrement matched no row.
var ErrStockInsuficiente = errors.New("stock insuficiente")

// ErrCuponAgotado is returned by CuponRepository.RegistrarUso when the coupon
// already reached its usage limit.
var ErrCuponAgotado = errors.New("cupón sin usos disponibles")

// ErrNotFound aliases gorm's sentinel so in-memory implementations and callers
// share one value.
var ErrNotFound = gorm.ErrRecordNotFound

// Store groups every repository behind one handle. Repositories obtained from
// the tx argument of Transaction read and write inside that transaction.
type Store interface {
	Ventas() VentaRepository
	Productos() ProductoRepository
	MovimientosStock() MovimientoStockRepository
	Cajas() CajaRepository
	Clientes() ClienteRepository
	Cupones() CuponRepository
	Fidelidad() FidelidadRepository
	Cashback() CashbackRepository
	Recompensas() ConfigRecompensaRepository

	// Transaction runs fn in a single unit of work. Nothing fn wrote is visible
	// if it returns an error.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct{ db *gorm.DB }

// NewStore returns the PostgreSQL-backed Store.
func NewStore(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) Ventas() VentaRepository                     { return NewVentaRepository(s.db) }
func (s *gormStore) Productos() ProductoRepository               { return NewProductoRepository(s.db) }
func (s *gormStore) MovimientosStock() MovimientoStockRepository { return NewMovimientoStockRepository(s.db) }
func (s *gormStore) Cajas() CajaRepository                       { return NewCajaRepository(s.db) }
func (s *gormStore) Clientes() ClienteRepository                 { return NewClienteRepository(s.db) }
func (s *gormStore) Cupones() CuponRepository                    { return NewCuponRepository(s.db) }
func (s *gormStore) Fidelidad() FidelidadRepository              { return NewFidelidadRepository(s.db) }
func (s *gormStore) Cashback() CashbackRepository                { return NewCashbackRepository(s.db) }
func (s *gormStore) Recompensas() ConfigRecompensaRepository     { return NewConfigRecompensaRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
