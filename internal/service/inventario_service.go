package service

import (
	"context"
	"errors"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
)

// Tipos de MovimientoStock.
const (
	MovStockReserva    = "reserva"
	MovStockLiberacion = "liberacion"
)

// InventarioService moves stock in lockstep with line items. Products with
// ControlaStock=false are never blocked and never get ledger lines.
type InventarioService interface {
	// ReservarTx fails with RecursoInsuficiente when a tracked product has less
	// than cantidad in stock. The decrement is a conditional atomic update.
	ReservarTx(ctx context.Context, tx repository.Store, p *model.Producto, cantidad int, ventaID uuid.UUID, motivo string) error
	// LiberarTx always succeeds for an existing product.
	LiberarTx(ctx context.Context, tx repository.Store, productoID uuid.UUID, cantidad int, ventaID uuid.UUID, motivo string) error
	ListarMovimientos(ctx context.Context, productoID uuid.UUID, page, limit int) ([]dto.MovimientoStockResponse, int64, error)
}

type inventarioService struct {
	store repository.Store
}

func NewInventarioService(store repository.Store) InventarioService {
	return &inventarioService{store: store}
}

func (s *inventarioService) ReservarTx(ctx context.Context, tx repository.Store, p *model.Producto, cantidad int, ventaID uuid.UUID, motivo string) error {
	if cantidad <= 0 {
		return invalido("la cantidad debe ser positiva")
	}
	if !p.ControlaStock {
		return nil
	}
	saldo, err := tx.Productos().DescontarStock(ctx, p.ID, cantidad)
	switch {
	case errors.Is(err, repository.ErrStockInsuficiente):
		return insuficiente("stock insuficiente para %s: disponible %d, solicitado %d", p.Nombre, p.StockActual, cantidad)
	case err != nil:
		return infra(err)
	}
	return s.asentar(ctx, tx, model.MovimientoStock{
		ProductoID: p.ID, Tipo: MovStockReserva, Delta: -cantidad, Saldo: saldo, Motivo: motivo,
	}, ventaID)
}

func (s *inventarioService) LiberarTx(ctx context.Context, tx repository.Store, productoID uuid.UUID, cantidad int, ventaID uuid.UUID, motivo string) error {
	if cantidad <= 0 {
		return nil
	}
	p, err := tx.Productos().FindByID(ctx, productoID)
	if err != nil {
		return traducir(err, "producto")
	}
	if !p.ControlaStock {
		return nil
	}
	saldo, err := tx.Productos().IncrementarStock(ctx, productoID, cantidad)
	if err != nil {
		return traducir(err, "producto")
	}
	return s.asentar(ctx, tx, model.MovimientoStock{
		ProductoID: productoID, Tipo: MovStockLiberacion, Delta: cantidad, Saldo: saldo, Motivo: motivo,
	}, ventaID)
}

func (s *inventarioService) asentar(ctx context.Context, tx repository.Store, m model.MovimientoStock, ventaID uuid.UUID) error {
	if ventaID != uuid.Nil {
		m.VentaID = &ventaID
	}
	return infra(tx.MovimientosStock().Create(ctx, &m))
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, productoID uuid.UUID, page, limit int) ([]dto.MovimientoStockResponse, int64, error) {
	if _, err := s.store.Productos().FindByID(ctx, productoID); err != nil {
		return nil, 0, traducir(err, "producto")
	}
	movs, total, err := s.store.MovimientosStock().ListByProducto(ctx, productoID, page, limit)
	if err != nil {
		return nil, 0, infra(err)
	}
	out := make([]dto.MovimientoStockResponse, len(movs))
	for i, m := range movs {
		out[i] = dto.MovimientoStockResponse{
			ID:        m.ID.String(),
			Tipo:      m.Tipo,
			Delta:     m.Delta,
			Saldo:     m.Saldo,
			Motivo:    m.Motivo,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		}
		if m.VentaID != nil {
			id := m.VentaID.String()
			out[i].VentaID = &id
		}
	}
	return out, total, nil
}
