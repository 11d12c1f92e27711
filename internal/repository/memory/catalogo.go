package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productoRepo struct{ s *Store }

func (r *productoRepo) Create(_ context.Context, p *model.Producto) error {
	defer r.s.lock()()
	for _, existente := range r.s.d.productos {
		if existente.CodigoBarras == p.CodigoBarras {
			return uniqueViolation("uni_productos_codigo_barras")
		}
	}
	ensureID(&p.ID)
	now := ahora()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.d.productos[p.ID] = *p
	return nil
}

func (r *productoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	defer r.s.lock()()
	p, ok := r.s.d.productos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *productoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	defer r.s.lock()()
	for _, p := range r.s.d.productos {
		if p.CodigoBarras == barcode && p.Activo {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *productoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	defer r.s.lock()()
	var out []model.Producto
	for _, p := range r.s.d.productos {
		switch filter.Activo {
		case "false":
			if p.Activo {
				continue
			}
		case "all":
		default:
			if !p.Activo {
				continue
			}
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		if filter.Categoria != "" && p.Categoria != filter.Categoria {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	total := int64(len(out))
	start := (filter.Page - 1) * filter.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *productoRepo) DescontarStock(_ context.Context, id uuid.UUID, cantidad int) (int, error) {
	defer r.s.lock()()
	if err := r.s.falla("Productos.DescontarStock"); err != nil {
		return 0, err
	}
	p, ok := r.s.d.productos[id]
	if !ok || p.StockActual < cantidad {
		return 0, repository.ErrStockInsuficiente
	}
	p.StockActual -= cantidad
	r.s.d.productos[id] = p
	return p.StockActual, nil
}

func (r *productoRepo) IncrementarStock(_ context.Context, id uuid.UUID, cantidad int) (int, error) {
	defer r.s.lock()()
	p, ok := r.s.d.productos[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	p.StockActual += cantidad
	r.s.d.productos[id] = p
	return p.StockActual, nil
}

type movStockRepo struct{ s *Store }

func (r *movStockRepo) Create(_ context.Context, m *model.MovimientoStock) error {
	defer r.s.lock()()
	ensureID(&m.ID)
	m.CreatedAt = ahora()
	r.s.d.movStock = append(r.s.d.movStock, *m)
	return nil
}

func (r *movStockRepo) ListByProducto(_ context.Context, productoID uuid.UUID, page, limit int) ([]model.MovimientoStock, int64, error) {
	defer r.s.lock()()
	var todos []model.MovimientoStock
	for i := len(r.s.d.movStock) - 1; i >= 0; i-- {
		if m := r.s.d.movStock[i]; m.ProductoID == productoID {
			todos = append(todos, m)
		}
	}
	offset, limit := repository.Paginar(page, limit)
	if offset >= len(todos) {
		return nil, int64(len(todos)), nil
	}
	return todos[offset:min(offset+limit, len(todos))], int64(len(todos)), nil
}

type clienteRepo struct{ s *Store }

func (r *clienteRepo) Create(_ context.Context, c *model.Cliente) error {
	defer r.s.lock()()
	if c.Documento != nil {
		for _, existente := range r.s.d.clientes {
			if existente.Documento != nil && *existente.Documento == *c.Documento {
				return uniqueViolation("uni_clientes_documento")
			}
		}
	}
	ensureID(&c.ID)
	now := ahora()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.d.clientes[c.ID] = *c
	return nil
}

func (r *clienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	defer r.s.lock()()
	c, ok := r.s.d.clientes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *clienteRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return r.FindByID(ctx, id)
}

func (r *clienteRepo) SetPuntos(_ context.Context, id uuid.UUID, saldo int) error {
	defer r.s.lock()()
	if err := r.s.falla("Clientes.SetPuntos"); err != nil {
		return err
	}
	c, ok := r.s.d.clientes[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.PuntosFidelidad = saldo
	r.s.d.clientes[id] = c
	return nil
}

func (r *clienteRepo) SetSaldoCashback(_ context.Context, id uuid.UUID, saldo decimal.Decimal) error {
	defer r.s.lock()()
	if err := r.s.falla("Clientes.SetSaldoCashback"); err != nil {
		return err
	}
	c, ok := r.s.d.clientes[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.SaldoCashback = saldo
	r.s.d.clientes[id] = c
	return nil
}

func (r *clienteRepo) AplicarContadores(_ context.Context, id uuid.UUID, delta model.ContadoresCompra) error {
	defer r.s.lock()()
	if err := r.s.falla("Clientes.AplicarContadores"); err != nil {
		return err
	}
	c, ok := r.s.d.clientes[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.CantidadCompras += delta.Compras
	if c.CantidadCompras < 0 {
		c.CantidadCompras = 0
	}
	c.TotalCompras = c.TotalCompras.Add(delta.TotalCompras)
	c.TotalCashbackGanado = c.TotalCashbackGanado.Add(delta.CashbackTotal)
	r.s.d.clientes[id] = c
	return nil
}
