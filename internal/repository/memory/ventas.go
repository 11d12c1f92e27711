package memory

import (
	"context"
	"sort"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
)

type ventaRepo struct{ s *Store }

func (r *ventaRepo) Create(_ context.Context, v *model.Venta) error {
	defer r.s.lock()()
	if err := r.s.falla("Ventas.Create"); err != nil {
		return err
	}
	ensureID(&v.ID)
	now := ahora()
	v.CreatedAt, v.UpdatedAt = now, now
	fila := *v
	fila.Items, fila.Pagos = nil, nil
	r.s.d.ventas[v.ID] = fila
	return nil
}

func (r *ventaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	defer r.s.lock()()
	return r.detalle(id)
}

func (r *ventaRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	defer r.s.lock()()
	return r.detalle(id)
}

func (r *ventaRepo) detalle(id uuid.UUID) (*model.Venta, error) {
	v, ok := r.s.d.ventas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v.Items = append([]model.VentaItem(nil), r.s.d.items[id]...)
	v.Pagos = append([]model.VentaPago(nil), r.s.d.pagos[id]...)
	return &v, nil
}

func (r *ventaRepo) Update(_ context.Context, v *model.Venta) error {
	defer r.s.lock()()
	if err := r.s.falla("Ventas.Update"); err != nil {
		return err
	}
	if _, ok := r.s.d.ventas[v.ID]; !ok {
		return repository.ErrNotFound
	}
	v.UpdatedAt = ahora()
	fila := *v
	fila.Items, fila.Pagos = nil, nil
	r.s.d.ventas[v.ID] = fila
	return nil
}

func (r *ventaRepo) CreateItem(_ context.Context, item *model.VentaItem) error {
	defer r.s.lock()()
	if err := r.s.falla("Ventas.CreateItem"); err != nil {
		return err
	}
	ensureID(&item.ID)
	now := ahora()
	item.CreatedAt, item.UpdatedAt = now, now
	r.s.d.items[item.VentaID] = append(r.s.d.items[item.VentaID], *item)
	return nil
}

func (r *ventaRepo) UpdateItem(_ context.Context, item *model.VentaItem) error {
	defer r.s.lock()()
	items := r.s.d.items[item.VentaID]
	for i := range items {
		if items[i].ID == item.ID {
			item.UpdatedAt = ahora()
			items[i] = *item
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *ventaRepo) CreatePagos(_ context.Context, pagos []model.VentaPago) error {
	defer r.s.lock()()
	if err := r.s.falla("Ventas.CreatePagos"); err != nil {
		return err
	}
	for i := range pagos {
		ensureID(&pagos[i].ID)
		pagos[i].CreatedAt = ahora()
		r.s.d.pagos[pagos[i].VentaID] = append(r.s.d.pagos[pagos[i].VentaID], pagos[i])
	}
	return nil
}

func (r *ventaRepo) DeletePagos(_ context.Context, ventaID uuid.UUID) error {
	defer r.s.lock()()
	delete(r.s.d.pagos, ventaID)
	return nil
}

func (r *ventaRepo) NextNumero(_ context.Context, fecha time.Time) (int, error) {
	defer r.s.lock()()
	key := fecha.Format("2006-01-02")
	r.s.d.contadores[key]++
	return r.s.d.contadores[key], nil
}

func (r *ventaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	defer r.s.lock()()
	fecha := filter.Fecha
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	var out []model.Venta
	for id, v := range r.s.d.ventas {
		if filter.Estado != "" && filter.Estado != "all" && v.Estado != filter.Estado {
			continue
		}
		if filter.SesionCajaID != "" && v.SesionCajaID.String() != filter.SesionCajaID {
			continue
		}
		if v.Fecha.Format("2006-01-02") != fecha {
			continue
		}
		full, _ := r.detalle(id)
		out = append(out, *full)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero > out[j].Numero })

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
