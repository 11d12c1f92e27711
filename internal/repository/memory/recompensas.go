package memory

import (
	"context"
	"sort"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
)

type cuponRepo struct{ s *Store }

func (r *cuponRepo) Create(_ context.Context, c *model.Cupon) error {
	defer r.s.lock()()
	for _, existente := range r.s.d.cupones {
		if existente.Codigo == c.Codigo {
			return uniqueViolation("uni_cupones_codigo")
		}
	}
	ensureID(&c.ID)
	now := ahora()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.d.cupones[c.ID] = *c
	return nil
}

func (r *cuponRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cupon, error) {
	defer r.s.lock()()
	c, ok := r.s.d.cupones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *cuponRepo) FindByCodigo(_ context.Context, codigo string) (*model.Cupon, error) {
	defer r.s.lock()()
	for _, c := range r.s.d.cupones {
		if c.Codigo == codigo {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *cuponRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	defer r.s.lock()()
	c, ok := r.s.d.cupones[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Estado = estado
	c.UpdatedAt = ahora()
	r.s.d.cupones[id] = c
	return nil
}

func (r *cuponRepo) RegistrarUso(_ context.Context, uso *model.UsoCupon) error {
	defer r.s.lock()()
	if err := r.s.falla("Cupones.RegistrarUso"); err != nil {
		return err
	}
	for _, u := range r.s.d.usos {
		if u.VentaID == uso.VentaID {
			return uniqueViolation("uni_usos_cupon_venta_id")
		}
	}
	c, ok := r.s.d.cupones[uso.CuponID]
	if !ok {
		return repository.ErrNotFound
	}
	if c.LimiteUso != nil && c.CantidadUsos >= *c.LimiteUso {
		return repository.ErrCuponAgotado
	}
	ensureID(&uso.ID)
	uso.CreatedAt = ahora()
	r.s.d.usos = append(r.s.d.usos, *uso)
	c.CantidadUsos++
	r.s.d.cupones[c.ID] = c
	return nil
}

func (r *cuponRepo) FindUsoByVenta(_ context.Context, ventaID uuid.UUID) (*model.UsoCupon, error) {
	defer r.s.lock()()
	for _, u := range r.s.d.usos {
		if u.VentaID == ventaID {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *cuponRepo) EliminarUso(_ context.Context, uso *model.UsoCupon) error {
	defer r.s.lock()()
	usos := r.s.d.usos[:0]
	for _, u := range r.s.d.usos {
		if u.ID != uso.ID {
			usos = append(usos, u)
		}
	}
	r.s.d.usos = usos
	if c, ok := r.s.d.cupones[uso.CuponID]; ok && c.CantidadUsos > 0 {
		c.CantidadUsos--
		r.s.d.cupones[c.ID] = c
	}
	return nil
}

type fidelidadRepo struct{ s *Store }

func (r *fidelidadRepo) Create(_ context.Context, t *model.TransaccionFidelidad) error {
	defer r.s.lock()()
	if err := r.s.falla("Fidelidad.Create"); err != nil {
		return err
	}
	ensureID(&t.ID)
	t.CreatedAt = ahora()
	r.s.d.txFidelidad = append(r.s.d.txFidelidad, *t)
	return nil
}

func (r *fidelidadRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.TransaccionFidelidad, error) {
	defer r.s.lock()()
	var out []model.TransaccionFidelidad
	for _, t := range r.s.d.txFidelidad {
		if t.ClienteID == clienteID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fidelidadRepo) ListByVenta(_ context.Context, ventaID uuid.UUID) ([]model.TransaccionFidelidad, error) {
	defer r.s.lock()()
	var out []model.TransaccionFidelidad
	for _, t := range r.s.d.txFidelidad {
		if t.VentaID != nil && *t.VentaID == ventaID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fidelidadRepo) ListGananciasVencidas(_ context.Context, now time.Time) ([]model.TransaccionFidelidad, error) {
	defer r.s.lock()()
	compensadas := map[uuid.UUID]bool{}
	for _, t := range r.s.d.txFidelidad {
		if t.TransaccionOrigenID != nil {
			compensadas[*t.TransaccionOrigenID] = true
		}
	}
	var out []model.TransaccionFidelidad
	for _, t := range r.s.d.txFidelidad {
		if t.Tipo != model.TxGanancia || t.VenceAt == nil || t.VenceAt.After(now) || compensadas[t.ID] {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].VenceAt.Before(*out[j].VenceAt) })
	return out, nil
}

type cashbackRepo struct{ s *Store }

func (r *cashbackRepo) Create(_ context.Context, t *model.TransaccionCashback) error {
	defer r.s.lock()()
	if err := r.s.falla("Cashback.Create"); err != nil {
		return err
	}
	ensureID(&t.ID)
	t.CreatedAt = ahora()
	r.s.d.txCashback = append(r.s.d.txCashback, *t)
	return nil
}

func (r *cashbackRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.TransaccionCashback, error) {
	defer r.s.lock()()
	var out []model.TransaccionCashback
	for _, t := range r.s.d.txCashback {
		if t.ClienteID == clienteID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *cashbackRepo) ListByVenta(_ context.Context, ventaID uuid.UUID) ([]model.TransaccionCashback, error) {
	defer r.s.lock()()
	var out []model.TransaccionCashback
	for _, t := range r.s.d.txCashback {
		if t.VentaID != nil && *t.VentaID == ventaID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *cashbackRepo) ListGananciasVencidas(_ context.Context, now time.Time) ([]model.TransaccionCashback, error) {
	defer r.s.lock()()
	compensadas := map[uuid.UUID]bool{}
	for _, t := range r.s.d.txCashback {
		if t.TransaccionOrigenID != nil {
			compensadas[*t.TransaccionOrigenID] = true
		}
	}
	var out []model.TransaccionCashback
	for _, t := range r.s.d.txCashback {
		if t.Tipo != model.TxGanancia || t.VenceAt == nil || t.VenceAt.After(now) || compensadas[t.ID] {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].VenceAt.Before(*out[j].VenceAt) })
	return out, nil
}

type configRepo struct{ s *Store }

func (r *configRepo) GetFidelidad(_ context.Context) (*model.ConfigFidelidad, error) {
	defer r.s.lock()()
	if r.s.d.cfgFidelidad == nil {
		return nil, repository.ErrNotFound
	}
	cfg := *r.s.d.cfgFidelidad
	return &cfg, nil
}

func (r *configRepo) SaveFidelidad(_ context.Context, c *model.ConfigFidelidad) error {
	defer r.s.lock()()
	ensureID(&c.ID)
	c.UpdatedAt = ahora()
	cfg := *c
	r.s.d.cfgFidelidad = &cfg
	return nil
}

func (r *configRepo) GetCashback(_ context.Context) (*model.ConfigCashback, error) {
	defer r.s.lock()()
	if r.s.d.cfgCashback == nil {
		return nil, repository.ErrNotFound
	}
	cfg := *r.s.d.cfgCashback
	return &cfg, nil
}

func (r *configRepo) SaveCashback(_ context.Context, c *model.ConfigCashback) error {
	defer r.s.lock()()
	ensureID(&c.ID)
	c.UpdatedAt = ahora()
	cfg := *c
	r.s.d.cfgCashback = &cfg
	return nil
}
