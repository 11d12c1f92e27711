package memory

import (
	"context"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cajaRepo struct{ s *Store }

func (r *cajaRepo) CreateSesion(_ context.Context, sesion *model.SesionCaja) error {
	defer r.s.lock()()
	ensureID(&sesion.ID)
	if sesion.OpenedAt.IsZero() {
		sesion.OpenedAt = ahora()
	}
	r.s.d.sesiones[sesion.ID] = *sesion
	return nil
}

func (r *cajaRepo) FindSesionAbiertaPorPDV(_ context.Context, pdv int) (*model.SesionCaja, error) {
	defer r.s.lock()()
	for _, sesion := range r.s.d.sesiones {
		if sesion.PuntoDeVenta == pdv && sesion.Abierta() {
			return &sesion, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *cajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	defer r.s.lock()()
	sesion, ok := r.s.d.sesiones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sesion, nil
}

func (r *cajaRepo) CerrarSesion(_ context.Context, id uuid.UUID, arqueo model.ResultadoArqueo, closedAt time.Time) error {
	defer r.s.lock()()
	sesion, ok := r.s.d.sesiones[id]
	if !ok || !sesion.Abierta() {
		return repository.ErrNotFound
	}
	sesion.Estado = "cerrada"
	sesion.Arqueo = arqueo
	sesion.ClosedAt = &closedAt
	r.s.d.sesiones[id] = sesion
	return nil
}

func (r *cajaRepo) AplicarTotales(_ context.Context, id uuid.UUID, delta model.TotalesCaja) error {
	defer r.s.lock()()
	if err := r.s.falla("Cajas.AplicarTotales"); err != nil {
		return err
	}
	sesion, ok := r.s.d.sesiones[id]
	if !ok {
		return repository.ErrNotFound
	}
	t := &sesion.Totales
	t.Ventas = t.Ventas.Add(delta.Ventas)
	t.Efectivo = t.Efectivo.Add(delta.Efectivo)
	t.Tarjeta = t.Tarjeta.Add(delta.Tarjeta)
	t.Pix = t.Pix.Add(delta.Pix)
	t.Otros = t.Otros.Add(delta.Otros)
	r.s.d.sesiones[id] = sesion
	return nil
}

func (r *cajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	defer r.s.lock()()
	ensureID(&m.ID)
	m.CreatedAt = ahora()
	r.s.d.movCaja = append(r.s.d.movCaja, *m)
	return nil
}

func (r *cajaRepo) ListMovimientos(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	defer r.s.lock()()
	var out []model.MovimientoCaja
	for _, m := range r.s.d.movCaja {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *cajaRepo) SumMovimientosManuales(_ context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	defer r.s.lock()()
	sums := map[string]decimal.Decimal{}
	for _, m := range r.s.d.movCaja {
		if m.SesionCajaID != sesionID || m.MetodoPago == nil {
			continue
		}
		if m.Tipo != "ingreso_manual" && m.Tipo != "egreso_manual" {
			continue
		}
		sums[*m.MetodoPago] = sums[*m.MetodoPago].Add(m.Monto)
	}
	return sums, nil
}
