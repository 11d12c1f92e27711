package service

import (
	"context"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/metrics"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FidelidadService is the loyalty points ledger. Every mutation appends one
// TransaccionFidelidad whose SaldoPosterior chains from the customer's balance
// read under lock, then stores that balance on the customer in the same unit of work.
type FidelidadService interface {
	Saldo(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoFidelidadResponse, error)
	Historial(ctx context.Context, clienteID uuid.UUID) ([]dto.TransaccionFidelidadResponse, error)
	// Replay folds the ledger in creation order. It must equal the stored balance.
	Replay(ctx context.Context, clienteID uuid.UUID) (int, error)
	Ajustar(ctx context.Context, clienteID uuid.UUID, req dto.AjustePuntosRequest) (*dto.TransaccionFidelidadResponse, error)
	CanjearRecompensa(ctx context.Context, clienteID uuid.UUID, req dto.CanjeRecompensaRequest) (*dto.TransaccionFidelidadResponse, error)
	// VencerPendientes expires every due ganancia the current balance still
	// covers and returns how many points were removed.
	VencerPendientes(ctx context.Context, now time.Time) (int, error)

	GanarTx(ctx context.Context, tx repository.Store, clienteID uuid.UUID, puntos int, ventaID *uuid.UUID, venceAt *time.Time) (*model.TransaccionFidelidad, error)
	CanjearTx(ctx context.Context, tx repository.Store, cfg model.ConfigFidelidad, clienteID uuid.UUID, puntos int, ventaID *uuid.UUID) (*model.TransaccionFidelidad, error)
	AjustarTx(ctx context.Context, tx repository.Store, mov MovimientoFidelidad) (*model.TransaccionFidelidad, error)
}

// MovimientoFidelidad describes one ledger row to append.
type MovimientoFidelidad struct {
	ClienteID uuid.UUID
	Tipo      string
	Puntos    int
	VentaID   *uuid.UUID
	VenceAt   *time.Time
	OrigenID  *uuid.UUID
	Motivo    string
	Actor     string
}

type fidelidadService struct {
	store       repository.Store
	recompensas RecompensaService
}

func NewFidelidadService(store repository.Store, recompensas RecompensaService) FidelidadService {
	return &fidelidadService{store: store, recompensas: recompensas}
}

func (s *fidelidadService) Saldo(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoFidelidadResponse, error) {
	c, err := s.store.Clientes().FindByID(ctx, clienteID)
	if err != nil {
		return nil, traducir(err, "cliente")
	}
	return &dto.SaldoFidelidadResponse{ClienteID: c.ID.String(), Puntos: c.PuntosFidelidad}, nil
}

func (s *fidelidadService) Historial(ctx context.Context, clienteID uuid.UUID) ([]dto.TransaccionFidelidadResponse, error) {
	if _, err := s.store.Clientes().FindByID(ctx, clienteID); err != nil {
		return nil, traducir(err, "cliente")
	}
	txs, err := s.store.Fidelidad().ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, infra(err)
	}
	out := make([]dto.TransaccionFidelidadResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, transaccionFidelidadToResponse(t))
	}
	return out, nil
}

func (s *fidelidadService) Replay(ctx context.Context, clienteID uuid.UUID) (int, error) {
	txs, err := s.store.Fidelidad().ListByCliente(ctx, clienteID)
	if err != nil {
		return 0, infra(err)
	}
	saldo := 0
	for _, t := range txs {
		saldo += t.Puntos
	}
	return saldo, nil
}

func (s *fidelidadService) Ajustar(ctx context.Context, clienteID uuid.UUID, req dto.AjustePuntosRequest) (*dto.TransaccionFidelidadResponse, error) {
	if req.Puntos == 0 {
		return nil, invalido("el ajuste debe ser distinto de cero")
	}
	var t *model.TransaccionFidelidad
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		t, err = s.AjustarTx(ctx, tx, MovimientoFidelidad{
			ClienteID: clienteID,
			Tipo:      model.TxAjuste,
			Puntos:    req.Puntos,
			Motivo:    req.Motivo,
			Actor:     req.Actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := transaccionFidelidadToResponse(*t)
	return &resp, nil
}

func (s *fidelidadService) CanjearRecompensa(ctx context.Context, clienteID uuid.UUID, req dto.CanjeRecompensaRequest) (*dto.TransaccionFidelidadResponse, error) {
	cfg, err := s.recompensas.ConfigFidelidad(ctx)
	if err != nil {
		return nil, err
	}
	if req.Puntos < cfg.MinimoPuntosCanje {
		return nil, invalido("el canje mínimo es de %d puntos", cfg.MinimoPuntosCanje)
	}
	var t *model.TransaccionFidelidad
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		t, err = s.AjustarTx(ctx, tx, MovimientoFidelidad{
			ClienteID: clienteID,
			Tipo:      model.TxCanjeRecompensa,
			Puntos:    -req.Puntos,
			Motivo:    req.Descripcion,
			Actor:     req.Actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := transaccionFidelidadToResponse(*t)
	return &resp, nil
}

// ── Tx-bound operations ───────────────────────────────────────────────────────

func (s *fidelidadService) GanarTx(ctx context.Context, tx repository.Store, clienteID uuid.UUID, puntos int, ventaID *uuid.UUID, venceAt *time.Time) (*model.TransaccionFidelidad, error) {
	if puntos <= 0 {
		return nil, invalido("los puntos ganados deben ser positivos")
	}
	return s.AjustarTx(ctx, tx, MovimientoFidelidad{
		ClienteID: clienteID,
		Tipo:      model.TxGanancia,
		Puntos:    puntos,
		VentaID:   ventaID,
		VenceAt:   venceAt,
	})
}

func (s *fidelidadService) CanjearTx(ctx context.Context, tx repository.Store, cfg model.ConfigFidelidad, clienteID uuid.UUID, puntos int, ventaID *uuid.UUID) (*model.TransaccionFidelidad, error) {
	if puntos <= 0 {
		return nil, invalido("los puntos a canjear deben ser positivos")
	}
	if puntos < cfg.MinimoPuntosCanje {
		return nil, invalido("el canje mínimo es de %d puntos", cfg.MinimoPuntosCanje)
	}
	return s.AjustarTx(ctx, tx, MovimientoFidelidad{
		ClienteID: clienteID,
		Tipo:      model.TxCanje,
		Puntos:    -puntos,
		VentaID:   ventaID,
	})
}

// AjustarTx is the single write path of the ledger. It locks the customer,
// rejects a move below zero, appends the row and stores the new balance.
func (s *fidelidadService) AjustarTx(ctx context.Context, tx repository.Store, mov MovimientoFidelidad) (*model.TransaccionFidelidad, error) {
	c, err := tx.Clientes().FindByIDForUpdate(ctx, mov.ClienteID)
	if err != nil {
		return nil, traducir(err, "cliente")
	}
	saldo := c.PuntosFidelidad + mov.Puntos
	if saldo < 0 {
		return nil, insuficiente("puntos insuficientes: saldo %d, requeridos %d", c.PuntosFidelidad, -mov.Puntos)
	}

	t := &model.TransaccionFidelidad{
		ClienteID:           mov.ClienteID,
		Tipo:                mov.Tipo,
		Puntos:              mov.Puntos,
		SaldoPosterior:      saldo,
		VentaID:             mov.VentaID,
		VenceAt:             mov.VenceAt,
		TransaccionOrigenID: mov.OrigenID,
		Motivo:              opcional(mov.Motivo),
		Actor:               opcional(mov.Actor),
	}
	if err := tx.Fidelidad().Create(ctx, t); err != nil {
		return nil, infra(err)
	}
	if err := tx.Clientes().SetPuntos(ctx, mov.ClienteID, saldo); err != nil {
		return nil, infra(err)
	}
	return t, nil
}

// ── VencerPendientes ──────────────────────────────────────────────────────────
// One transaction per cohort so a failure only leaves that cohort for the next sweep.

func (s *fidelidadService) VencerPendientes(ctx context.Context, now time.Time) (total int, err error) {
	ctx, fin := operacion(ctx, "FidelidadService.VencerPendientes")
	defer func() { fin(err) }()

	vencidas, err := s.store.Fidelidad().ListGananciasVencidas(ctx, now)
	if err != nil {
		return 0, infra(err)
	}

	omitidas := 0
	for _, g := range vencidas {
		var vencidos int
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			c, err := tx.Clientes().FindByIDForUpdate(ctx, g.ClienteID)
			if err != nil {
				return traducir(err, "cliente")
			}
			if g.Puntos > c.PuntosFidelidad {
				return nil
			}
			origen := g.ID
			if _, err := s.AjustarTx(ctx, tx, MovimientoFidelidad{
				ClienteID: g.ClienteID,
				Tipo:      model.TxVencimiento,
				Puntos:    -g.Puntos,
				VentaID:   g.VentaID,
				OrigenID:  &origen,
				Motivo:    "vencimiento de puntos",
			}); err != nil {
				return err
			}
			vencidos = g.Puntos
			return nil
		})
		if err != nil {
			log.Error().Err(err).Str("transaccion_id", g.ID.String()).Msg("vencimiento de puntos fallido")
			return total, err
		}
		if vencidos == 0 {
			omitidas++
		}
		total += vencidos
	}

	metrics.PuntosVencidos.Add(float64(total))
	log.Info().Int("puntos", total).Int("cohortes", len(vencidas)).Int("omitidas", omitidas).Msg("vencimiento de puntos completado")
	return total, nil
}

// revertirFidelidadTx offsets every uncompensated ganancia and canje the venta
// produced, linking each reversal to the row it offsets. It returns the net
// points moved.
func revertirFidelidadTx(ctx context.Context, s FidelidadService, tx repository.Store, clienteID, ventaID uuid.UUID, motivo, actor string) (int, error) {
	pendientes, err := fidelidadPendientesDeVenta(ctx, tx, ventaID)
	if err != nil {
		return 0, err
	}
	neto := 0
	for _, t := range pendientes {
		origen := t.ID
		if _, err := s.AjustarTx(ctx, tx, MovimientoFidelidad{
			ClienteID: clienteID,
			Tipo:      model.TxAjuste,
			Puntos:    -t.Puntos,
			VentaID:   &ventaID,
			OrigenID:  &origen,
			Motivo:    motivo,
			Actor:     actor,
		}); err != nil {
			return 0, err
		}
		neto -= t.Puntos
	}
	return neto, nil
}

// fidelidadPendientesDeVenta lists the ganancia/canje rows of a venta that no
// later row offsets.
func fidelidadPendientesDeVenta(ctx context.Context, tx repository.Store, ventaID uuid.UUID) ([]model.TransaccionFidelidad, error) {
	txs, err := tx.Fidelidad().ListByVenta(ctx, ventaID)
	if err != nil {
		return nil, infra(err)
	}
	compensadas := map[uuid.UUID]bool{}
	for _, t := range txs {
		if t.TransaccionOrigenID != nil {
			compensadas[*t.TransaccionOrigenID] = true
		}
	}
	var out []model.TransaccionFidelidad
	for _, t := range txs {
		if (t.Tipo == model.TxGanancia || t.Tipo == model.TxCanje) && !compensadas[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func transaccionFidelidadToResponse(t model.TransaccionFidelidad) dto.TransaccionFidelidadResponse {
	resp := dto.TransaccionFidelidadResponse{
		ID:             t.ID.String(),
		Tipo:           t.Tipo,
		Puntos:         t.Puntos,
		SaldoPosterior: t.SaldoPosterior,
		Motivo:         t.Motivo,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
	if t.VentaID != nil {
		id := t.VentaID.String()
		resp.VentaID = &id
	}
	if t.VenceAt != nil {
		v := t.VenceAt.Format(time.RFC3339)
		resp.VenceAt = &v
	}
	return resp
}

func opcional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
