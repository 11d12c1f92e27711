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
	"github.com/shopspring/decimal"
)

// CashbackService is the cashback ledger. Same chaining rules as FidelidadService,
// with amounts in currency.
type CashbackService interface {
	Saldo(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoCashbackResponse, error)
	Historial(ctx context.Context, clienteID uuid.UUID) ([]dto.TransaccionCashbackResponse, error)
	Replay(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error)
	Ajustar(ctx context.Context, clienteID uuid.UUID, req dto.AjusteCashbackRequest) (*dto.TransaccionCashbackResponse, error)
	Canjear(ctx context.Context, clienteID uuid.UUID, req dto.CanjeCashbackRequest) (*dto.TransaccionCashbackResponse, error)
	Transferir(ctx context.Context, origenID uuid.UUID, req dto.TransferenciaCashbackRequest) error
	VencerPendientes(ctx context.Context, now time.Time) (decimal.Decimal, error)

	GanarTx(ctx context.Context, tx repository.Store, clienteID uuid.UUID, monto decimal.Decimal, ventaID *uuid.UUID, venceAt *time.Time) (*model.TransaccionCashback, error)
	CanjearTx(ctx context.Context, tx repository.Store, cfg model.ConfigCashback, clienteID uuid.UUID, monto decimal.Decimal, ventaID *uuid.UUID) (*model.TransaccionCashback, error)
	AjustarTx(ctx context.Context, tx repository.Store, mov MovimientoCashback) (*model.TransaccionCashback, error)
}

// MovimientoCashback describes one ledger row to append.
type MovimientoCashback struct {
	ClienteID uuid.UUID
	Tipo      string
	Monto     decimal.Decimal
	VentaID   *uuid.UUID
	VenceAt   *time.Time
	OrigenID  *uuid.UUID
	Motivo    string
	Actor     string
}

type cashbackService struct {
	store       repository.Store
	recompensas RecompensaService
}

func NewCashbackService(store repository.Store, recompensas RecompensaService) CashbackService {
	return &cashbackService{store: store, recompensas: recompensas}
}

func (s *cashbackService) Saldo(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoCashbackResponse, error) {
	c, err := s.store.Clientes().FindByID(ctx, clienteID)
	if err != nil {
		return nil, traducir(err, "cliente")
	}
	return &dto.SaldoCashbackResponse{ClienteID: c.ID.String(), Saldo: c.SaldoCashback}, nil
}

func (s *cashbackService) Historial(ctx context.Context, clienteID uuid.UUID) ([]dto.TransaccionCashbackResponse, error) {
	if _, err := s.store.Clientes().FindByID(ctx, clienteID); err != nil {
		return nil, traducir(err, "cliente")
	}
	txs, err := s.store.Cashback().ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, infra(err)
	}
	out := make([]dto.TransaccionCashbackResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, transaccionCashbackToResponse(t))
	}
	return out, nil
}

func (s *cashbackService) Replay(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	txs, err := s.store.Cashback().ListByCliente(ctx, clienteID)
	if err != nil {
		return decimal.Zero, infra(err)
	}
	saldo := decimal.Zero
	for _, t := range txs {
		saldo = saldo.Add(t.Monto)
	}
	return saldo, nil
}

func (s *cashbackService) Ajustar(ctx context.Context, clienteID uuid.UUID, req dto.AjusteCashbackRequest) (*dto.TransaccionCashbackResponse, error) {
	if req.Monto.IsZero() {
		return nil, invalido("el ajuste debe ser distinto de cero")
	}
	var t *model.TransaccionCashback
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		t, err = s.AjustarTx(ctx, tx, MovimientoCashback{
			ClienteID: clienteID,
			Tipo:      model.TxAjuste,
			Monto:     req.Monto.Round(2),
			Motivo:    req.Motivo,
			Actor:     req.Actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := transaccionCashbackToResponse(*t)
	return &resp, nil
}

func (s *cashbackService) Canjear(ctx context.Context, clienteID uuid.UUID, req dto.CanjeCashbackRequest) (*dto.TransaccionCashbackResponse, error) {
	cfg, err := s.recompensas.ConfigCashback(ctx)
	if err != nil {
		return nil, err
	}
	var t *model.TransaccionCashback
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		t, err = s.CanjearTx(ctx, tx, cfg, clienteID, req.Monto.Round(2), nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := transaccionCashbackToResponse(*t)
	return &resp, nil
}

// Transferir moves balance between two customers as a salida/entrada pair in
// one transaction. The customers are locked in id order.
func (s *cashbackService) Transferir(ctx context.Context, origenID uuid.UUID, req dto.TransferenciaCashbackRequest) error {
	destinoID, err := uuid.Parse(req.DestinoID)
	if err != nil {
		return invalido("destino_id inválido")
	}
	if destinoID == origenID {
		return invalido("el origen y el destino deben ser distintos")
	}
	monto := req.Monto.Round(2)
	if !monto.IsPositive() {
		return invalido("el monto debe ser positivo")
	}

	return s.store.Transaction(ctx, func(tx repository.Store) error {
		primero, segundo := origenID, destinoID
		if segundo.String() < primero.String() {
			primero, segundo = segundo, primero
		}
		for _, id := range []uuid.UUID{primero, segundo} {
			if _, err := tx.Clientes().FindByIDForUpdate(ctx, id); err != nil {
				return traducir(err, "cliente")
			}
		}
		salida, err := s.AjustarTx(ctx, tx, MovimientoCashback{
			ClienteID: origenID,
			Tipo:      model.TxTransferenciaSalida,
			Monto:     monto.Neg(),
			Motivo:    "transferencia a " + destinoID.String(),
			Actor:     req.Actor,
		})
		if err != nil {
			return err
		}
		_, err = s.AjustarTx(ctx, tx, MovimientoCashback{
			ClienteID: destinoID,
			Tipo:      model.TxTransferenciaEntrada,
			Monto:     monto,
			OrigenID:  &salida.ID,
			Motivo:    "transferencia de " + origenID.String(),
			Actor:     req.Actor,
		})
		return err
	})
}

// ── Tx-bound operations ───────────────────────────────────────────────────────

func (s *cashbackService) GanarTx(ctx context.Context, tx repository.Store, clienteID uuid.UUID, monto decimal.Decimal, ventaID *uuid.UUID, venceAt *time.Time) (*model.TransaccionCashback, error) {
	if !monto.IsPositive() {
		return nil, invalido("el cashback ganado debe ser positivo")
	}
	return s.AjustarTx(ctx, tx, MovimientoCashback{
		ClienteID: clienteID,
		Tipo:      model.TxGanancia,
		Monto:     monto,
		VentaID:   ventaID,
		VenceAt:   venceAt,
	})
}

func (s *cashbackService) CanjearTx(ctx context.Context, tx repository.Store, cfg model.ConfigCashback, clienteID uuid.UUID, monto decimal.Decimal, ventaID *uuid.UUID) (*model.TransaccionCashback, error) {
	if !monto.IsPositive() {
		return nil, invalido("el monto a canjear debe ser positivo")
	}
	if monto.LessThan(cfg.MinimoCanjeCashback) {
		return nil, invalido("el canje mínimo de cashback es %s", cfg.MinimoCanjeCashback.StringFixed(2))
	}
	return s.AjustarTx(ctx, tx, MovimientoCashback{
		ClienteID: clienteID,
		Tipo:      model.TxCanje,
		Monto:     monto.Neg(),
		VentaID:   ventaID,
	})
}

// AjustarTx is the single write path of the ledger.
func (s *cashbackService) AjustarTx(ctx context.Context, tx repository.Store, mov MovimientoCashback) (*model.TransaccionCashback, error) {
	c, err := tx.Clientes().FindByIDForUpdate(ctx, mov.ClienteID)
	if err != nil {
		return nil, traducir(err, "cliente")
	}
	saldo := c.SaldoCashback.Add(mov.Monto)
	if saldo.IsNegative() {
		return nil, insuficiente("saldo de cashback insuficiente: saldo %s, requerido %s",
			c.SaldoCashback.StringFixed(2), mov.Monto.Neg().StringFixed(2))
	}

	t := &model.TransaccionCashback{
		ClienteID:           mov.ClienteID,
		Tipo:                mov.Tipo,
		Monto:               mov.Monto,
		SaldoPosterior:      saldo,
		VentaID:             mov.VentaID,
		VenceAt:             mov.VenceAt,
		TransaccionOrigenID: mov.OrigenID,
		Motivo:              opcional(mov.Motivo),
		Actor:               opcional(mov.Actor),
	}
	if err := tx.Cashback().Create(ctx, t); err != nil {
		return nil, infra(err)
	}
	if err := tx.Clientes().SetSaldoCashback(ctx, mov.ClienteID, saldo); err != nil {
		return nil, infra(err)
	}
	return t, nil
}

// ── VencerPendientes ──────────────────────────────────────────────────────────

func (s *cashbackService) VencerPendientes(ctx context.Context, now time.Time) (total decimal.Decimal, err error) {
	ctx, fin := operacion(ctx, "CashbackService.VencerPendientes")
	defer func() { fin(err) }()

	vencidas, err := s.store.Cashback().ListGananciasVencidas(ctx, now)
	if err != nil {
		return decimal.Zero, infra(err)
	}

	omitidas := 0
	for _, g := range vencidas {
		vencido := decimal.Zero
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			c, err := tx.Clientes().FindByIDForUpdate(ctx, g.ClienteID)
			if err != nil {
				return traducir(err, "cliente")
			}
			if g.Monto.GreaterThan(c.SaldoCashback) {
				return nil
			}
			origen := g.ID
			if _, err := s.AjustarTx(ctx, tx, MovimientoCashback{
				ClienteID: g.ClienteID,
				Tipo:      model.TxVencimiento,
				Monto:     g.Monto.Neg(),
				VentaID:   g.VentaID,
				OrigenID:  &origen,
				Motivo:    "vencimiento de cashback",
			}); err != nil {
				return err
			}
			vencido = g.Monto
			return nil
		})
		if err != nil {
			log.Error().Err(err).Str("transaccion_id", g.ID.String()).Msg("vencimiento de cashback fallido")
			return total, err
		}
		if vencido.IsZero() {
			omitidas++
		}
		total = total.Add(vencido)
	}

	f, _ := total.Float64()
	metrics.CashbackVencido.Add(f)
	log.Info().Str("monto", total.StringFixed(2)).Int("cohortes", len(vencidas)).Int("omitidas", omitidas).Msg("vencimiento de cashback completado")
	return total, nil
}

// revertirCashbackTx offsets every uncompensated ganancia the venta produced
// and returns the amount removed.
func revertirCashbackTx(ctx context.Context, s CashbackService, tx repository.Store, clienteID, ventaID uuid.UUID, motivo, actor string) (decimal.Decimal, error) {
	pendientes, err := cashbackPendientesDeVenta(ctx, tx, ventaID)
	if err != nil {
		return decimal.Zero, err
	}
	revertido := decimal.Zero
	for _, t := range pendientes {
		origen := t.ID
		if _, err := s.AjustarTx(ctx, tx, MovimientoCashback{
			ClienteID: clienteID,
			Tipo:      model.TxAjuste,
			Monto:     t.Monto.Neg(),
			VentaID:   &ventaID,
			OrigenID:  &origen,
			Motivo:    motivo,
			Actor:     actor,
		}); err != nil {
			return decimal.Zero, err
		}
		revertido = revertido.Add(t.Monto)
	}
	return revertido, nil
}

func cashbackPendientesDeVenta(ctx context.Context, tx repository.Store, ventaID uuid.UUID) ([]model.TransaccionCashback, error) {
	txs, err := tx.Cashback().ListByVenta(ctx, ventaID)
	if err != nil {
		return nil, infra(err)
	}
	compensadas := map[uuid.UUID]bool{}
	for _, t := range txs {
		if t.TransaccionOrigenID != nil {
			compensadas[*t.TransaccionOrigenID] = true
		}
	}
	var out []model.TransaccionCashback
	for _, t := range txs {
		if t.Tipo == model.TxGanancia && !compensadas[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func transaccionCashbackToResponse(t model.TransaccionCashback) dto.TransaccionCashbackResponse {
	resp := dto.TransaccionCashbackResponse{
		ID:             t.ID.String(),
		Tipo:           t.Tipo,
		Monto:          t.Monto,
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
