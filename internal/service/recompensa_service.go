package service

import (
	"context"
	"errors"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/cache"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// ConfigRecompensas is the reward configuration a settlement runs with. It is
// read once per operation and passed down explicitly.
type ConfigRecompensas struct {
	Fidelidad model.ConfigFidelidad
	Cashback  model.ConfigCashback
}

type RecompensaService interface {
	// ConfigFidelidad returns the stored row, or an inactive zero config when
	// none exists yet. Reads never create the row.
	ConfigFidelidad(ctx context.Context) (model.ConfigFidelidad, error)
	ConfigCashback(ctx context.Context) (model.ConfigCashback, error)
	Configs(ctx context.Context) (ConfigRecompensas, error)
	GuardarConfigFidelidad(ctx context.Context, req dto.ConfigFidelidadRequest) (*dto.ConfigFidelidadResponse, error)
	GuardarConfigCashback(ctx context.Context, req dto.ConfigCashbackRequest) (*dto.ConfigCashbackResponse, error)
}

type recompensaService struct {
	store repository.Store
	cache cache.ConfigCache
	ttl   time.Duration
}

func NewRecompensaService(store repository.Store, c cache.ConfigCache, ttl time.Duration) RecompensaService {
	if c == nil {
		c = cache.NoopConfigCache{}
	}
	return &recompensaService{store: store, cache: c, ttl: ttl}
}

func (s *recompensaService) ConfigFidelidad(ctx context.Context) (model.ConfigFidelidad, error) {
	if cfg, ok, err := s.cache.GetFidelidad(ctx); err == nil && ok {
		return *cfg, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("cache de configuracion no disponible")
	}
	cfg, err := s.store.Recompensas().GetFidelidad(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ConfigFidelidad{}, nil
	}
	if err != nil {
		return model.ConfigFidelidad{}, infra(err)
	}
	if err := s.cache.SetFidelidad(ctx, cfg, s.ttl); err != nil {
		log.Warn().Err(err).Msg("no se pudo cachear config de fidelidad")
	}
	return *cfg, nil
}

func (s *recompensaService) ConfigCashback(ctx context.Context) (model.ConfigCashback, error) {
	if cfg, ok, err := s.cache.GetCashback(ctx); err == nil && ok {
		return *cfg, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("cache de configuracion no disponible")
	}
	cfg, err := s.store.Recompensas().GetCashback(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ConfigCashback{}, nil
	}
	if err != nil {
		return model.ConfigCashback{}, infra(err)
	}
	if err := s.cache.SetCashback(ctx, cfg, s.ttl); err != nil {
		log.Warn().Err(err).Msg("no se pudo cachear config de cashback")
	}
	return *cfg, nil
}

func (s *recompensaService) Configs(ctx context.Context) (ConfigRecompensas, error) {
	fid, err := s.ConfigFidelidad(ctx)
	if err != nil {
		return ConfigRecompensas{}, err
	}
	cb, err := s.ConfigCashback(ctx)
	if err != nil {
		return ConfigRecompensas{}, err
	}
	return ConfigRecompensas{Fidelidad: fid, Cashback: cb}, nil
}

// ── Guardar ───────────────────────────────────────────────────────────────────
// The first write starts from the defaults; later writes patch the stored row.

func (s *recompensaService) GuardarConfigFidelidad(ctx context.Context, req dto.ConfigFidelidadRequest) (*dto.ConfigFidelidadResponse, error) {
	cfg, err := s.store.Recompensas().GetFidelidad(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		def := model.DefaultConfigFidelidad()
		cfg, err = &def, nil
	}
	if err != nil {
		return nil, infra(err)
	}

	if req.PuntosPorReal != nil {
		cfg.PuntosPorReal = *req.PuntosPorReal
	}
	if req.CompraMinimaPuntos != nil {
		cfg.CompraMinimaPuntos = *req.CompraMinimaPuntos
	}
	if req.DiasVencimientoPuntos != nil {
		cfg.DiasVencimientoPuntos = *req.DiasVencimientoPuntos
	}
	if req.MinimoPuntosCanje != nil {
		cfg.MinimoPuntosCanje = *req.MinimoPuntosCanje
	}
	if req.ValorCanjePunto != nil {
		cfg.ValorCanjePunto = *req.ValorCanjePunto
	}
	if req.Activo != nil {
		cfg.Activo = *req.Activo
	}
	if req.AplicarATodos != nil {
		cfg.AplicarATodos = *req.AplicarATodos
	}

	switch {
	case cfg.PuntosPorReal.IsNegative(), cfg.CompraMinimaPuntos.IsNegative(), cfg.ValorCanjePunto.IsNegative():
		return nil, invalido("los valores de fidelidad no pueden ser negativos")
	case cfg.DiasVencimientoPuntos < 0 || cfg.MinimoPuntosCanje < 0:
		return nil, invalido("los valores de fidelidad no pueden ser negativos")
	}

	if err := s.store.Recompensas().SaveFidelidad(ctx, cfg); err != nil {
		return nil, infra(err)
	}
	s.invalidar(ctx)
	log.Info().Bool("activo", cfg.Activo).Str("puntos_por_real", cfg.PuntosPorReal.String()).Msg("config de fidelidad actualizada")
	return ConfigFidelidadToResponse(*cfg), nil
}

func (s *recompensaService) GuardarConfigCashback(ctx context.Context, req dto.ConfigCashbackRequest) (*dto.ConfigCashbackResponse, error) {
	cfg, err := s.store.Recompensas().GetCashback(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		def := model.DefaultConfigCashback()
		cfg, err = &def, nil
	}
	if err != nil {
		return nil, infra(err)
	}

	if req.PorcentajeCashback != nil {
		cfg.PorcentajeCashback = *req.PorcentajeCashback
	}
	if req.CompraMinimaCashback != nil {
		cfg.CompraMinimaCashback = *req.CompraMinimaCashback
	}
	if req.CashbackMaximoPorCompra != nil {
		maximo := *req.CashbackMaximoPorCompra
		if maximo.IsZero() {
			cfg.CashbackMaximoPorCompra = nil
		} else {
			cfg.CashbackMaximoPorCompra = &maximo
		}
	}
	if req.DiasVencimientoCashback != nil {
		cfg.DiasVencimientoCashback = *req.DiasVencimientoCashback
	}
	if req.MinimoCanjeCashback != nil {
		cfg.MinimoCanjeCashback = *req.MinimoCanjeCashback
	}
	if req.Activo != nil {
		cfg.Activo = *req.Activo
	}
	if req.AplicarATodos != nil {
		cfg.AplicarATodos = *req.AplicarATodos
	}

	if cfg.PorcentajeCashback.IsNegative() || cfg.PorcentajeCashback.GreaterThan(cien) {
		return nil, invalido("porcentaje_cashback debe estar entre 0 y 100")
	}
	if cfg.CompraMinimaCashback.IsNegative() || cfg.MinimoCanjeCashback.IsNegative() || cfg.DiasVencimientoCashback < 0 {
		return nil, invalido("los valores de cashback no pueden ser negativos")
	}
	if cfg.CashbackMaximoPorCompra != nil && cfg.CashbackMaximoPorCompra.IsNegative() {
		return nil, invalido("cashback_maximo_por_compra no puede ser negativo")
	}

	if err := s.store.Recompensas().SaveCashback(ctx, cfg); err != nil {
		return nil, infra(err)
	}
	s.invalidar(ctx)
	log.Info().Bool("activo", cfg.Activo).Str("porcentaje", cfg.PorcentajeCashback.String()).Msg("config de cashback actualizada")
	return ConfigCashbackToResponse(*cfg), nil
}

func (s *recompensaService) invalidar(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar el cache de configuracion")
	}
}

// vencimiento returns now + dias, or nil when the program never expires entries.
func vencimiento(now time.Time, dias int) *time.Time {
	if dias <= 0 {
		return nil
	}
	t := now.AddDate(0, 0, dias)
	return &t
}

func ConfigFidelidadToResponse(c model.ConfigFidelidad) *dto.ConfigFidelidadResponse {
	return &dto.ConfigFidelidadResponse{
		PuntosPorReal:         c.PuntosPorReal,
		CompraMinimaPuntos:    c.CompraMinimaPuntos,
		DiasVencimientoPuntos: c.DiasVencimientoPuntos,
		MinimoPuntosCanje:     c.MinimoPuntosCanje,
		ValorCanjePunto:       c.ValorCanjePunto,
		Activo:                c.Activo,
		AplicarATodos:         c.AplicarATodos,
	}
}

func ConfigCashbackToResponse(c model.ConfigCashback) *dto.ConfigCashbackResponse {
	return &dto.ConfigCashbackResponse{
		PorcentajeCashback:      c.PorcentajeCashback,
		CompraMinimaCashback:    c.CompraMinimaCashback,
		CashbackMaximoPorCompra: c.CashbackMaximoPorCompra,
		DiasVencimientoCashback: c.DiasVencimientoCashback,
		MinimoCanjeCashback:     c.MinimoCanjeCashback,
		Activo:                  c.Activo,
		AplicarATodos:           c.AplicarATodos,
	}
}
