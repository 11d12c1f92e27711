package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/metrics"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MaxJobAttempts is how many times a job runs before it goes to the DLQ.
const MaxJobAttempts = 3

// VencedorFidelidad and VencedorCashback are the sweeps the jobs trigger.
type VencedorFidelidad interface {
	VencerPendientes(ctx context.Context, now time.Time) (int, error)
}

type VencedorCashback interface {
	VencerPendientes(ctx context.Context, now time.Time) (decimal.Decimal, error)
}

// Procesador runs reward jobs with retry and exponential backoff.
type Procesador struct {
	fidelidad VencedorFidelidad
	cashback  VencedorCashback
	backoff   time.Duration
}

func NewProcesador(fidelidad VencedorFidelidad, cashback VencedorCashback) *Procesador {
	return &Procesador{fidelidad: fidelidad, cashback: cashback, backoff: time.Second}
}

// Process runs job and returns the number of attempts made. A non-nil error
// means every attempt failed or the job can never succeed.
func (p *Procesador) Process(ctx context.Context, job Job) (int, error) {
	var payload VencimientoPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		metrics.JobsProcesados.WithLabelValues(job.Type, "invalido").Inc()
		return 0, fmt.Errorf("payload inválido: %w", err)
	}
	if payload.Hasta.IsZero() {
		payload.Hasta = time.Now().UTC()
	}

	var run func(attempt int) error
	switch job.Type {
	case JobVencerFidelidad:
		run = func(attempt int) error {
			puntos, err := p.fidelidad.VencerPendientes(ctx, payload.Hasta)
			if err != nil {
				log.Warn().Err(err).Str("job_id", job.ID).Int("attempt", attempt+1).Msg("vencer_fidelidad: attempt failed")
				return err
			}
			log.Info().Str("job_id", job.ID).Int("puntos", puntos).Msg("vencer_fidelidad: done")
			return nil
		}
	case JobVencerCashback:
		run = func(attempt int) error {
			monto, err := p.cashback.VencerPendientes(ctx, payload.Hasta)
			if err != nil {
				log.Warn().Err(err).Str("job_id", job.ID).Int("attempt", attempt+1).Msg("vencer_cashback: attempt failed")
				return err
			}
			log.Info().Str("job_id", job.ID).Str("monto", monto.StringFixed(2)).Msg("vencer_cashback: done")
			return nil
		}
	default:
		metrics.JobsProcesados.WithLabelValues(job.Type, "invalido").Inc()
		return 0, fmt.Errorf("tipo de job desconocido: %s", job.Type)
	}

	attempts := 0
	err := withRetry(ctx, MaxJobAttempts, p.backoff, func(attempt int) error {
		attempts = attempt + 1
		return run(attempt)
	})
	if err != nil {
		metrics.JobsProcesados.WithLabelValues(job.Type, "fallido").Inc()
		return attempts, err
	}
	metrics.JobsProcesados.WithLabelValues(job.Type, "ok").Inc()
	return attempts, nil
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = base, 3 = 2*base.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * base
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
