package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFidelidad struct {
	fallas int
	llamas int
	hasta  time.Time
}

func (f *fakeFidelidad) VencerPendientes(_ context.Context, now time.Time) (int, error) {
	f.llamas++
	f.hasta = now
	if f.llamas <= f.fallas {
		return 0, errors.New("db caída")
	}
	return 30, nil
}

type fakeCashback struct {
	llamas int
}

func (f *fakeCashback) VencerPendientes(context.Context, time.Time) (decimal.Decimal, error) {
	f.llamas++
	return decimal.RequireFromString("0.60"), nil
}

func nuevoJob(t *testing.T, tipo string, hasta time.Time) Job {
	t.Helper()
	data, err := json.Marshal(VencimientoPayload{Hasta: hasta})
	require.NoError(t, err)
	return Job{ID: "job-1", Type: tipo, Payload: data, EnqueuedAt: time.Now()}
}

func procesadorRapido(fid VencedorFidelidad, cb VencedorCashback) *Procesador {
	p := NewProcesador(fid, cb)
	p.backoff = time.Millisecond
	return p
}

func TestProcess_VencerFidelidad(t *testing.T) {
	fid := &fakeFidelidad{}
	hasta := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)

	attempts, err := procesadorRapido(fid, &fakeCashback{}).Process(context.Background(), nuevoJob(t, JobVencerFidelidad, hasta))
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.True(t, hasta.Equal(fid.hasta))
}

func TestProcess_VencerCashback(t *testing.T) {
	cb := &fakeCashback{}

	attempts, err := procesadorRapido(&fakeFidelidad{}, cb).Process(context.Background(), nuevoJob(t, JobVencerCashback, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, cb.llamas)
}

func TestProcess_ReintentaHastaExito(t *testing.T) {
	fid := &fakeFidelidad{fallas: 2}

	attempts, err := procesadorRapido(fid, &fakeCashback{}).Process(context.Background(), nuevoJob(t, JobVencerFidelidad, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestProcess_AgotaIntentos(t *testing.T) {
	fid := &fakeFidelidad{fallas: MaxJobAttempts}

	attempts, err := procesadorRapido(fid, &fakeCashback{}).Process(context.Background(), nuevoJob(t, JobVencerFidelidad, time.Now()))
	require.Error(t, err)
	assert.Equal(t, MaxJobAttempts, attempts)
	assert.Equal(t, MaxJobAttempts, fid.llamas)
}

func TestProcess_JobsInvalidos(t *testing.T) {
	p := procesadorRapido(&fakeFidelidad{}, &fakeCashback{})

	attempts, err := p.Process(context.Background(), Job{ID: "x", Type: JobVencerFidelidad, Payload: json.RawMessage(`{"hasta":`)})
	require.Error(t, err)
	assert.Zero(t, attempts)

	attempts, err = p.Process(context.Background(), nuevoJob(t, "imprimir_ticket", time.Now()))
	require.Error(t, err)
	assert.Zero(t, attempts)
}

func TestProcess_HastaVacioUsaAhora(t *testing.T) {
	fid := &fakeFidelidad{}
	antes := time.Now().UTC()

	_, err := procesadorRapido(fid, &fakeCashback{}).Process(context.Background(), Job{ID: "x", Type: JobVencerFidelidad, Payload: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.False(t, fid.hasta.Before(antes))
}

func TestWithRetry_RespetaContexto(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llamadas := 0

	err := withRetry(ctx, MaxJobAttempts, time.Hour, func(int) error {
		llamadas++
		cancel()
		return errors.New("falla")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, llamadas)
}

type fakeEncolador struct{}

func (fakeEncolador) EncolarVencimientos(context.Context) ([]string, error) { return []string{"a", "b"}, nil }

func (fakeEncolador) ReencolarFallidos(context.Context) (int, error) { return 0, nil }

func TestStartScheduler(t *testing.T) {
	s, err := StartScheduler(time.UTC, "03:00", fakeEncolador{})
	require.NoError(t, err)
	t.Cleanup(s.Stop)
	assert.Len(t, s.Jobs(), 1)

	_, err = StartScheduler(time.UTC, "25:99", fakeEncolador{})
	assert.Error(t, err)
}
