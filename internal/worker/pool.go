package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueRecompensas = "jobs:recompensas"

// Job types carried on QueueRecompensas.
const (
	JobVencerFidelidad = "vencer_fidelidad"
	JobVencerCashback  = "vencer_cashback"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// VencimientoPayload is the payload of both expiration jobs: every ganancia
// due at or before Hasta is expired.
type VencimientoPayload struct {
	Hasta time.Time `json:"hasta"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarVencimientos pushes one loyalty and one cashback expiration sweep
// and returns the job ids.
func (d *Dispatcher) EncolarVencimientos(ctx context.Context) ([]string, error) {
	payload := VencimientoPayload{Hasta: time.Now().UTC()}
	ids := make([]string, 0, 2)
	for _, tipo := range []string{JobVencerFidelidad, JobVencerCashback} {
		id, err := d.enqueue(ctx, QueueRecompensas, tipo, payload)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// maxReencolar bounds one manual DLQ replay.
const maxReencolar = 100

// ReencolarFallidos moves parked reward jobs back onto QueueRecompensas.
func (d *Dispatcher) ReencolarFallidos(ctx context.Context) (int, error) {
	return Reencolar(ctx, d.rdb, QueueRecompensas, maxReencolar)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	job := Job{ID: uuid.NewString(), Type: jobType, Payload: data, EnqueuedAt: time.Now().UTC()}
	encoded, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return "", err
	}
	log.Info().Str("job_id", job.ID).Str("type", jobType).Str("queue", queue).Msg("job enqueued")
	return job.ID, nil
}

const (
	brpopTimeout   = 5 * time.Second
	pausaTrasFallo = time.Second
)

// StartWorkerPool runs numWorkers consumers of QueueRecompensas until ctx is
// cancelled. The returned func blocks until every consumer has finished its
// current job.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, p *Procesador) (esperar func()) {
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, id, p)
		}(i)
	}
	log.Info().Int("workers", numWorkers).Str("queue", QueueRecompensas).Msg("worker pool started")
	return wg.Wait
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, p *Procesador) {
	logger := log.With().Int("worker", id).Logger()
	for ctx.Err() == nil {
		result, err := rdb.BRPop(ctx, brpopTimeout, QueueRecompensas).Result()
		switch {
		case errors.Is(err, redis.Nil), ctx.Err() != nil:
			continue
		case err != nil:
			logger.Warn().Err(err).Msg("brpop failed")
			select {
			case <-ctx.Done():
			case <-time.After(pausaTrasFallo):
			}
			continue
		case len(result) < 2:
			continue
		}
		processJob(ctx, rdb, p, result[0], result[1])
	}
	logger.Info().Msg("worker stopped")
}

func processJob(ctx context.Context, rdb *redis.Client, p *Procesador, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, JobFallido{Cola: queue, Crudo: raw, Motivo: "job ilegible: " + err.Error()})
		return
	}
	log.Info().Str("job_id", job.ID).Str("type", job.Type).Str("queue", queue).Msg("processing job")

	attempts, err := p.Process(ctx, job)
	if err != nil {
		SendToDLQ(ctx, rdb, JobFallido{Cola: queue, Job: &job, Motivo: err.Error(), Intentos: attempts})
	}
}
