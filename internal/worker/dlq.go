package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces the dead letter list of each queue: dlq:{queue}.
const DLQPrefix = "dlq:"

// JobFallido is what the dead letter queue stores. Job is nil when the queue
// entry could not even be decoded; Crudo then keeps the original bytes.
type JobFallido struct {
	Cola     string    `json:"cola"`
	Job      *Job      `json:"job,omitempty"`
	Crudo    string    `json:"crudo,omitempty"`
	Motivo   string    `json:"motivo"`
	Intentos int       `json:"intentos"`
	FalloAt  time.Time `json:"fallo_at"`
}

// SendToDLQ parks a job that exhausted its attempts or can never run.
func SendToDLQ(ctx context.Context, rdb *redis.Client, f JobFallido) {
	if f.FalloAt.IsZero() {
		f.FalloAt = time.Now().UTC()
	}
	data, err := json.Marshal(f)
	if err != nil {
		log.Error().Err(err).Str("queue", f.Cola).Msg("dlq: failed to marshal entry")
		return
	}

	key := DLQPrefix + f.Cola
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: failed to push entry")
		return
	}

	ev := log.Warn().Str("queue", f.Cola).Str("motivo", f.Motivo).Int("intentos", f.Intentos)
	if f.Job != nil {
		ev = ev.Str("job_id", f.Job.ID).Str("job_type", f.Job.Type)
	}
	ev.Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries parked for queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// Reencolar moves up to max parked jobs of queue back onto it, oldest first,
// and returns how many were requeued. Entries without a decodable job are
// dropped since no retry can fix them.
func Reencolar(ctx context.Context, rdb *redis.Client, queue string, max int) (int, error) {
	key := DLQPrefix + queue
	movidos := 0
	for i := 0; i < max; i++ {
		raw, err := rdb.RPop(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return movidos, err
		}

		var f JobFallido
		if err := json.Unmarshal([]byte(raw), &f); err != nil || f.Job == nil {
			log.Warn().Str("dlq_key", key).Msg("dlq: entrada sin job descartada")
			continue
		}
		data, err := json.Marshal(f.Job)
		if err != nil {
			return movidos, err
		}
		if err := rdb.LPush(ctx, queue, data).Err(); err != nil {
			// put it back so the entry is not lost
			_ = rdb.RPush(ctx, key, raw).Err()
			return movidos, err
		}
		movidos++
	}
	if movidos > 0 {
		log.Info().Str("queue", queue).Int("jobs", movidos).Msg("dlq: jobs reencolados")
	}
	return movidos, nil
}
