package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Encolador is what the scheduler and the HTTP triggers need from Dispatcher.
type Encolador interface {
	EncolarVencimientos(ctx context.Context) ([]string, error)
	ReencolarFallidos(ctx context.Context) (int, error)
}

// StartScheduler enqueues both expiration sweeps once a day at hora (HH:MM)
// in loc. The caller stops the returned scheduler on shutdown.
func StartScheduler(loc *time.Location, hora string, enc Encolador) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(loc)
	_, err := s.Every(1).Day().At(hora).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ids, err := enc.EncolarVencimientos(ctx)
		if err != nil {
			log.Error().Err(err).Msg("scheduler: no se pudieron encolar los vencimientos")
			return
		}
		log.Info().Strs("jobs", ids).Msg("scheduler: vencimientos encolados")
	})
	if err != nil {
		return nil, err
	}
	s.StartAsync()
	log.Info().Str("hora", hora).Str("tz", loc.String()).Msg("scheduler started")
	return s, nil
}
