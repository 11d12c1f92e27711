package cache

import (
	"context"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
)

// ConfigCache keeps the reward program configuration rows close to the engine.
// A miss is (nil, false, nil); callers fall back to the database.
type ConfigCache interface {
	GetFidelidad(ctx context.Context) (*model.ConfigFidelidad, bool, error)
	SetFidelidad(ctx context.Context, cfg *model.ConfigFidelidad, ttl time.Duration) error
	GetCashback(ctx context.Context) (*model.ConfigCashback, bool, error)
	SetCashback(ctx context.Context, cfg *model.ConfigCashback, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type NoopConfigCache struct{}

func (NoopConfigCache) GetFidelidad(_ context.Context) (*model.ConfigFidelidad, bool, error) {
	return nil, false, nil
}

func (NoopConfigCache) SetFidelidad(_ context.Context, _ *model.ConfigFidelidad, _ time.Duration) error {
	return nil
}

func (NoopConfigCache) GetCashback(_ context.Context) (*model.ConfigCashback, bool, error) {
	return nil, false, nil
}

func (NoopConfigCache) SetCashback(_ context.Context, _ *model.ConfigCashback, _ time.Duration) error {
	return nil
}

func (NoopConfigCache) Invalidate(_ context.Context) error { return nil }
