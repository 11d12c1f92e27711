package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// contador counts hits of a client inside its current window and tells how
// long until that window ends.
type contador interface {
	registrar(ctx context.Context, cliente string) (hits int64, resta time.Duration, err error)
}

// RateLimiter caps each client IP at limit requests per window. With Redis
// the windows are shared by every replica; without it each process keeps its
// own. A limit of zero or less disables it.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	var cnt contador = newContadorMemoria(window)
	if rdb != nil {
		cnt = &contadorRedis{rdb: rdb, window: window}
	}

	return func(c *gin.Context) {
		hits, resta, err := cnt.registrar(c.Request.Context(), c.ClientIP())
		if err != nil {
			// fail open
			log.Warn().Err(err).Msg("rate limiter: redis unavailable, allowing request")
			c.Next()
			return
		}
		if hits > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(resta.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.WithCode(apierror.CodeLimite, "Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// contadorRedis is a fixed window aligned to the clock: INCR on a key per
// client and slot, with the key expiring with the slot.
type contadorRedis struct {
	rdb    *redis.Client
	window time.Duration
}

func (r *contadorRedis) registrar(ctx context.Context, cliente string) (int64, time.Duration, error) {
	now := time.Now()
	slot := now.UnixNano() / int64(r.window)
	key := fmt.Sprintf("ratelimit:%s:%d", cliente, slot)

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	fin := time.Unix(0, (slot+1)*int64(r.window))
	return incr.Val(), fin.Sub(now), nil
}

// contadorMemoria opens a window at the first hit of each client. Expired
// windows are swept at most once per window length.
type contadorMemoria struct {
	window time.Duration

	mu        sync.Mutex
	ventanas  map[string]*ventana
	proxBarra time.Time
}

type ventana struct {
	hits int64
	fin  time.Time
}

func newContadorMemoria(window time.Duration) *contadorMemoria {
	return &contadorMemoria{window: window, ventanas: make(map[string]*ventana)}
}

func (m *contadorMemoria) registrar(_ context.Context, cliente string) (int64, time.Duration, error) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.After(m.proxBarra) {
		for k, v := range m.ventanas {
			if now.After(v.fin) {
				delete(m.ventanas, k)
			}
		}
		m.proxBarra = now.Add(m.window)
	}

	v, ok := m.ventanas[cliente]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(m.window)}
		m.ventanas[cliente] = v
	}
	v.hits++
	return v.hits, v.fin.Sub(now), nil
}
