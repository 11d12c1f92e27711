package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthTimeout = 3 * time.Second

type estadoDependencia struct {
	Estado    string `json:"estado"` // ok | error
	LatenciaM int64  `json:"latencia_ms"`
}

type healthResponse struct {
	OK             bool                         `json:"ok"`
	Dependencias   map[string]estadoDependencia `json:"dependencias"`
	DLQRecompensas *int64                       `json:"dlq_recompensas,omitempty"`
}

// Health pings Postgres and Redis and reports the reward DLQ backlog. Error
// details stay in the logs; the body only says which dependency failed.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	chequeos := map[string]func(context.Context) error{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{OK: true, Dependencias: make(map[string]estadoDependencia, len(chequeos))}
		for nombre, chequear := range chequeos {
			inicio := time.Now()
			estado := estadoDependencia{Estado: "ok"}
			if err := chequear(ctx); err != nil {
				estado.Estado = "error"
				resp.OK = false
			}
			estado.LatenciaM = time.Since(inicio).Milliseconds()
			resp.Dependencias[nombre] = estado
		}

		if resp.Dependencias["redis"].Estado == "ok" {
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueRecompensas); err == nil {
				resp.DLQRecompensas = &n
			}
		}

		status := http.StatusOK
		if !resp.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}
