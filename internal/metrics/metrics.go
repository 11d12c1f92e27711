// Package metrics holds the Prometheus collectors of the service. They are
// registered once by Register and exposed on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	VentasCerradas = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ventas_cerradas_total",
		Help: "Ventas closed against payments",
	})

	VentasAnuladas = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ventas_anuladas_total",
		Help: "Ventas cancelled",
	})

	VentasReabiertas = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ventas_reabiertas_total",
		Help: "Closed ventas reopened for correction",
	})

	PuntosVencidos = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "puntos_vencidos_total",
		Help: "Loyalty points removed by expiration sweeps",
	})

	CashbackVencido = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cashback_vencido_total",
		Help: "Cashback amount removed by expiration sweeps",
	})

	JobsProcesados = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_procesados_total",
			Help: "Background jobs by type and outcome",
		},
		[]string{"type", "resultado"},
	)
)

var once sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal, HTTPRequestDuration,
			VentasCerradas, VentasAnuladas, VentasReabiertas,
			PuntosVencidos, CashbackVencido,
			JobsProcesados,
		)
	})
}
