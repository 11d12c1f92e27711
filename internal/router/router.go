package router

import (
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/config"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/handler"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/metrics"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/middleware"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires handlers onto a configured Gin engine.
// Dependency graph: Handler ← Service ← Store ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svc *service.Services, encolador worker.Encolador) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Register()

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Prometheus())

	// ── Handlers ─────────────────────────────────────────────────────────────
	ventasH := handler.NewVentasHandler(svc.Ventas)
	cajaH := handler.NewCajaHandler(svc.Caja)
	cuponesH := handler.NewCuponesHandler(svc.Cupones)
	clientesH := handler.NewClientesHandler(svc.Clientes, svc.Fidelidad, svc.Cashback)
	recompensasH := handler.NewRecompensasHandler(svc.Recompensas, encolador)
	productosH := handler.NewProductosHandler(svc.Productos, svc.Inventario)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1", middleware.RateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute))
	{
		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.AbrirVenta)
			ventas.GET("", ventasH.ListarVentas)
			ventas.GET("/:id", ventasH.ObtenerVenta)
			ventas.POST("/:id/items", ventasH.AgregarItem)
			ventas.PATCH("/:id/items/:itemId", ventasH.ActualizarCantidadItem)
			ventas.DELETE("/:id/items/:itemId", ventasH.CancelarItem)
			ventas.POST("/:id/cerrar", ventasH.CerrarVenta)
			ventas.POST("/:id/anular", ventasH.AnularVenta)
			ventas.POST("/:id/reabrir", ventasH.ReabrirVenta)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/arqueo", cajaH.Arqueo)
			caja.POST("/movimiento", cajaH.RegistrarMovimiento)
			caja.GET("/abierta", cajaH.SesionActiva)
			caja.GET("/:id/reporte", cajaH.ObtenerReporte)
			caja.GET("/:id/movimientos", cajaH.ListarMovimientos)
		}

		cupones := v1.Group("/cupones")
		{
			cupones.POST("", cuponesH.Crear)
			cupones.POST("/validar", cuponesH.Validar)
			cupones.GET("/:codigo", cuponesH.ObtenerPorCodigo)
			cupones.PATCH("/:id/estado", cuponesH.CambiarEstado)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("/:id", clientesH.ObtenerPorID)

			clientes.GET("/:id/fidelidad", clientesH.SaldoFidelidad)
			clientes.GET("/:id/fidelidad/historial", clientesH.HistorialFidelidad)
			clientes.POST("/:id/fidelidad/ajuste", clientesH.AjustarFidelidad)
			clientes.POST("/:id/fidelidad/canje-recompensa", clientesH.CanjearRecompensa)

			clientes.GET("/:id/cashback", clientesH.SaldoCashback)
			clientes.GET("/:id/cashback/historial", clientesH.HistorialCashback)
			clientes.POST("/:id/cashback/ajuste", clientesH.AjustarCashback)
			clientes.POST("/:id/cashback/canje", clientesH.CanjearCashback)
			clientes.POST("/:id/cashback/transferencia", clientesH.TransferirCashback)
		}

		recompensas := v1.Group("/recompensas")
		{
			recompensas.GET("/fidelidad", recompensasH.ObtenerFidelidad)
			recompensas.PUT("/fidelidad", recompensasH.GuardarFidelidad)
			recompensas.GET("/cashback", recompensasH.ObtenerCashback)
			recompensas.PUT("/cashback", recompensasH.GuardarCashback)
			recompensas.POST("/vencimientos", recompensasH.EncolarVencimientos)
			recompensas.POST("/vencimientos/reintentar", recompensasH.ReencolarFallidos)
		}

		productos := v1.Group("/productos")
		{
			productos.POST("", productosH.Crear)
			productos.GET("", productosH.Listar)
			productos.GET("/barcode/:barcode", productosH.ObtenerPorBarcode)
			productos.GET("/:id", productosH.ObtenerPorID)
			productos.GET("/:id/movimientos", productosH.ListarMovimientos)
		}
	}

	// Swagger UI; only enabled outside production
	if !cfg.Production() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
