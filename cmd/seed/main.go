// Command seed loads a demo catalog, customer, coupon and the default reward
// programs. It is idempotent: rows that already exist are skipped.
package main

import (
	"context"
	"os"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/cache"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/config"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/infra"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type productoDemo struct {
	barcode, nombre, categoria string
	costo, venta               string
	stock                      int
	controla                   bool
}

var catalogo = []productoDemo{
	{"7890000000011", "Helado 1 bola", "helados", "4.00", "10.00", 200, true},
	{"7890000000028", "Helado 2 bolas", "helados", "6.50", "16.00", 200, true},
	{"7890000000035", "Paleta de frutilla", "paletas", "2.20", "6.00", 120, true},
	{"7890000000042", "Cono", "adicionales", "1.00", "2.50", 0, false},
	{"7890000000059", "Cobertura de chocolate", "adicionales", "0.80", "3.00", 0, false},
	{"7890000000066", "Helado por kilo", "granel", "18.00", "59.90", 40, true},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	var configCache cache.ConfigCache = cache.NoopConfigCache{}
	if rdb, err := infra.NewRedis(cfg.RedisURL); err == nil {
		configCache = cache.NewRedisConfigCache(rdb)
		defer rdb.Close()
	} else {
		log.Warn().Err(err).Msg("redis no disponible, la cache de configuracion no se invalida")
	}

	svc := service.NewServices(repository.NewStore(db), configCache, time.Minute, nil)
	ctx := context.Background()

	if _, err := svc.Recompensas.GuardarConfigFidelidad(ctx, dto.ConfigFidelidadRequest{}); err != nil {
		log.Fatal().Err(err).Msg("config de fidelidad")
	}
	if _, err := svc.Recompensas.GuardarConfigCashback(ctx, dto.ConfigCashbackRequest{}); err != nil {
		log.Fatal().Err(err).Msg("config de cashback")
	}

	creados := 0
	for _, p := range catalogo {
		controla := p.controla
		_, err := svc.Productos.Crear(ctx, dto.CrearProductoRequest{
			CodigoBarras:  p.barcode,
			Nombre:        p.nombre,
			Categoria:     p.categoria,
			PrecioCosto:   decimal.RequireFromString(p.costo),
			PrecioVenta:   decimal.RequireFromString(p.venta),
			ControlaStock: &controla,
			StockActual:   p.stock,
		})
		if omitir(err, "producto", p.barcode) {
			continue
		}
		creados++
	}

	documento := "12345678909"
	_, err = svc.Clientes.Crear(ctx, dto.CrearClienteRequest{Nombre: "Cliente Demo", Documento: &documento})
	omitir(err, "cliente", documento)

	limite := 500
	_, err = svc.Cupones.Crear(ctx, dto.CrearCuponRequest{
		Codigo: "BIENVENIDA10", Tipo: "porcentaje", Valor: decimal.NewFromInt(10),
		DescuentoMaximo: ptrDecimal("15"), LimiteUso: &limite,
	})
	omitir(err, "cupon", "BIENVENIDA10")

	log.Info().Int("productos", creados).Msg("seed completo")
}

// omitir reports whether err should skip the item. Conflicts mean the row
// already exists from a previous run; anything else aborts.
func omitir(err error, entidad, clave string) bool {
	if err == nil {
		return false
	}
	if service.KindOf(err) == service.KindConflicto {
		log.Info().Str(entidad, clave).Msg("ya existe, se omite")
		return true
	}
	log.Fatal().Err(err).Str(entidad, clave).Msg("seed fallido")
	return true
}

func ptrDecimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
