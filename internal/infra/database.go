package infra

import (
	"fmt"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema. Integration tests call it directly.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Producto{},
		&model.MovimientoStock{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.Cliente{},
		&model.Cupon{},
		&model.UsoCupon{},
		&model.Venta{},
		&model.VentaItem{},
		&model.VentaPago{},
		&model.ContadorVenta{},
		&model.TransaccionFidelidad{},
		&model.TransaccionCashback{},
		&model.ConfigFidelidad{},
		&model.ConfigCashback{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// express (partial indexes, check constraints). Each statement is guarded so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// one open session per punto de venta
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sesiones_caja_pdv_abierta
		    ON sesiones_caja (punto_de_venta) WHERE estado = 'abierta'`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_stock') THEN
		    ALTER TABLE productos ADD CONSTRAINT chk_productos_stock
		        CHECK (NOT controla_stock OR stock_actual >= 0);
		  END IF;
		END $$`,
		// expiration sweep: pending ganancias by due date
		`CREATE INDEX IF NOT EXISTS idx_tx_fidelidad_vence
		    ON transacciones_fidelidad (vence_at) WHERE tipo = 'ganancia' AND vence_at IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_tx_cashback_vence
		    ON transacciones_cashback (vence_at) WHERE tipo = 'ganancia' AND vence_at IS NOT NULL`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
