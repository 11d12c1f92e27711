package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FidelidadRepository is the append-only loyalty ledger. There is no Update or
// Delete: corrections are new rows.
type FidelidadRepository interface {
	Create(ctx context.Context, t *model.TransaccionFidelidad) error
	// ListByCliente returns every entry of a customer in creation order.
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.TransaccionFidelidad, error)
	ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.TransaccionFidelidad, error)
	// ListGananciasVencidas returns ganancia rows with vence_at <= now that no
	// other row offsets yet, oldest first.
	ListGananciasVencidas(ctx context.Context, now time.Time) ([]model.TransaccionFidelidad, error)
}

// CashbackRepository is the append-only cashback ledger.
type CashbackRepository interface {
	Create(ctx context.Context, t *model.TransaccionCashback) error
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.TransaccionCashback, error)
	ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.TransaccionCashback, error)
	ListGananciasVencidas(ctx context.Context, now time.Time) ([]model.TransaccionCashback, error)
}

// ConfigRecompensaRepository stores the single loyalty and cashback config rows.
// Get* returns gorm.ErrRecordNotFound when no row was ever written.
type ConfigRecompensaRepository interface {
	GetFidelidad(ctx context.Context) (*model.ConfigFidelidad, error)
	SaveFidelidad(ctx context.Context, c *model.ConfigFidelidad) error
	GetCashback(ctx context.Context) (*model.ConfigCashback, error)
	SaveCashback(ctx context.Context, c *model.ConfigCashback) error
}

const sinCompensacion = `NOT EXISTS (
	SELECT 1 FROM %s o WHERE o.transaccion_origen_id = %s.id
)`

type fidelidadRepo struct{ db *gorm.DB }

func NewFidelidadRepository(db *gorm.DB) FidelidadRepository { return &fidelidadRepo{db: db} }

func (r *fidelidadRepo) Create(ctx context.Context, t *model.TransaccionFidelidad) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *fidelidadRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.TransaccionFidelidad, error) {
	var txs []model.TransaccionFidelidad
	err := r.db.WithContext(ctx).Where("cliente_id = ?", clienteID).
		Order("created_at ASC").Find(&txs).Error
	return txs, err
}

func (r *fidelidadRepo) ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.TransaccionFidelidad, error) {
	var txs []model.TransaccionFidelidad
	err := r.db.WithContext(ctx).Where("venta_id = ?", ventaID).
		Order("created_at ASC").Find(&txs).Error
	return txs, err
}

func (r *fidelidadRepo) ListGananciasVencidas(ctx context.Context, now time.Time) ([]model.TransaccionFidelidad, error) {
	var txs []model.TransaccionFidelidad
	err := r.db.WithContext(ctx).
		Where("tipo = ? AND vence_at IS NOT NULL AND vence_at <= ?", model.TxGanancia, now).
		Where(sinCompensacionSQL("transacciones_fidelidad")).
		Order("vence_at ASC, created_at ASC").
		Find(&txs).Error
	return txs, err
}

type cashbackRepo struct{ db *gorm.DB }

func NewCashbackRepository(db *gorm.DB) CashbackRepository { return &cashbackRepo{db: db} }

func (r *cashbackRepo) Create(ctx context.Context, t *model.TransaccionCashback) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *cashbackRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.TransaccionCashback, error) {
	var txs []model.TransaccionCashback
	err := r.db.WithContext(ctx).Where("cliente_id = ?", clienteID).
		Order("created_at ASC").Find(&txs).Error
	return txs, err
}

func (r *cashbackRepo) ListByVenta(ctx context.Context, ventaID uuid.UUID) ([]model.TransaccionCashback, error) {
	var txs []model.TransaccionCashback
	err := r.db.WithContext(ctx).Where("venta_id = ?", ventaID).
		Order("created_at ASC").Find(&txs).Error
	return txs, err
}

func (r *cashbackRepo) ListGananciasVencidas(ctx context.Context, now time.Time) ([]model.TransaccionCashback, error) {
	var txs []model.TransaccionCashback
	err := r.db.WithContext(ctx).
		Where("tipo = ? AND vence_at IS NOT NULL AND vence_at <= ?", model.TxGanancia, now).
		Where(sinCompensacionSQL("transacciones_cashback")).
		Order("vence_at ASC, created_at ASC").
		Find(&txs).Error
	return txs, err
}

func sinCompensacionSQL(tabla string) string {
	return fmt.Sprintf(sinCompensacion, tabla, tabla)
}

type configRecompensaRepo struct{ db *gorm.DB }

func NewConfigRecompensaRepository(db *gorm.DB) ConfigRecompensaRepository {
	return &configRecompensaRepo{db: db}
}

func (r *configRecompensaRepo) GetFidelidad(ctx context.Context) (*model.ConfigFidelidad, error) {
	var c model.ConfigFidelidad
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&c).Error
	return &c, err
}

func (r *configRecompensaRepo) SaveFidelidad(ctx context.Context, c *model.ConfigFidelidad) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *configRecompensaRepo) GetCashback(ctx context.Context) (*model.ConfigCashback, error) {
	var c model.ConfigCashback
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&c).Error
	return &c, err
}

func (r *configRecompensaRepo) SaveCashback(ctx context.Context, c *model.ConfigCashback) error {
	return r.db.WithContext(ctx).Save(c).Error
}
