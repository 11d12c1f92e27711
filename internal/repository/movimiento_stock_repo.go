package repository

import (
	"context"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	limitePorDefecto = 100
	limiteMaximo     = 500
)

type MovimientoStockRepository interface {
	Create(ctx context.Context, m *model.MovimientoStock) error
	// ListByProducto pages the ledger of one product, newest first.
	ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.MovimientoStock, int64, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) Create(ctx context.Context, m *model.MovimientoStock) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoStockRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.MovimientoStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).Where("producto_id = ?", productoID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, limit := Paginar(page, limit)
	var movs []model.MovimientoStock
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movs).Error
	return movs, total, err
}

// Paginar turns a 1-based page into an offset, clamping limit to
// [1, limiteMaximo] with limitePorDefecto for out-of-range values.
func Paginar(page, limit int) (offset, n int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > limiteMaximo {
		limit = limitePorDefecto
	}
	return (page - 1) * limit, limit
}
