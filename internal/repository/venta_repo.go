package repository

import (
	"context"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	Create(ctx context.Context, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDForUpdate locks the venta row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// Update persists the venta columns only; items and pagos have their own methods.
	Update(ctx context.Context, v *model.Venta) error
	CreateItem(ctx context.Context, item *model.VentaItem) error
	UpdateItem(ctx context.Context, item *model.VentaItem) error
	CreatePagos(ctx context.Context, pagos []model.VentaPago) error
	DeletePagos(ctx context.Context, ventaID uuid.UUID) error
	// NextNumero hands out the next ticket number for the given calendar day.
	NextNumero(ctx context.Context, fecha time.Time) (int, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) Create(ctx context.Context, v *model.Venta) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.withDetalle(r.db.WithContext(ctx)).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.withDetalle(r.db.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) withDetalle(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Pagos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

func (r *ventaRepo) Update(ctx context.Context, v *model.Venta) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error
}

func (r *ventaRepo) CreateItem(ctx context.Context, item *model.VentaItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ventaRepo) UpdateItem(ctx context.Context, item *model.VentaItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ventaRepo) CreatePagos(ctx context.Context, pagos []model.VentaPago) error {
	if len(pagos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&pagos).Error
}

func (r *ventaRepo) DeletePagos(ctx context.Context, ventaID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("venta_id = ?", ventaID).Delete(&model.VentaPago{}).Error
}

func (r *ventaRepo) NextNumero(ctx context.Context, fecha time.Time) (int, error) {
	var num int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO contadores_venta (fecha, ultimo) VALUES (?, 1)
		ON CONFLICT (fecha) DO UPDATE SET ultimo = contadores_venta.ultimo + 1
		RETURNING ultimo`, fecha.Format("2006-01-02")).Scan(&num).Error
	return num, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.SesionCajaID != "" {
		q = q.Where("sesion_caja_id = ?", filter.SesionCajaID)
	}
	if filter.Fecha != "" {
		q = q.Where("fecha = ?", filter.Fecha)
	} else {
		q = q.Where("fecha = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.withDetalle(q).
		Order("numero DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}
