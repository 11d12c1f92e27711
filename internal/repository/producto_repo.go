package repository

import (
	"context"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)

	// DescontarStock decrements stock_actual only if it stays >= 0 and returns the
	// new value. ErrStockInsuficiente when the guard rejects the update.
	DescontarStock(ctx context.Context, id uuid.UUID, cantidad int) (int, error)
	// IncrementarStock returns units to stock_actual and returns the new value.
	IncrementarStock(ctx context.Context, id uuid.UUID, cantidad int) (int, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo_barras = ? AND activo = true", barcode).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
	default:
		q = q.Where("activo = true")
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := Paginar(filter.Page, filter.Limit)
	err := q.Order("nombre ASC").Limit(limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) DescontarStock(ctx context.Context, id uuid.UUID, cantidad int) (int, error) {
	p := model.Producto{ID: id}
	res := r.db.WithContext(ctx).Model(&p).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock_actual"}}}).
		Where("stock_actual >= ?", cantidad).
		Update("stock_actual", gorm.Expr("stock_actual - ?", cantidad))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrStockInsuficiente
	}
	return p.StockActual, nil
}

func (r *productoRepo) IncrementarStock(ctx context.Context, id uuid.UUID, cantidad int) (int, error) {
	p := model.Producto{ID: id}
	res := r.db.WithContext(ctx).Model(&p).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock_actual"}}}).
		Update("stock_actual", gorm.Expr("stock_actual + ?", cantidad))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return p.StockActual, nil
}
