package repository

import (
	"context"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CuponRepository interface {
	Create(ctx context.Context, c *model.Cupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cupon, error)
	// FindByCodigo expects an already upper-cased code.
	FindByCodigo(ctx context.Context, codigo string) (*model.Cupon, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	// RegistrarUso bumps cantidad_usos while it is below limite_uso and
	// inserts the usage row. A spent coupon yields ErrCuponAgotado.
	RegistrarUso(ctx context.Context, uso *model.UsoCupon) error
	FindUsoByVenta(ctx context.Context, ventaID uuid.UUID) (*model.UsoCupon, error)
	// EliminarUso removes the usage row and gives the use back to the coupon.
	EliminarUso(ctx context.Context, uso *model.UsoCupon) error
}

type cuponRepo struct{ db *gorm.DB }

func NewCuponRepository(db *gorm.DB) CuponRepository { return &cuponRepo{db: db} }

func (r *cuponRepo) Create(ctx context.Context, c *model.Cupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cuponRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cupon, error) {
	var c model.Cupon
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cuponRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Cupon, error) {
	var c model.Cupon
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&c).Error
	return &c, err
}

func (r *cuponRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	res := r.db.WithContext(ctx).Model(&model.Cupon{}).Where("id = ?", id).Update("estado", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cuponRepo) RegistrarUso(ctx context.Context, uso *model.UsoCupon) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.Cupon{}).
		Where("id = ? AND (limite_uso IS NULL OR cantidad_usos < limite_uso)", uso.CuponID).
		Update("cantidad_usos", gorm.Expr("cantidad_usos + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.Model(&model.Cupon{}).Where("id = ?", uso.CuponID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrCuponAgotado
	}
	return db.Create(uso).Error
}

func (r *cuponRepo) FindUsoByVenta(ctx context.Context, ventaID uuid.UUID) (*model.UsoCupon, error) {
	var u model.UsoCupon
	err := r.db.WithContext(ctx).Where("venta_id = ?", ventaID).First(&u).Error
	return &u, err
}

func (r *cuponRepo) EliminarUso(ctx context.Context, uso *model.UsoCupon) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&model.UsoCupon{}, "id = ?", uso.ID).Error; err != nil {
		return err
	}
	return db.Model(&model.Cupon{}).Where("id = ? AND cantidad_usos > 0", uso.CuponID).
		Update("cantidad_usos", gorm.Expr("cantidad_usos - 1")).Error
}
