package repository

import (
	"context"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	// FindByIDForUpdate serializes balance changes for one customer.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	SetPuntos(ctx context.Context, id uuid.UUID, saldo int) error
	SetSaldoCashback(ctx context.Context, id uuid.UUID, saldo decimal.Decimal) error
	AplicarContadores(ctx context.Context, id uuid.UUID, delta model.ContadoresCompra) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) SetPuntos(ctx context.Context, id uuid.UUID, saldo int) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).
		Update("puntos_fidelidad", saldo).Error
}

func (r *clienteRepo) SetSaldoCashback(ctx context.Context, id uuid.UUID, saldo decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).
		Update("saldo_cashback", saldo).Error
}

func (r *clienteRepo) AplicarContadores(ctx context.Context, id uuid.UUID, delta model.ContadoresCompra) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Updates(map[string]interface{}{
		"cantidad_compras":      gorm.Expr("GREATEST(cantidad_compras + ?, 0)", delta.Compras),
		"total_compras":         gorm.Expr("total_compras + ?", delta.TotalCompras),
		"total_cashback_ganado": gorm.Expr("total_cashback_ganado + ?", delta.CashbackTotal),
	}).Error
}
