package repository

import (
	"context"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaRepository interface {
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionAbiertaPorPDV(ctx context.Context, puntoDeVenta int) (*model.SesionCaja, error)
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	// CerrarSesion stores the arqueo and flips estado, only while the session
	// is still abierta. ErrNotFound means there was no open session to close.
	CerrarSesion(ctx context.Context, id uuid.UUID, arqueo model.ResultadoArqueo, closedAt time.Time) error
	// AplicarTotales adds a signed delta to the running totals in one UPDATE.
	AplicarTotales(ctx context.Context, id uuid.UUID, delta model.TotalesCaja) error
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error)
	// SumMovimientosManuales returns ingreso/egreso manual totals keyed by metodo_pago.
	SumMovimientosManuales(ctx context.Context, sesionCajaID uuid.UUID) (map[string]decimal.Decimal, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cajaRepo) FindSesionAbiertaPorPDV(ctx context.Context, puntoDeVenta int) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Where("punto_de_venta = ? AND estado = 'abierta'", puntoDeVenta).First(&s).Error
	return &s, err
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *cajaRepo) CerrarSesion(ctx context.Context, id uuid.UUID, arqueo model.ResultadoArqueo, closedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.SesionCaja{}).
		Where("id = ? AND estado = 'abierta'", id).
		Updates(map[string]interface{}{
			"estado":               "cerrada",
			"arqueo_esperado":      arqueo.Esperado,
			"arqueo_declarado":     arqueo.Declarado,
			"arqueo_desvio":        arqueo.Desvio,
			"arqueo_desvio_pct":    arqueo.DesvioPct,
			"arqueo_clasificacion": arqueo.Clasificacion,
			"arqueo_observaciones": arqueo.Observaciones,
			"closed_at":            closedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cajaRepo) AplicarTotales(ctx context.Context, id uuid.UUID, delta model.TotalesCaja) error {
	res := r.db.WithContext(ctx).Model(&model.SesionCaja{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_ventas":   gorm.Expr("total_ventas + ?", delta.Ventas),
		"total_efectivo": gorm.Expr("total_efectivo + ?", delta.Efectivo),
		"total_tarjeta":  gorm.Expr("total_tarjeta + ?", delta.Tarjeta),
		"total_pix":      gorm.Expr("total_pix + ?", delta.Pix),
		"total_otros":    gorm.Expr("total_otros + ?", delta.Otros),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).Where("sesion_caja_id = ?", sesionCajaID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) SumMovimientosManuales(ctx context.Context, sesionCajaID uuid.UUID) (map[string]decimal.Decimal, error) {
	var rows []struct {
		MetodoPago string
		Total      decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("metodo_pago, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_caja_id = ? AND tipo IN ?", sesionCajaID, []string{"ingreso_manual", "egreso_manual"}).
		Group("metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.MetodoPago] = row.Total
	}
	return sums, nil
}
