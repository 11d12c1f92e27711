package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CuponPorcentaje = "porcentaje"
	CuponFijo       = "fijo"
)

const (
	CuponActivo   = "activo"
	CuponInactivo = "inactivo"
	CuponVencido  = "vencido"
)

// Cupon is a discount code. Codigo is stored upper-cased.
// Estado: "activo" | "inactivo" | "vencido"
type Cupon struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo          string           `gorm:"type:varchar(40);uniqueIndex;not null"`
	Descripcion     *string
	Tipo            string           `gorm:"type:varchar(20);not null"`
	Valor           decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	CompraMinima    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DescuentoMaximo *decimal.Decimal `gorm:"type:decimal(12,2)"`
	LimiteUso       *int
	ValidoDesde     *time.Time
	ValidoHasta     *time.Time
	CantidadUsos    int    `gorm:"not null;default:0"`
	Estado          string `gorm:"type:varchar(20);not null;default:'activo'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Cupon) TableName() string { return "cupones" }

// UsoCupon is one redemption of a Cupon on a closed Venta. Immutable.
type UsoCupon struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuponID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	VentaID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	DescuentoAplicado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt         time.Time
}

func (UsoCupon) TableName() string { return "usos_cupon" }
