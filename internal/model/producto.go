package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the catalog entry snapshotted into VentaItem when it is sold.
// ControlaStock=false products are never blocked by stock and are not decremented.
type Producto struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras  string          `gorm:"uniqueIndex;not null"`
	Nombre        string          `gorm:"index;not null"`
	Categoria     string          `gorm:"not null;default:'general'"`
	PrecioCosto   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ControlaStock bool            `gorm:"not null;default:true"`
	StockActual   int             `gorm:"not null;default:0"`
	StockMinimo   int             `gorm:"not null;default:5"`
	UnidadMedida  string          `gorm:"not null;default:'unidad'"`
	Activo        bool            `gorm:"not null;default:true"`
	// Reward eligibility, ignored when the config applies to all products.
	ElegibleFidelidad bool `gorm:"not null;default:true"`
	GeneraCashback    bool `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
