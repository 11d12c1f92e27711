package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CuponService interface {
	Crear(ctx context.Context, req dto.CrearCuponRequest) (*dto.CuponResponse, error)
	ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.CuponResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, estado string) error
	// Validar checks a code against a base amount without mutating anything.
	Validar(ctx context.Context, req dto.ValidarCuponRequest) (*dto.ValidarCuponResponse, error)

	ValidarTx(ctx context.Context, tx repository.Store, codigo string, base decimal.Decimal, clienteID *uuid.UUID) (*model.Cupon, decimal.Decimal, error)
	// AplicarUsoTx records a redemption and bumps CantidadUsos. Only called
	// once a settlement has passed every check.
	AplicarUsoTx(ctx context.Context, tx repository.Store, cuponID, clienteID, ventaID uuid.UUID, descuento decimal.Decimal) error
	RevertirUsoTx(ctx context.Context, tx repository.Store, ventaID uuid.UUID) error
}

type cuponService struct {
	store repository.Store
}

func NewCuponService(store repository.Store) CuponService {
	return &cuponService{store: store}
}

// NormalizarCodigo is the canonical form coupon codes are stored and looked up in.
func NormalizarCodigo(codigo string) string {
	return strings.ToUpper(strings.TrimSpace(codigo))
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *cuponService) Crear(ctx context.Context, req dto.CrearCuponRequest) (*dto.CuponResponse, error) {
	if req.Tipo == model.CuponPorcentaje && req.Valor.GreaterThan(cien) {
		return nil, invalido("un cupón porcentual no puede superar el 100%%")
	}
	if !req.Valor.IsPositive() {
		return nil, invalido("el valor del cupón debe ser positivo")
	}
	desde, err := parseFechaOpcional(req.ValidoDesde)
	if err != nil {
		return nil, invalido("valido_desde inválido")
	}
	hasta, err := parseFechaOpcional(req.ValidoHasta)
	if err != nil {
		return nil, invalido("valido_hasta inválido")
	}
	if desde != nil && hasta != nil && hasta.Before(*desde) {
		return nil, invalido("valido_hasta es anterior a valido_desde")
	}

	c := &model.Cupon{
		Codigo:          NormalizarCodigo(req.Codigo),
		Descripcion:     req.Descripcion,
		Tipo:            req.Tipo,
		Valor:           req.Valor,
		CompraMinima:    req.CompraMinima,
		DescuentoMaximo: req.DescuentoMaximo,
		LimiteUso:       req.LimiteUso,
		ValidoDesde:     desde,
		ValidoHasta:     hasta,
		Estado:          model.CuponActivo,
	}
	if err := s.store.Cupones().Create(ctx, c); err != nil {
		return nil, traducir(err, "cupón "+c.Codigo)
	}
	log.Info().Str("codigo", c.Codigo).Str("tipo", c.Tipo).Msg("cupón creado")
	resp := cuponToResponse(c)
	return &resp, nil
}

func (s *cuponService) ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.CuponResponse, error) {
	c, err := s.store.Cupones().FindByCodigo(ctx, NormalizarCodigo(codigo))
	if err != nil {
		return nil, traducir(err, "cupón")
	}
	resp := cuponToResponse(c)
	return &resp, nil
}

func (s *cuponService) CambiarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	switch estado {
	case model.CuponActivo, model.CuponInactivo, model.CuponVencido:
	default:
		return invalido("estado de cupón desconocido: %s", estado)
	}
	return traducir(s.store.Cupones().UpdateEstado(ctx, id, estado), "cupón")
}

// ── Validar ───────────────────────────────────────────────────────────────────

func (s *cuponService) Validar(ctx context.Context, req dto.ValidarCuponRequest) (*dto.ValidarCuponResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, invalido("cliente_id inválido")
	}
	c, descuento, err := s.ValidarTx(ctx, s.store, req.Codigo, req.Base, &clienteID)
	if err != nil {
		return nil, err
	}
	return &dto.ValidarCuponResponse{Cupon: cuponToResponse(c), Descuento: descuento}, nil
}

// ValidarTx applies the rules in order: exists, active, inside the validity
// window, base reaches the minimum purchase, usage limit not reached. The
// discount is capped by DescuentoMaximo and then by base.
func (s *cuponService) ValidarTx(ctx context.Context, tx repository.Store, codigo string, base decimal.Decimal, clienteID *uuid.UUID) (*model.Cupon, decimal.Decimal, error) {
	if clienteID == nil {
		return nil, decimal.Zero, invalido("un cupón requiere un cliente identificado")
	}
	c, err := tx.Cupones().FindByCodigo(ctx, NormalizarCodigo(codigo))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, decimal.Zero, noEncontrado("cupón %s no encontrado", NormalizarCodigo(codigo))
	}
	if err != nil {
		return nil, decimal.Zero, infra(err)
	}

	now := ahora()
	switch {
	case c.Estado != model.CuponActivo:
		return nil, decimal.Zero, invalido("el cupón %s no está activo", c.Codigo)
	case c.ValidoDesde != nil && now.Before(*c.ValidoDesde):
		return nil, decimal.Zero, invalido("el cupón %s todavía no es válido", c.Codigo)
	case c.ValidoHasta != nil && now.After(*c.ValidoHasta):
		return nil, decimal.Zero, invalido("el cupón %s está vencido", c.Codigo)
	case c.CompraMinima != nil && base.LessThan(*c.CompraMinima):
		return nil, decimal.Zero, invalido("compra mínima para el cupón %s: %s", c.Codigo, c.CompraMinima.StringFixed(2))
	case c.LimiteUso != nil && c.CantidadUsos >= *c.LimiteUso:
		return nil, decimal.Zero, invalido("el cupón %s alcanzó su límite de uso", c.Codigo)
	}

	return c, DescuentoCupon(c, base), nil
}

// DescuentoCupon computes the discount c grants on base.
func DescuentoCupon(c *model.Cupon, base decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	if c.Tipo == model.CuponPorcentaje {
		d = base.Mul(c.Valor).Div(cien).Round(2)
	} else {
		d = c.Valor
	}
	if c.DescuentoMaximo != nil && d.GreaterThan(*c.DescuentoMaximo) {
		d = *c.DescuentoMaximo
	}
	if d.GreaterThan(base) {
		d = base
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func (s *cuponService) AplicarUsoTx(ctx context.Context, tx repository.Store, cuponID, clienteID, ventaID uuid.UUID, descuento decimal.Decimal) error {
	uso := &model.UsoCupon{
		CuponID:           cuponID,
		ClienteID:         clienteID,
		VentaID:           ventaID,
		DescuentoAplicado: descuento,
	}
	return traducir(tx.Cupones().RegistrarUso(ctx, uso), "uso de cupón")
}

// RevertirUsoTx deletes the venta's redemption, if any, and gives the use back.
func (s *cuponService) RevertirUsoTx(ctx context.Context, tx repository.Store, ventaID uuid.UUID) error {
	uso, err := tx.Cupones().FindUsoByVenta(ctx, ventaID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return infra(err)
	}
	return infra(tx.Cupones().EliminarUso(ctx, uso))
}

func parseFechaOpcional(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func cuponToResponse(c *model.Cupon) dto.CuponResponse {
	resp := dto.CuponResponse{
		ID:              c.ID.String(),
		Codigo:          c.Codigo,
		Descripcion:     c.Descripcion,
		Tipo:            c.Tipo,
		Valor:           c.Valor,
		CompraMinima:    c.CompraMinima,
		DescuentoMaximo: c.DescuentoMaximo,
		LimiteUso:       c.LimiteUso,
		CantidadUsos:    c.CantidadUsos,
		Estado:          c.Estado,
	}
	if c.ValidoDesde != nil {
		t := c.ValidoDesde.Format(time.RFC3339)
		resp.ValidoDesde = &t
	}
	if c.ValidoHasta != nil {
		t := c.ValidoHasta.Format(time.RFC3339)
		resp.ValidoHasta = &t
	}
	return resp
}
