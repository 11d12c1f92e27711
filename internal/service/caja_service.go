package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// Tipos de MovimientoCaja.
const (
	MovCajaVenta      = "venta"
	MovCajaIngreso    = "ingreso_manual"
	MovCajaEgreso     = "egreso_manual"
	MovCajaAnulacion  = "anulacion"
	MovCajaReapertura = "reapertura"
)

const (
	SesionAbierta = "abierta"
	SesionCerrada = "cerrada"
)

// Clasificaciones del desvío de arqueo.
const (
	DesvioNormal      = "normal"
	DesvioAdvertencia = "advertencia"
	DesvioCritico     = "critico"
)

// Upper bounds, in percent of the expected amount, for each classification.
var (
	umbralNormal      = decimal.NewFromInt(1)
	umbralAdvertencia = decimal.NewFromInt(5)
)

type CajaService interface {
	Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*dto.ReporteCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) error
	Arqueo(ctx context.Context, req dto.ArqueoRequest) (*dto.ArqueoResponse, error)
	ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error)
	SesionActiva(ctx context.Context, puntoDeVenta int) (*dto.ReporteCajaResponse, error)
	ListarMovimientos(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoCajaResponse, error)

	// FindSesionAbierta loads the session through tx and fails with conflicto
	// unless it is still open. VentaService calls it before settling.
	FindSesionAbierta(ctx context.Context, tx repository.Store, sesionID uuid.UUID) (*model.SesionCaja, error)
	// AplicarPagosTx moves the session totals by the payment split of v and
	// writes one MovimientoCaja per payment. signo is +1 or -1.
	AplicarPagosTx(ctx context.Context, tx repository.Store, v *model.Venta, pagos []model.VentaPago, signo int64, tipo string) error
}

type cajaService struct {
	store repository.Store
}

func NewCajaService(store repository.Store) CajaService {
	return &cajaService{store: store}
}

func (s *cajaService) Abrir(ctx context.Context, req dto.AbrirCajaRequest) (*dto.ReporteCajaResponse, error) {
	switch _, err := s.store.Cajas().FindSesionAbiertaPorPDV(ctx, req.PuntoDeVenta); {
	case err == nil:
		return nil, conflicto("ya existe una caja abierta en el punto de venta %d", req.PuntoDeVenta)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, infra(err)
	}

	sesion := &model.SesionCaja{
		PuntoDeVenta: req.PuntoDeVenta,
		Operador:     req.Operador,
		MontoInicial: req.MontoInicial,
		Estado:       SesionAbierta,
		OpenedAt:     ahora(),
	}
	// the partial unique index catches a concurrent apertura on the same PDV
	if err := s.store.Cajas().CreateSesion(ctx, sesion); err != nil {
		return nil, traducir(err, "sesión de caja")
	}
	log.Info().Str("sesion_id", sesion.ID.String()).Int("pdv", sesion.PuntoDeVenta).Str("operador", sesion.Operador).Msg("caja abierta")
	return s.reporte(ctx, sesion)
}

// RegistrarMovimiento records a manual cash in/out. Egresos are stored negative
// so a plain SUM gives the net effect on the drawer.
func (s *cajaService) RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) error {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return invalido("sesion_caja_id inválido")
	}
	if _, err := s.FindSesionAbierta(ctx, s.store, sesionID); err != nil {
		return err
	}

	monto := req.Monto
	if req.Tipo == MovCajaEgreso {
		monto = monto.Neg()
	}
	metodo := req.MetodoPago
	return infra(s.store.Cajas().CreateMovimiento(ctx, &model.MovimientoCaja{
		SesionCajaID: sesionID,
		Tipo:         req.Tipo,
		MetodoPago:   &metodo,
		Monto:        monto,
		Descripcion:  req.Descripcion,
	}))
}

// Arqueo closes the session against a blind count. A critical desvío needs
// observaciones; without them the session stays open.
func (s *cajaService) Arqueo(ctx context.Context, req dto.ArqueoRequest) (resp *dto.ArqueoResponse, err error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, invalido("sesion_caja_id inválido")
	}
	ctx, fin := operacion(ctx, "CajaService.Arqueo", attribute.String("sesion_caja_id", sesionID.String()))
	defer func() { fin(err) }()

	declarado := montos(req.Declaracion.Efectivo, req.Declaracion.Tarjeta, req.Declaracion.Pix, req.Declaracion.Otros)

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		sesion, err := s.FindSesionAbierta(ctx, tx, sesionID)
		if err != nil {
			return err
		}
		esperado, err := s.esperado(ctx, tx, sesion)
		if err != nil {
			return err
		}

		desvio := calcularDesvio(esperado.Total, declarado.Total)
		if desvio.Clasificacion == DesvioCritico && (req.Observaciones == nil || *req.Observaciones == "") {
			return invalido("desvío crítico: se requieren observaciones del supervisor")
		}

		arqueo := model.ResultadoArqueo{
			Esperado:      &esperado.Total,
			Declarado:     &declarado.Total,
			Desvio:        &desvio.Monto,
			DesvioPct:     &desvio.Porcentaje,
			Clasificacion: &desvio.Clasificacion,
			Observaciones: req.Observaciones,
		}
		if err := tx.Cajas().CerrarSesion(ctx, sesionID, arqueo, ahora()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return conflicto("la sesión de caja %s ya fue cerrada", sesionID)
			}
			return infra(err)
		}

		resp = &dto.ArqueoResponse{
			SesionCajaID:   sesionID.String(),
			Estado:         SesionCerrada,
			MontoEsperado:  esperado,
			MontoDeclarado: declarado,
			Desvio:         desvio,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("sesion_id", sesionID.String()).
		Str("clasificacion", resp.Desvio.Clasificacion).
		Str("desvio", resp.Desvio.Monto.StringFixed(2)).
		Msg("caja cerrada")
	return resp, nil
}

func (s *cajaService) ObtenerReporte(ctx context.Context, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error) {
	sesion, err := s.store.Cajas().FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, traducir(err, "sesión de caja")
	}
	return s.reporte(ctx, sesion)
}

// SesionActiva returns the open session of a punto de venta, so a terminal
// can resume after a restart without remembering the session id.
func (s *cajaService) SesionActiva(ctx context.Context, puntoDeVenta int) (*dto.ReporteCajaResponse, error) {
	sesion, err := s.store.Cajas().FindSesionAbiertaPorPDV(ctx, puntoDeVenta)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, noEncontrado("no hay caja abierta en el punto de venta %d", puntoDeVenta)
		}
		return nil, infra(err)
	}
	return s.reporte(ctx, sesion)
}

// ListarMovimientos returns the till ledger of a session in insertion order.
func (s *cajaService) ListarMovimientos(ctx context.Context, sesionID uuid.UUID) ([]dto.MovimientoCajaResponse, error) {
	if _, err := s.store.Cajas().FindSesionByID(ctx, sesionID); err != nil {
		return nil, traducir(err, "sesión de caja")
	}
	movs, err := s.store.Cajas().ListMovimientos(ctx, sesionID)
	if err != nil {
		return nil, infra(err)
	}
	out := make([]dto.MovimientoCajaResponse, 0, len(movs))
	for _, m := range movs {
		r := dto.MovimientoCajaResponse{
			ID:          m.ID.String(),
			Tipo:        m.Tipo,
			MetodoPago:  m.MetodoPago,
			Monto:       m.Monto,
			Descripcion: m.Descripcion,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			r.ReferenciaID = &ref
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *cajaService) FindSesionAbierta(ctx context.Context, tx repository.Store, sesionID uuid.UUID) (*model.SesionCaja, error) {
	sesion, err := tx.Cajas().FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, traducir(err, "sesión de caja")
	}
	if !sesion.Abierta() {
		return nil, conflicto("la sesión de caja %s no está abierta", sesionID)
	}
	return sesion, nil
}

func (s *cajaService) AplicarPagosTx(ctx context.Context, tx repository.Store, v *model.Venta, pagos []model.VentaPago, signo int64, tipo string) error {
	if err := tx.Cajas().AplicarTotales(ctx, v.SesionCajaID, totalesDePagos(v.Total, pagos, signo)); err != nil {
		return traducir(err, "sesión de caja")
	}
	ref := v.ID
	descripcion := tipo + " venta " + v.Fecha.Format("2006-01-02") + " #" + strconv.Itoa(v.Numero)
	factor := decimal.NewFromInt(signo)
	for _, p := range pagos {
		metodo := p.Metodo
		if err := tx.Cajas().CreateMovimiento(ctx, &model.MovimientoCaja{
			SesionCajaID: v.SesionCajaID,
			Tipo:         tipo,
			MetodoPago:   &metodo,
			Monto:        p.Monto.Mul(factor),
			Descripcion:  descripcion,
			ReferenciaID: &ref,
		}); err != nil {
			return infra(err)
		}
	}
	return nil
}

func montos(efectivo, tarjeta, pix, otros decimal.Decimal) dto.MontosPorMetodo {
	return dto.MontosPorMetodo{
		Efectivo: efectivo,
		Tarjeta:  tarjeta,
		Pix:      pix,
		Otros:    otros,
		Total:    efectivo.Add(tarjeta).Add(pix).Add(otros),
	}
}

// calcularDesvio compares the declared count with the expected one. The
// percentage is relative to esperado and is zero when nothing was expected.
func calcularDesvio(esperado, declarado decimal.Decimal) dto.DesvioResponse {
	d := dto.DesvioResponse{Monto: declarado.Sub(esperado)}
	if !esperado.IsZero() {
		d.Porcentaje = d.Monto.Div(esperado).Mul(cien).Round(2)
	}
	switch abs := d.Porcentaje.Abs(); {
	case abs.LessThanOrEqual(umbralNormal):
		d.Clasificacion = DesvioNormal
	case abs.LessThanOrEqual(umbralAdvertencia):
		d.Clasificacion = DesvioAdvertencia
	default:
		d.Clasificacion = DesvioCritico
	}
	return d
}

// esperado is what the drawer should hold: opening float in cash, plus the
// settled payments, plus the manual movements of each method.
func (s *cajaService) esperado(ctx context.Context, tx repository.Store, sesion *model.SesionCaja) (dto.MontosPorMetodo, error) {
	manual, err := tx.Cajas().SumMovimientosManuales(ctx, sesion.ID)
	if err != nil {
		return dto.MontosPorMetodo{}, infra(err)
	}
	t := sesion.Totales
	return montos(
		sesion.MontoInicial.Add(t.Efectivo).Add(manual[model.MetodoEfectivo]),
		t.Tarjeta.Add(manual[model.MetodoDebito]).Add(manual[model.MetodoCredito]),
		t.Pix.Add(manual[model.MetodoPix]),
		t.Otros.Add(manual[model.MetodoOtro]),
	), nil
}

func (s *cajaService) reporte(ctx context.Context, sesion *model.SesionCaja) (*dto.ReporteCajaResponse, error) {
	esperado, err := s.esperado(ctx, s.store, sesion)
	if err != nil {
		return nil, err
	}

	t := sesion.Totales
	r := &dto.ReporteCajaResponse{
		SesionCajaID:   sesion.ID.String(),
		PuntoDeVenta:   sesion.PuntoDeVenta,
		Operador:       sesion.Operador,
		Estado:         sesion.Estado,
		OpenedAt:       sesion.OpenedAt.Format(time.RFC3339),
		MontoInicial:   sesion.MontoInicial,
		TotalVentas:    t.Ventas,
		Ventas:         montos(t.Efectivo, t.Tarjeta, t.Pix, t.Otros),
		MontoEsperado:  esperado,
		MontoDeclarado: sesion.Arqueo.Declarado,
		Observaciones:  sesion.Arqueo.Observaciones,
	}
	if a := sesion.Arqueo; a.Desvio != nil && a.DesvioPct != nil && a.Clasificacion != nil {
		r.Desvio = &dto.DesvioResponse{Monto: *a.Desvio, Porcentaje: *a.DesvioPct, Clasificacion: *a.Clasificacion}
	}
	if sesion.ClosedAt != nil {
		closed := sesion.ClosedAt.Format(time.RFC3339)
		r.ClosedAt = &closed
	}
	return r, nil
}
