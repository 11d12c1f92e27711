package service

import (
	"context"
	"strings"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/metrics"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// ahora is the clock every service reads. Tests replace it.
var ahora = func() time.Time { return time.Now().UTC() }

// VentaService is the checkout settlement engine. Each mutating operation is
// one Store.Transaction: the venta row is locked first, every business rule is
// checked, and only then are writes issued.
type VentaService interface {
	AbrirVenta(ctx context.Context, req dto.AbrirVentaRequest) (*dto.VentaResponse, error)
	AgregarItem(ctx context.Context, ventaID uuid.UUID, req dto.AgregarItemRequest) (*dto.VentaResponse, error)
	ActualizarCantidadItem(ctx context.Context, ventaID, itemID uuid.UUID, cantidad int) (*dto.VentaResponse, error)
	CancelarItem(ctx context.Context, ventaID, itemID uuid.UUID, motivo, actor string) (*dto.VentaResponse, error)
	CerrarVenta(ctx context.Context, ventaID uuid.UUID, req dto.CerrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, ventaID uuid.UUID, motivo, actor string) (*dto.VentaResponse, error)
	ReabrirVenta(ctx context.Context, ventaID uuid.UUID, motivo, actor string) (*dto.VentaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	store       repository.Store
	inventario  InventarioService
	caja        CajaService
	cupones     CuponService
	fidelidad   FidelidadService
	cashback    CashbackService
	recompensas RecompensaService
	loc         *time.Location
}

func NewVentaService(
	store repository.Store,
	inventario InventarioService,
	caja CajaService,
	cupones CuponService,
	fidelidad FidelidadService,
	cashback CashbackService,
	recompensas RecompensaService,
	loc *time.Location,
) VentaService {
	if loc == nil {
		loc = time.UTC
	}
	return &ventaService{
		store:       store,
		inventario:  inventario,
		caja:        caja,
		cupones:     cupones,
		fidelidad:   fidelidad,
		cashback:    cashback,
		recompensas: recompensas,
		loc:         loc,
	}
}

// hoy is the business day ticket numbers are scoped to.
func (s *ventaService) hoy() time.Time {
	n := ahora().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// ── AbrirVenta ────────────────────────────────────────────────────────────────

func (s *ventaService) AbrirVenta(ctx context.Context, req dto.AbrirVentaRequest) (resp *dto.VentaResponse, err error) {
	ctx, fin := operacion(ctx, "VentaService.AbrirVenta")
	defer func() { fin(err) }()

	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, invalido("sesion_caja_id inválido")
	}
	var clienteID *uuid.UUID
	if req.ClienteID != nil && *req.ClienteID != "" {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, invalido("cliente_id inválido")
		}
		clienteID = &id
	}
	tipo := req.Tipo
	if tipo == "" {
		tipo = model.TipoVenta
	}
	if tipo != model.TipoVenta && tipo != model.TipoComanda {
		return nil, invalido("tipo de venta desconocido: %s", tipo)
	}

	var v *model.Venta
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := s.caja.FindSesionAbierta(ctx, tx, sesionID); err != nil {
			return err
		}
		if clienteID != nil {
			if _, err := tx.Clientes().FindByID(ctx, *clienteID); err != nil {
				return traducir(err, "cliente")
			}
		}

		fecha := s.hoy()
		numero, err := tx.Ventas().NextNumero(ctx, fecha)
		if err != nil {
			return infra(err)
		}
		v = &model.Venta{
			Numero:       numero,
			Fecha:        fecha,
			Tipo:         tipo,
			Mesa:         req.Mesa,
			Estado:       model.VentaAbierta,
			SesionCajaID: sesionID,
			ClienteID:    clienteID,
			AbiertaAt:    ahora(),
		}
		RecalcularTotales(v)
		return infra(tx.Ventas().Create(ctx, v))
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("venta_id", v.ID.String()).Int("numero", v.Numero).Str("tipo", v.Tipo).Msg("venta abierta")
	return ventaToResponse(v), nil
}

// ── Items ─────────────────────────────────────────────────────────────────────

func (s *ventaService) AgregarItem(ctx context.Context, ventaID uuid.UUID, req dto.AgregarItemRequest) (resp *dto.VentaResponse, err error) {
	ctx, fin := operacion(ctx, "VentaService.AgregarItem", attribute.String("venta_id", ventaID.String()))
	defer func() { fin(err) }()

	if req.Cantidad <= 0 {
		return nil, invalido("la cantidad debe ser positiva")
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, invalido("producto_id inválido")
	}

	var v *model.Venta
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		if v, err = s.ventaAbierta(ctx, tx, ventaID); err != nil {
			return err
		}
		p, err := tx.Productos().FindByID(ctx, productoID)
		if err != nil {
			return traducir(err, "producto")
		}
		if !p.Activo {
			return invalido("el producto %s está inactivo y no puede venderse", p.Nombre)
		}
		subtotal, total := calcularLinea(p.PrecioVenta, req.Cantidad, req.Descuento)
		if req.Descuento.IsNegative() || req.Descuento.GreaterThan(subtotal) {
			return invalido("el descuento del item debe estar entre 0 y %s", subtotal.StringFixed(2))
		}

		if err := s.inventario.ReservarTx(ctx, tx, p, req.Cantidad, v.ID, "item agregado"); err != nil {
			return err
		}
		item := model.VentaItem{
			VentaID:        v.ID,
			ProductoID:     p.ID,
			NombreProducto: p.Nombre,
			PrecioUnitario: p.PrecioVenta,
			PrecioCosto:    p.PrecioCosto,
			Cantidad:       req.Cantidad,
			Subtotal:       subtotal,
			Descuento:      req.Descuento,
			Total:          total,
		}
		if err := tx.Ventas().CreateItem(ctx, &item); err != nil {
			return infra(err)
		}
		v.Items = append(v.Items, item)
		RecalcularTotales(v)
		return infra(tx.Ventas().Update(ctx, v))
	})
	if err != nil {
		return nil, err
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) ActualizarCantidadItem(ctx context.Context, ventaID, itemID uuid.UUID, cantidad int) (resp *dto.VentaResponse, err error) {
	ctx, fin := operacion(ctx, "VentaService.ActualizarCantidadItem", attribute.String("venta_id", ventaID.String()))
	defer func() { fin(err) }()

	if cantidad <= 0 {
		return nil, invalido("la cantidad debe ser positiva")
	}

	var v *model.Venta
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		if v, err = s.ventaAbierta(ctx, tx, ventaID); err != nil {
			return err
		}
		item, err := itemActivo(v, itemID)
		if err != nil {
			return err
		}
		delta := cantidad - item.Cantidad
		if delta == 0 {
			return nil
		}
		subtotal, total := calcularLinea(item.PrecioUnitario, cantidad, item.Descuento)
		if item.Descuento.GreaterThan(subtotal) {
			return invalido("el descuento del item supera el nuevo subtotal")
		}

		if delta > 0 {
			p, err := tx.Productos().FindByID(ctx, item.ProductoID)
			if err != nil {
				return traducir(err, "producto")
			}
			if err := s.inventario.ReservarTx(ctx, tx, p, delta, v.ID, "cantidad aumentada"); err != nil {
				return err
			}
		} else if err := s.inventario.LiberarTx(ctx, tx, item.ProductoID, -delta, v.ID, "cantidad reducida"); err != nil {
			return err
		}

		item.Cantidad = cantidad
		item.Subtotal = subtotal
		item.Total = total
		if err := tx.Ventas().UpdateItem(ctx, item); err != nil {
			return infra(err)
		}
		RecalcularTotales(v)
		return infra(tx.Ventas().Update(ctx, v))
	})
	if err != nil {
		return nil, err
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) CancelarItem(ctx context.Context, ventaID, itemID uuid.UUID, motivo, actor string) (resp *dto.VentaResponse, err error) {
	ctx, fin := operacion(ctx, "VentaService.CancelarItem", attribute.String("venta_id", ventaID.String()))
	defer func() { fin(err) }()

	if strings.TrimSpace(motivo) == "" {
		return nil, invalido("el motivo de cancelación es obligatorio")
	}

	var v *model.Venta
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		if v, err = s.ventaAbierta(ctx, tx, ventaID); err != nil {
			return err
		}
		item, err := itemActivo(v, itemID)
		if err != nil {
			return err
		}
		if err := s.cancelarItemTx(ctx, tx, v, item, motivo, actor); err != nil {
			return err
		}
		RecalcularTotales(v)
		return infra(tx.Ventas().Update(ctx, v))
	})
	if err != nil {
		return nil, err
	}
	return ventaToResponse(v), nil
}

// cancelarItemTx marks item cancelled and returns its whole quantity to stock.
func (s *ventaService) cancelarItemTx(ctx context.Context, tx repository.Store, v *model.Venta, item *model.VentaItem, motivo, actor string) error {
	now := ahora()
	item.Cancelado = true
	item.MotivoCancelacion = &motivo
	item.CanceladoPor = opcional(actor)
	item.CanceladoAt = &now
	if err := tx.Ventas().UpdateItem(ctx, item); err != nil {
		return infra(err)
	}
	return s.inventario.LiberarTx(ctx, tx, item.ProductoID, item.Cantidad, v.ID, "item cancelado: "+motivo)
}

// ── CerrarVenta ───────────────────────────────────────────────────────────────
// Settlement, in this order:
//   1. venta abierta with active items, payments present, coupon only with a cliente
//   2. base = max(subtotal - item discounts - ticket discount, 0)
//   3. coupon validated against base
//   4. loyalty redemption checked against minimum, balance and base - coupon
//   5. total computed, negative rejected
//   6. payments reconciled to total within Epsilon
//   7. writes: pagos, venta cerrada, till totals, redeem, earn, cashback,
//      customer counters, coupon usage
// Everything runs in one transaction so step 7 commits whole or not at all.

func (s *ventaService) CerrarVenta(ctx context.Context, ventaID uuid.UUID, req dto.CerrarVentaRequest) (resp *dto.VentaResponse, err error) {
	ctx, fin := operacion(ctx, "VentaService.CerrarVenta", attribute.String("venta_id", ventaID.String()))
	defer func() { fin(err) }()

	cfg, err := s.recompensas.Configs(ctx)
	if err != nil {
		return nil, err
	}

	var v *model.Venta
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		v, err = s.cerrarTx(ctx, tx, ventaID, req, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.VentasCerradas.Inc()
	log.Info().
		Str("venta_id", v.ID.String()).
		Int("numero", v.Numero).
		Str("total", v.Total.StringFixed(2)).
		Int("puntos_ganados", v.PuntosGanados).
		Int("puntos_usados", v.PuntosUsados).
		Str("cashback", v.CashbackGanado.StringFixed(2)).
		Msg("venta cerrada")
	return ventaToResponse(v), nil
}

func (s *ventaService) cerrarTx(ctx context.Context, tx repository.Store, ventaID uuid.UUID, req dto.CerrarVentaRequest, cfg ConfigRecompensas) (*model.Venta, error) {
	v, err := tx.Ventas().FindByIDForUpdate(ctx, ventaID)
	if err != nil {
		return nil, traducir(err, "venta")
	}

	// 1.
	if v.Estado != model.VentaAbierta {
		return nil, conflicto("la venta #%d no está abierta (%s)", v.Numero, v.Estado)
	}
	activos := v.ItemsActivos()
	if len(activos) == 0 {
		return nil, invalido("la venta no tiene items")
	}
	if len(req.Pagos) == 0 {
		return nil, invalido("se requiere al menos un pago")
	}
	pagos, err := construirPagos(v.ID, req.Pagos)
	if err != nil {
		return nil, err
	}
	codigo := ""
	if req.CodigoCupon != nil {
		codigo = strings.TrimSpace(*req.CodigoCupon)
	}
	if codigo != "" && v.ClienteID == nil {
		return nil, invalido("un cupón requiere un cliente identificado")
	}
	if req.PuntosACanjear < 0 {
		return nil, invalido("los puntos a canjear no pueden ser negativos")
	}
	if req.PuntosACanjear > 0 && v.ClienteID == nil {
		return nil, invalido("el canje de puntos requiere un cliente identificado")
	}
	if req.DescuentoVenta.IsNegative() || req.CargoAdicional.IsNegative() {
		return nil, invalido("descuento y cargo adicional no pueden ser negativos")
	}
	if _, err := s.caja.FindSesionAbierta(ctx, tx, v.SesionCajaID); err != nil {
		return nil, err
	}
	RecalcularTotales(v)

	// 2.
	base := baseCupon(v, req.DescuentoVenta)

	// 3.
	var cupon *model.Cupon
	descCupon := decimal.Zero
	if codigo != "" {
		if cupon, descCupon, err = s.cupones.ValidarTx(ctx, tx, codigo, base, v.ClienteID); err != nil {
			return nil, err
		}
	}

	// 4.
	var cliente *model.Cliente
	if v.ClienteID != nil {
		if cliente, err = tx.Clientes().FindByIDForUpdate(ctx, *v.ClienteID); err != nil {
			return nil, traducir(err, "cliente")
		}
	}
	descFid := decimal.Zero
	if req.PuntosACanjear > 0 {
		if req.PuntosACanjear < cfg.Fidelidad.MinimoPuntosCanje {
			return nil, invalido("el canje mínimo es de %d puntos", cfg.Fidelidad.MinimoPuntosCanje)
		}
		if cliente.PuntosFidelidad < req.PuntosACanjear {
			return nil, insuficiente("puntos insuficientes: saldo %d, solicitados %d", cliente.PuntosFidelidad, req.PuntosACanjear)
		}
		descFid = decimal.NewFromInt(int64(req.PuntosACanjear)).Mul(cfg.Fidelidad.ValorCanjePunto).Round(2)
		if descFid.GreaterThan(base.Sub(descCupon).Add(Epsilon)) {
			return nil, invalido("el descuento por puntos (%s) supera el monto a pagar", descFid.StringFixed(2))
		}
	}

	// 5.
	v.DescuentoVenta = req.DescuentoVenta
	v.DescuentoCupon = descCupon
	v.DescuentoFidelidad = descFid
	v.CargoAdicional = req.CargoAdicional
	RecalcularTotales(v)
	if v.Total.IsNegative() {
		return nil, invalido("el total de la venta no puede ser negativo")
	}

	// 6.
	if !pagosCoinciden(pagos, v.Total) {
		return nil, &Error{Kind: KindPagoNoCoincide, Msg: "los pagos (" + sumaPagos(pagos).StringFixed(2) +
			") no coinciden con el total (" + v.Total.StringFixed(2) + ")"}
	}

	puntos, cashback := 0, decimal.Zero
	reparto := map[uuid.UUID]int{}
	if cliente != nil {
		elegFid, elegCb, err := s.elegibilidad(ctx, tx, activos, cfg)
		if err != nil {
			return nil, err
		}
		puntos = PuntosPorCompra(cfg.Fidelidad, baseElegible(v, elegFid))
		cashback = CashbackPorCompra(cfg.Cashback, baseElegible(v, elegCb))
		reparto = DistribuirPuntos(v.Items, elegFid, puntos)
	}

	// 7.
	if err := tx.Ventas().CreatePagos(ctx, pagos); err != nil {
		return nil, infra(err)
	}

	now := ahora()
	v.Estado = model.VentaCerrada
	v.CerradaAt = &now
	v.CerradaPor = opcional(req.Actor)
	v.PuntosGanados = puntos
	v.PuntosUsados = req.PuntosACanjear
	v.CashbackGanado = cashback
	if cupon != nil {
		v.CuponID = &cupon.ID
	}
	for i := range v.Items {
		pts, ok := reparto[v.Items[i].ID]
		if !ok {
			continue
		}
		v.Items[i].PuntosGanados = pts
		if err := tx.Ventas().UpdateItem(ctx, &v.Items[i]); err != nil {
			return nil, infra(err)
		}
	}
	if err := tx.Ventas().Update(ctx, v); err != nil {
		return nil, infra(err)
	}

	if err := s.caja.AplicarPagosTx(ctx, tx, v, pagos, 1, MovCajaVenta); err != nil {
		return nil, err
	}

	if cliente != nil {
		if req.PuntosACanjear > 0 {
			if _, err := s.fidelidad.CanjearTx(ctx, tx, cfg.Fidelidad, cliente.ID, req.PuntosACanjear, &v.ID); err != nil {
				return nil, err
			}
		}
		if puntos > 0 {
			if _, err := s.fidelidad.GanarTx(ctx, tx, cliente.ID, puntos, &v.ID, vencimiento(now, cfg.Fidelidad.DiasVencimientoPuntos)); err != nil {
				return nil, err
			}
		}
		if cashback.IsPositive() {
			if _, err := s.cashback.GanarTx(ctx, tx, cliente.ID, cashback, &v.ID, vencimiento(now, cfg.Cashback.DiasVencimientoCashback)); err != nil {
				return nil, err
			}
		}
		delta := model.ContadoresCompra{Compras: 1, TotalCompras: v.Total, CashbackTotal: cashback}
		if err := tx.Clientes().AplicarContadores(ctx, cliente.ID, delta); err != nil {
			return nil, infra(err)
		}
	}

	if cupon != nil {
		if err := s.cupones.AplicarUsoTx(ctx, tx, cupon.ID, *v.ClienteID, v.ID, descCupon); err != nil {
			return nil, err
		}
	}

	v.Pagos = pagos
	return v, nil
}

// elegibilidad returns the loyalty and cashback predicates for the active items.
func (s *ventaService) elegibilidad(ctx context.Context, tx repository.Store, activos []model.VentaItem, cfg ConfigRecompensas) (fid, cb func(model.VentaItem) bool, err error) {
	productos := make(map[uuid.UUID]*model.Producto, len(activos))
	for _, it := range activos {
		if _, ok := productos[it.ProductoID]; ok {
			continue
		}
		p, err := tx.Productos().FindByID(ctx, it.ProductoID)
		if err != nil {
			return nil, nil, traducir(err, "producto")
		}
		productos[it.ProductoID] = p
	}
	fid = func(it model.VentaItem) bool {
		return cfg.Fidelidad.AplicarATodos || productos[it.ProductoID].ElegibleFidelidad
	}
	cb = func(it model.VentaItem) bool {
		return cfg.Cashback.AplicarATodos || productos[it.ProductoID].GeneraCashback
	}
	return fid, cb, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Allowed from abierta or cerrada. Every active item goes back to stock. A
// cerrada venta also takes its payments off the till and one purchase off the
// customer's counter; loyalty, cashback and coupon usage are left as they are.

func (s *ventaService) AnularVenta(ctx context.Context, ventaID uuid.UUID, motivo, actor string) (resp *dto.VentaResponse, err error) {
	ctx, fin := operacion(ctx, "VentaService.AnularVenta", attribute.String("venta_id", ventaID.String()))
	defer func() { fin(err) }()

	if strings.TrimSpace(motivo) == "" {
		return nil, invalido("el motivo de anulación es obligatorio")
	}

	var v *model.Venta
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		v, err = tx.Ventas().FindByIDForUpdate(ctx, ventaID)
		if err != nil {
			return traducir(err, "venta")
		}
		if v.Estado == model.VentaAnulada {
			return conflicto("la venta #%d ya está anulada", v.Numero)
		}
		eraCerrada := v.Estado == model.VentaCerrada

		for i := range v.Items {
			if v.Items[i].Cancelado {
				continue
			}
			if err := s.cancelarItemTx(ctx, tx, v, &v.Items[i], motivo, actor); err != nil {
				return err
			}
		}

		now := ahora()
		if eraCerrada {
			if err := s.caja.AplicarPagosTx(ctx, tx, v, v.Pagos, -1, MovCajaAnulacion); err != nil {
				return err
			}
			if v.ClienteID != nil {
				if err := tx.Clientes().AplicarContadores(ctx, *v.ClienteID, model.ContadoresCompra{Compras: -1}); err != nil {
					return infra(err)
				}
			}
			marcarAjuste(v, motivo, actor, now)
		}

		v.Estado = model.VentaAnulada
		v.MotivoAnulacion = &motivo
		v.AnuladaPor = opcional(actor)
		v.AnuladaAt = &now
		return infra(tx.Ventas().Update(ctx, v))
	})
	if err != nil {
		return nil, err
	}

	metrics.VentasAnuladas.Inc()
	log.Info().Str("venta_id", v.ID.String()).Int("numero", v.Numero).Str("motivo", motivo).Msg("venta anulada")
	return ventaToResponse(v), nil
}

// ── ReabrirVenta ──────────────────────────────────────────────────────────────
// Only from cerrada. Payments are deleted and the till loses exactly what the
// close added. Ledger entries the close produced are offset by ajuste rows and
// the coupon use is given back, so closing again settles from scratch. Items
// and stock are untouched.

func (s *ventaService) ReabrirVenta(ctx context.Context, ventaID uuid.UUID, motivo, actor string) (resp *dto.VentaResponse, err error) {
	ctx, fin := operacion(ctx, "VentaService.ReabrirVenta", attribute.String("venta_id", ventaID.String()))
	defer func() { fin(err) }()

	if strings.TrimSpace(motivo) == "" {
		return nil, invalido("el motivo de reapertura es obligatorio")
	}

	var v *model.Venta
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		v, err = tx.Ventas().FindByIDForUpdate(ctx, ventaID)
		if err != nil {
			return traducir(err, "venta")
		}
		if v.Estado != model.VentaCerrada {
			return conflicto("solo una venta cerrada puede reabrirse (estado %s)", v.Estado)
		}
		if v.ClienteID != nil {
			if err := s.verificarReversion(ctx, tx, *v.ClienteID, v.ID); err != nil {
				return err
			}
		}

		pagos := v.Pagos
		if err := tx.Ventas().DeletePagos(ctx, v.ID); err != nil {
			return infra(err)
		}
		if err := s.caja.AplicarPagosTx(ctx, tx, v, pagos, -1, MovCajaReapertura); err != nil {
			return err
		}

		if v.ClienteID != nil {
			if _, err := revertirFidelidadTx(ctx, s.fidelidad, tx, *v.ClienteID, v.ID, motivo, actor); err != nil {
				return err
			}
			revertido, err := revertirCashbackTx(ctx, s.cashback, tx, *v.ClienteID, v.ID, motivo, actor)
			if err != nil {
				return err
			}
			delta := model.ContadoresCompra{Compras: -1, TotalCompras: v.Total.Neg(), CashbackTotal: revertido.Neg()}
			if err := tx.Clientes().AplicarContadores(ctx, *v.ClienteID, delta); err != nil {
				return infra(err)
			}
		}
		if v.CuponID != nil {
			if err := s.cupones.RevertirUsoTx(ctx, tx, v.ID); err != nil {
				return err
			}
		}

		for i := range v.Items {
			if v.Items[i].PuntosGanados == 0 {
				continue
			}
			v.Items[i].PuntosGanados = 0
			if err := tx.Ventas().UpdateItem(ctx, &v.Items[i]); err != nil {
				return infra(err)
			}
		}

		now := ahora()
		v.Estado = model.VentaAbierta
		v.DescuentoVenta = decimal.Zero
		v.DescuentoCupon = decimal.Zero
		v.DescuentoFidelidad = decimal.Zero
		v.CargoAdicional = decimal.Zero
		v.CuponID = nil
		v.PuntosGanados = 0
		v.PuntosUsados = 0
		v.CashbackGanado = decimal.Zero
		v.CerradaAt = nil
		v.CerradaPor = nil
		v.Pagos = nil
		marcarAjuste(v, motivo, actor, now)
		RecalcularTotales(v)
		return infra(tx.Ventas().Update(ctx, v))
	})
	if err != nil {
		return nil, err
	}

	metrics.VentasReabiertas.Inc()
	log.Info().Str("venta_id", v.ID.String()).Int("numero", v.Numero).Str("motivo", motivo).Msg("venta reabierta")
	return ventaToResponse(v), nil
}

// verificarReversion rejects a reopen whose ledger offsets would take the
// customer below zero, i.e. the rewards of this venta were already spent.
func (s *ventaService) verificarReversion(ctx context.Context, tx repository.Store, clienteID, ventaID uuid.UUID) error {
	c, err := tx.Clientes().FindByIDForUpdate(ctx, clienteID)
	if err != nil {
		return traducir(err, "cliente")
	}
	fid, err := fidelidadPendientesDeVenta(ctx, tx, ventaID)
	if err != nil {
		return err
	}
	puntos := c.PuntosFidelidad
	for _, t := range fid {
		puntos -= t.Puntos
	}
	if puntos < 0 {
		return insuficiente("el cliente ya utilizó los puntos de esta venta (saldo %d)", c.PuntosFidelidad)
	}
	cb, err := cashbackPendientesDeVenta(ctx, tx, ventaID)
	if err != nil {
		return err
	}
	saldo := c.SaldoCashback
	for _, t := range cb {
		saldo = saldo.Sub(t.Monto)
	}
	if saldo.IsNegative() {
		return insuficiente("el cliente ya utilizó el cashback de esta venta (saldo %s)", c.SaldoCashback.StringFixed(2))
	}
	return nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.store.Ventas().FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "venta")
	}
	return ventaToResponse(v), nil
}

// ListarVentas returns a paginated list of ventas, filtered by date and estado.
// Default filter: today's ventas in every estado.
func (s *ventaService) ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Fecha == "" {
		filter.Fecha = s.hoy().Format("2006-01-02")
	}
	ventas, total, err := s.store.Ventas().List(ctx, filter)
	if err != nil {
		return nil, infra(err)
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *ventaService) ventaAbierta(ctx context.Context, tx repository.Store, id uuid.UUID) (*model.Venta, error) {
	v, err := tx.Ventas().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, traducir(err, "venta")
	}
	if v.Estado != model.VentaAbierta {
		return nil, conflicto("la venta #%d no está abierta (%s)", v.Numero, v.Estado)
	}
	return v, nil
}

// itemActivo returns a pointer into v.Items so changes are reflected in totals.
func itemActivo(v *model.Venta, itemID uuid.UUID) (*model.VentaItem, error) {
	for i := range v.Items {
		if v.Items[i].ID != itemID {
			continue
		}
		if v.Items[i].Cancelado {
			return nil, conflicto("el item ya está cancelado")
		}
		return &v.Items[i], nil
	}
	return nil, noEncontrado("item %s no pertenece a la venta", itemID)
}

func construirPagos(ventaID uuid.UUID, req []dto.PagoRequest) ([]model.VentaPago, error) {
	pagos := make([]model.VentaPago, 0, len(req))
	for _, p := range req {
		switch p.Metodo {
		case model.MetodoEfectivo, model.MetodoDebito, model.MetodoCredito, model.MetodoPix, model.MetodoOtro:
		default:
			return nil, invalido("método de pago desconocido: %s", p.Metodo)
		}
		if !p.Monto.IsPositive() {
			return nil, invalido("los montos de pago deben ser positivos")
		}
		pagos = append(pagos, model.VentaPago{VentaID: ventaID, Metodo: p.Metodo, Monto: p.Monto})
	}
	return pagos, nil
}

func marcarAjuste(v *model.Venta, motivo, actor string, at time.Time) {
	v.Ajustada = true
	v.MotivoAjuste = &motivo
	v.AjustadaPor = opcional(actor)
	v.AjustadaAt = &at
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:                 v.ID.String(),
		Numero:             v.Numero,
		Fecha:              v.Fecha.Format("2006-01-02"),
		Tipo:               v.Tipo,
		Mesa:               v.Mesa,
		Estado:             v.Estado,
		SesionCajaID:       v.SesionCajaID.String(),
		Items:              make([]dto.ItemVentaResponse, 0, len(v.Items)),
		Pagos:              make([]dto.PagoResponse, 0, len(v.Pagos)),
		Subtotal:           v.Subtotal,
		DescuentoItems:     v.DescuentoItems,
		DescuentoVenta:     v.DescuentoVenta,
		DescuentoCupon:     v.DescuentoCupon,
		DescuentoFidelidad: v.DescuentoFidelidad,
		Descuento:          v.Descuento,
		CargoAdicional:     v.CargoAdicional,
		Total:              v.Total,
		PuntosGanados:      v.PuntosGanados,
		PuntosUsados:       v.PuntosUsados,
		CashbackGanado:     v.CashbackGanado,
		Ajustada:           v.Ajustada,
		MotivoAjuste:       v.MotivoAjuste,
		AbiertaAt:          v.AbiertaAt.Format(time.RFC3339),
	}
	if v.ClienteID != nil {
		id := v.ClienteID.String()
		resp.ClienteID = &id
	}
	if v.CerradaAt != nil {
		t := v.CerradaAt.Format(time.RFC3339)
		resp.CerradaAt = &t
	}
	for _, it := range v.Items {
		resp.Items = append(resp.Items, dto.ItemVentaResponse{
			ID:             it.ID.String(),
			ProductoID:     it.ProductoID.String(),
			Producto:       it.NombreProducto,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
			Descuento:      it.Descuento,
			Total:          it.Total,
			PuntosGanados:  it.PuntosGanados,
			Cancelado:      it.Cancelado,
		})
	}
	for _, p := range v.Pagos {
		resp.Pagos = append(resp.Pagos, dto.PagoResponse{Metodo: p.Metodo, Monto: p.Monto})
	}
	return resp
}
