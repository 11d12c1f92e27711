package service

import (
	"context"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/model"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/google/uuid"
)

// ProductoService is the catalog the engine snapshots prices from.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
}

type productoService struct {
	store repository.Store
}

func NewProductoService(store repository.Store) ProductoService {
	return &productoService{store: store}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.PrecioVenta.LessThan(req.PrecioCosto) {
		return nil, invalido("el precio de venta no puede ser menor al costo")
	}
	p := &model.Producto{
		CodigoBarras:      req.CodigoBarras,
		Nombre:            req.Nombre,
		Categoria:         req.Categoria,
		PrecioCosto:       req.PrecioCosto,
		PrecioVenta:       req.PrecioVenta,
		ControlaStock:     valorOr(req.ControlaStock, true),
		StockActual:       req.StockActual,
		StockMinimo:       req.StockMinimo,
		UnidadMedida:      req.UnidadMedida,
		Activo:            true,
		ElegibleFidelidad: valorOr(req.ElegibleFidelidad, true),
		GeneraCashback:    valorOr(req.GeneraCashback, true),
	}
	if p.Categoria == "" {
		p.Categoria = "general"
	}
	if p.UnidadMedida == "" {
		p.UnidadMedida = "unidad"
	}
	if err := s.store.Productos().Create(ctx, p); err != nil {
		return nil, traducir(err, "producto "+p.CodigoBarras)
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.store.Productos().FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "producto")
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error) {
	p, err := s.store.Productos().FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, traducir(err, "producto")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.store.Productos().List(ctx, filter)
	if err != nil {
		return nil, infra(err)
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:                p.ID.String(),
		CodigoBarras:      p.CodigoBarras,
		Nombre:            p.Nombre,
		Categoria:         p.Categoria,
		PrecioCosto:       p.PrecioCosto,
		PrecioVenta:       p.PrecioVenta,
		ControlaStock:     p.ControlaStock,
		StockActual:       p.StockActual,
		StockMinimo:       p.StockMinimo,
		UnidadMedida:      p.UnidadMedida,
		ElegibleFidelidad: p.ElegibleFidelidad,
		GeneraCashback:    p.GeneraCashback,
		Activo:            p.Activo,
	}
}

func valorOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
