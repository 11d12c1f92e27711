package handler

import (
	"net/http"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct {
	svc        service.ProductoService
	inventario service.InventarioService
}

func NewProductosHandler(svc service.ProductoService, inventario service.InventarioService) *ProductosHandler {
	return &ProductosHandler{svc: svc, inventario: inventario}
}

func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorBarcode godoc
// @Summary Consulta de producto por codigo de barras
// @Tags productos
// @Produce json
// @Param barcode path string true "Codigo de barras"
// @Success 200 {object} dto.ProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/barcode/{barcode} [get]
func (h *ProductosHandler) ObtenerPorBarcode(c *gin.Context) {
	resp, err := h.svc.ObtenerPorBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos godoc
// @Summary Libro de stock de un producto, del mas reciente al mas antiguo
// @Tags productos
// @Produce json
// @Param id path string true "ID de producto"
// @Param page query int false "Pagina" default(1)
// @Param limit query int false "Tamaño de pagina" default(50)
// @Success 200 {object} dto.MovimientoStockListResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id}/movimientos [get]
func (h *ProductosHandler) ListarMovimientos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var q dto.PaginaQuery
	if !bindQuery(c, &q) {
		return
	}
	data, total, err := h.inventario.ListarMovimientos(c.Request.Context(), id, q.Page, q.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MovimientoStockListResponse{Data: data, Total: total, Page: q.Page, Limit: q.Limit})
}
