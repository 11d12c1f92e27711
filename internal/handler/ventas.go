package handler

import (
	"net/http"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// AbrirVenta godoc
// @Summary      Abrir una venta
// @Description  Crea un ticket abierto (venta de mostrador o comanda) sobre una sesión de caja abierta.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body body dto.AbrirVentaRequest true "Datos de apertura"
// @Success      201  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) AbrirVenta(c *gin.Context) {
	var req dto.AbrirVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AbrirVenta(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Retorna lista paginada de ventas filtrada por fecha y estado.
// @Tags         ventas
// @Produce      json
// @Param        fecha  query string false "YYYY-MM-DD"
// @Param        estado query string false "abierta | cerrada | anulada | all"
// @Param        page   query int    false "Página"
// @Param        limit  query int    false "Tamaño de página"
// @Success      200  {object} dto.VentaListResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarVentas(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerVenta godoc
// @Summary      Obtener una venta
// @Tags         ventas
// @Produce      json
// @Param        id path string true "UUID de la venta"
// @Success      200  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarItem godoc
// @Summary      Agregar un item
// @Description  Agrega un producto a una venta abierta y reserva su stock.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id   path string                 true "UUID de la venta"
// @Param        body body dto.AgregarItemRequest true "Item"
// @Success      200  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError "Venta no abierta o stock insuficiente"
// @Router       /v1/ventas/{id}/items [post]
func (h *VentasHandler) AgregarItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AgregarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarItem(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarCantidadItem godoc
// @Summary      Cambiar la cantidad de un item
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id     path string                        true "UUID de la venta"
// @Param        itemId path string                        true "UUID del item"
// @Param        body   body dto.ActualizarCantidadRequest true "Nueva cantidad"
// @Success      200  {object} dto.VentaResponse
// @Router       /v1/ventas/{id}/items/{itemId} [patch]
func (h *VentasHandler) ActualizarCantidadItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	var req dto.ActualizarCantidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCantidadItem(c.Request.Context(), id, itemID, req.Cantidad)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelarItem godoc
// @Summary      Cancelar un item
// @Description  Marca el item como cancelado y devuelve su cantidad al stock.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id     path string            true "UUID de la venta"
// @Param        itemId path string            true "UUID del item"
// @Param        body   body dto.MotivoRequest true "Motivo"
// @Success      200  {object} dto.VentaResponse
// @Router       /v1/ventas/{id}/items/{itemId} [delete]
func (h *VentasHandler) CancelarItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	var req dto.MotivoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CancelarItem(c.Request.Context(), id, itemID, req.Motivo, req.Actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CerrarVenta godoc
// @Summary      Cerrar (liquidar) una venta
// @Description  Aplica descuentos, cupón y canje de puntos, concilia pagos y acredita fidelidad y cashback en una sola transacción.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id   path string                 true "UUID de la venta"
// @Param        body body dto.CerrarVentaRequest true "Liquidación"
// @Success      200  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError "Venta no abierta o saldo insuficiente"
// @Failure      422  {object} apierror.APIError "Regla de negocio o pagos que no coinciden"
// @Router       /v1/ventas/{id}/cerrar [post]
func (h *VentasHandler) CerrarVenta(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CerrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CerrarVenta(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnularVenta godoc
// @Summary      Anular una venta
// @Description  Cancela todos los items, devuelve stock y, si estaba cerrada, revierte la caja.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id   path string            true "UUID de la venta"
// @Param        body body dto.MotivoRequest true "Motivo de anulación"
// @Success      200  {object} dto.VentaResponse
// @Router       /v1/ventas/{id}/anular [post]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MotivoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AnularVenta(c.Request.Context(), id, req.Motivo, req.Actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReabrirVenta godoc
// @Summary      Reabrir una venta cerrada
// @Description  Borra los pagos, revierte caja, fidelidad, cashback y uso de cupón, y deja la venta abierta.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id   path string            true "UUID de la venta"
// @Param        body body dto.MotivoRequest true "Motivo de reapertura"
// @Success      200  {object} dto.VentaResponse
// @Router       /v1/ventas/{id}/reabrir [post]
func (h *VentasHandler) ReabrirVenta(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.MotivoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReabrirVenta(c.Request.Context(), id, req.Motivo, req.Actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
