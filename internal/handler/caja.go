package handler

import (
	"net/http"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

type sesionActivaQuery struct {
	PuntoDeVenta int `form:"punto_de_venta" validate:"required,min=1"`
}

// Abrir godoc
// @Summary Abre la sesion de caja de un punto de venta
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.AbrirCajaRequest true "Punto de venta, operador y fondo inicial"
// @Success 201 {object} dto.ReporteCajaResponse
// @Failure 409 {object} apierror.APIError "Ya hay una caja abierta en ese punto de venta"
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SesionActiva godoc
// @Summary Devuelve la caja abierta de un punto de venta
// @Tags caja
// @Produce json
// @Param punto_de_venta query int true "Punto de venta"
// @Success 200 {object} dto.ReporteCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/abierta [get]
func (h *CajaHandler) SesionActiva(c *gin.Context) {
	var q sesionActivaQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.SesionActiva(c.Request.Context(), q.PuntoDeVenta)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Arqueo godoc
// @Summary Cierra la sesion con el conteo ciego declarado
// @Description El esperado solo se revela en la respuesta. Un desvio critico exige observaciones.
// @Tags caja
// @Accept json
// @Produce json
// @Param body body dto.ArqueoRequest true "Conteo por medio de pago"
// @Success 200 {object} dto.ArqueoResponse
// @Failure 409 {object} apierror.APIError "La sesion no esta abierta"
// @Failure 422 {object} apierror.APIError "Desvio critico sin observaciones"
// @Router /v1/caja/arqueo [post]
func (h *CajaHandler) Arqueo(c *gin.Context) {
	var req dto.ArqueoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Arqueo(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimiento godoc
// @Summary Registra un ingreso o egreso manual de dinero
// @Tags caja
// @Accept json
// @Param body body dto.MovimientoManualRequest true "Movimiento manual"
// @Success 204
// @Failure 409 {object} apierror.APIError "La sesion no esta abierta"
// @Router /v1/caja/movimiento [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RegistrarMovimiento(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ObtenerReporte godoc
// @Summary Totales, esperado y resultado del arqueo de una sesion
// @Tags caja
// @Produce json
// @Param id path string true "ID de sesion"
// @Success 200 {object} dto.ReporteCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/reporte [get]
func (h *CajaHandler) ObtenerReporte(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerReporte(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos godoc
// @Summary Libro de movimientos de una sesion, en orden de registro
// @Tags caja
// @Produce json
// @Param id path string true "ID de sesion"
// @Success 200 {array} dto.MovimientoCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/movimientos [get]
func (h *CajaHandler) ListarMovimientos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	movs, err := h.svc.ListarMovimientos(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, movs)
}
