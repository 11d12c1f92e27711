package handler

import (
	"net/http"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/worker"

	"github.com/gin-gonic/gin"
)

// RecompensasHandler serves the reward program configuration and the manual
// expiration trigger.
type RecompensasHandler struct {
	svc       service.RecompensaService
	encolador worker.Encolador
}

func NewRecompensasHandler(svc service.RecompensaService, encolador worker.Encolador) *RecompensasHandler {
	return &RecompensasHandler{svc: svc, encolador: encolador}
}

func (h *RecompensasHandler) ObtenerFidelidad(c *gin.Context) {
	cfg, err := h.svc.ConfigFidelidad(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ConfigFidelidadToResponse(cfg))
}

// GuardarFidelidad godoc
// @Summary Actualiza la configuración del programa de fidelidad
// @Description Solo se modifican los campos presentes en el cuerpo.
// @Tags recompensas
// @Accept json
// @Produce json
// @Param body body dto.ConfigFidelidadRequest true "Campos a modificar"
// @Success 200 {object} dto.ConfigFidelidadResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/recompensas/fidelidad [put]
func (h *RecompensasHandler) GuardarFidelidad(c *gin.Context) {
	var req dto.ConfigFidelidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GuardarConfigFidelidad(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecompensasHandler) ObtenerCashback(c *gin.Context) {
	cfg, err := h.svc.ConfigCashback(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ConfigCashbackToResponse(cfg))
}

func (h *RecompensasHandler) GuardarCashback(c *gin.Context) {
	var req dto.ConfigCashbackRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GuardarConfigCashback(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EncolarVencimientos godoc
// @Summary Encola los barridos de vencimiento de puntos y cashback
// @Tags recompensas
// @Produce json
// @Success 202 {object} dto.VencimientoResponse
// @Failure 503 {object} apierror.APIError
// @Router /v1/recompensas/vencimientos [post]
func (h *RecompensasHandler) EncolarVencimientos(c *gin.Context) {
	ids, err := h.encolador.EncolarVencimientos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.VencimientoResponse{Encolados: ids})
}

// ReencolarFallidos godoc
// @Summary Devuelve a la cola los jobs de recompensas de la DLQ
// @Tags recompensas
// @Produce json
// @Success 202 {object} dto.ReencolarResponse
// @Failure 503 {object} apierror.APIError
// @Router /v1/recompensas/vencimientos/reintentar [post]
func (h *RecompensasHandler) ReencolarFallidos(c *gin.Context) {
	n, err := h.encolador.ReencolarFallidos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.ReencolarResponse{Reencolados: n})
}
