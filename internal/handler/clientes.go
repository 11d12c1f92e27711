package handler

import (
	"net/http"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// ClientesHandler serves customers and their loyalty and cashback ledgers.
type ClientesHandler struct {
	clientes  service.ClienteService
	fidelidad service.FidelidadService
	cashback  service.CashbackService
}

func NewClientesHandler(clientes service.ClienteService, fidelidad service.FidelidadService, cashback service.CashbackService) *ClientesHandler {
	return &ClientesHandler{clientes: clientes, fidelidad: fidelidad, cashback: cashback}
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.clientes.Crear(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.clientes.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Fidelidad ────────────────────────────────────────────────────────────────

func (h *ClientesHandler) SaldoFidelidad(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.fidelidad.Saldo(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) HistorialFidelidad(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.fidelidad.Historial(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// AjustarFidelidad godoc
// @Summary Ajuste manual de puntos
// @Tags fidelidad
// @Accept json
// @Produce json
// @Param id   path string                  true "UUID del cliente"
// @Param body body dto.AjustePuntosRequest true "Ajuste (positivo o negativo)"
// @Success 201 {object} dto.TransaccionFidelidadResponse
// @Failure 409 {object} apierror.APIError "Saldo insuficiente"
// @Router /v1/clientes/{id}/fidelidad/ajuste [post]
func (h *ClientesHandler) AjustarFidelidad(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AjustePuntosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.fidelidad.Ajustar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) CanjearRecompensa(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CanjeRecompensaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.fidelidad.CanjearRecompensa(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ── Cashback ─────────────────────────────────────────────────────────────────

func (h *ClientesHandler) SaldoCashback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.cashback.Saldo(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) HistorialCashback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.cashback.Historial(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *ClientesHandler) AjustarCashback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AjusteCashbackRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cashback.Ajustar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CanjearCashback godoc
// @Summary Canje de saldo de cashback fuera de una venta
// @Tags cashback
// @Accept json
// @Produce json
// @Param id   path string                   true "UUID del cliente"
// @Param body body dto.CanjeCashbackRequest true "Monto"
// @Success 201 {object} dto.TransaccionCashbackResponse
// @Failure 409 {object} apierror.APIError "Saldo insuficiente"
// @Failure 422 {object} apierror.APIError "Debajo del mínimo de canje"
// @Router /v1/clientes/{id}/cashback/canje [post]
func (h *ClientesHandler) CanjearCashback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CanjeCashbackRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cashback.Canjear(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) TransferirCashback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.TransferenciaCashbackRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.cashback.Transferir(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
