package handler

import (
	"net/http"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CuponesHandler struct{ svc service.CuponService }

func NewCuponesHandler(svc service.CuponService) *CuponesHandler { return &CuponesHandler{svc: svc} }

// Crear godoc
// @Summary Crea un cupón de descuento
// @Tags cupones
// @Accept json
// @Produce json
// @Param body body dto.CrearCuponRequest true "Cupón"
// @Success 201 {object} dto.CuponResponse
// @Failure 409 {object} apierror.APIError "Código duplicado"
// @Router /v1/cupones [post]
func (h *CuponesHandler) Crear(c *gin.Context) {
	var req dto.CrearCuponRequest
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

func (h *CuponesHandler) ObtenerPorCodigo(c *gin.Context) {
	resp, err := h.svc.ObtenerPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Validar godoc
// @Summary Valida un cupón contra un monto base sin consumirlo
// @Tags cupones
// @Accept json
// @Produce json
// @Param body body dto.ValidarCuponRequest true "Código, base y cliente"
// @Success 200 {object} dto.ValidarCuponResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/cupones/validar [post]
func (h *CuponesHandler) Validar(c *gin.Context) {
	var req dto.ValidarCuponRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Validar(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuponesHandler) CambiarEstado(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoCuponRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
