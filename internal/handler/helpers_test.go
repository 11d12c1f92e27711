package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/apierror"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/dto"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_MapeaKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	casos := []struct {
		err    error
		status int
		code   string
	}{
		{&service.Error{Kind: service.KindNotFound, Msg: "venta no encontrada"}, http.StatusNotFound, "not_found"},
		{&service.Error{Kind: service.KindValidacion, Msg: "sin pagos"}, http.StatusUnprocessableEntity, "validacion"},
		{&service.Error{Kind: service.KindConflicto, Msg: "venta ya cerrada"}, http.StatusConflict, "conflicto"},
		{&service.Error{Kind: service.KindRecursoInsuficiente, Msg: "stock insuficiente"}, http.StatusConflict, "recurso_insuficiente"},
		{&service.Error{Kind: service.KindPagoNoCoincide, Msg: "pagos 25.00, total 30.00"}, http.StatusUnprocessableEntity, "pago_no_coincide"},
		{fmt.Errorf("cerrar: %w", &service.Error{Kind: service.KindConflicto, Msg: "envuelto"}), http.StatusConflict, "conflicto"},
		{errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, "infraestructura"},
	}

	for _, tc := range casos {
		t.Run(tc.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body apierror.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.NotContains(t, body.Detail, "connection refused")
		})
	}
}

func TestValidar_DecimalComoNumero(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ok := validar(c, &dto.PagoRequest{Metodo: "efectivo", Monto: decimal.Zero})
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "required", body.Fields["Monto"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	assert.True(t, validar(c, &dto.PagoRequest{Metodo: "pix", Monto: decimal.RequireFromString("0.01")}))
}
