package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/apierror"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/middleware"
	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads a UUID path parameter, answering 400 when malformed.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps a service error kind onto its HTTP status. Infrastructure
// failures are logged and answered with a generic message.
func writeError(c *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = &service.Error{Kind: service.KindInfraestructura, Err: err}
	}

	switch svcErr.Kind {
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, apierror.WithCode(string(svcErr.Kind), svcErr.Error()))
	case service.KindValidacion:
		c.JSON(http.StatusUnprocessableEntity, apierror.WithCode(string(svcErr.Kind), svcErr.Error()))
	case service.KindConflicto, service.KindRecursoInsuficiente:
		c.JSON(http.StatusConflict, apierror.WithCode(string(svcErr.Kind), svcErr.Error()))
	case service.KindPagoNoCoincide:
		c.JSON(http.StatusUnprocessableEntity, apierror.WithCode(string(svcErr.Kind), svcErr.Error()))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("infrastructure error")
		c.JSON(http.StatusServiceUnavailable, apierror.WithCode(string(service.KindInfraestructura), "Servicio no disponible, intente nuevamente"))
	}
}
