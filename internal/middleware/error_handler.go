package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const mensajeInterno = "Error interno del servidor"

// ErrorHandler answers for handlers that attached an error with c.Error and
// wrote nothing. Bind errors are the client's fault; anything else is a 500
// whose cause only reaches the log.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		if bind := c.Errors.ByType(gin.ErrorTypeBind).Last(); bind != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New(bind.Error()))
			return
		}
		conRequest(log.Error(), c).
			Errs("errors", erroresDe(c)).
			Msg("unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.WithCode(apierror.CodeInterno, mensajeInterno))
	}
}

// Recovery turns a panic into a 500 and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			conRequest(log.Error(), c).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.WithCode(apierror.CodeInterno, mensajeInterno))
		}()
		c.Next()
	}
}

// Logger writes one line per request. Probes and scrapes go to debug so
// they do not drown the till traffic.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		case c.FullPath() == "/health" || c.FullPath() == "/metrics":
			ev = log.Debug()
		default:
			ev = log.Info()
		}
		conRequest(ev, c).
			Str("ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func conRequest(ev *zerolog.Event, c *gin.Context) *zerolog.Event {
	return ev.
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
}

func erroresDe(c *gin.Context) []error {
	errs := make([]error, 0, len(c.Errors))
	for _, e := range c.Errors {
		errs = append(errs, e.Err)
	}
	return errs
}
