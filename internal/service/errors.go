package service

import (
	"errors"
	"fmt"

	"github.com/HygorDavidAraujo/sistemaSorveteria-sub000/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a service failure. The HTTP layer maps each kind to a status.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindValidacion          Kind = "validacion"
	KindConflicto           Kind = "conflicto"
	KindRecursoInsuficiente Kind = "recurso_insuficiente"
	KindPagoNoCoincide      Kind = "pago_no_coincide"
	KindInfraestructura     Kind = "infraestructura"
)

// Error is the typed failure every service returns. Business kinds are always
// raised before the first write of an operation.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindInfraestructura {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, service.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrValidacion          = &Error{Kind: KindValidacion}
	ErrConflicto           = &Error{Kind: KindConflicto}
	ErrRecursoInsuficiente = &Error{Kind: KindRecursoInsuficiente}
	ErrPagoNoCoincide      = &Error{Kind: KindPagoNoCoincide}
	ErrInfraestructura     = &Error{Kind: KindInfraestructura}
)

func noEncontrado(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func invalido(format string, args ...any) *Error {
	return &Error{Kind: KindValidacion, Msg: fmt.Sprintf(format, args...)}
}

func conflicto(format string, args ...any) *Error {
	return &Error{Kind: KindConflicto, Msg: fmt.Sprintf(format, args...)}
}

func insuficiente(format string, args ...any) *Error {
	return &Error{Kind: KindRecursoInsuficiente, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err, or "" when err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// traducir turns a repository error into a service error. Errors that are
// already typed pass through unchanged.
func traducir(err error, entidad string) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &Error{Kind: KindNotFound, Msg: entidad + " no encontrado", Err: err}
	case errors.Is(err, repository.ErrStockInsuficiente):
		return &Error{Kind: KindRecursoInsuficiente, Msg: "stock insuficiente", Err: err}
	case errors.Is(err, repository.ErrCuponAgotado):
		return &Error{Kind: KindConflicto, Msg: "el cupón ya alcanzó su límite de usos", Err: err}
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		return &Error{Kind: KindConflicto, Msg: entidad + " duplicado", Err: err}
	}
	return &Error{Kind: KindInfraestructura, Msg: "error de almacenamiento", Err: err}
}

// infra wraps a store failure that is never a business outcome.
func infra(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: KindInfraestructura, Msg: "error de almacenamiento", Err: err}
}
