// Package apierror is the JSON body of every error response. Only Detail
// is meant for people; clients branch on Code.
package apierror

// Codes raised by the HTTP layer itself. Service failures use the service
// error kinds (validacion, conflicto, ...) as Code.
const (
	CodeSolicitud = "solicitud_invalida"
	CodeLimite    = "limite"
	CodeInterno   = "interno"
)

type APIError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

// New is a malformed request: bad JSON, query string or path parameter.
func New(msg string) *APIError {
	return WithCode(CodeSolicitud, msg)
}

func WithCode(code, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// NewValidation maps each failing struct field to the tag it broke.
func NewValidation(fields map[string]string) *APIError {
	return &APIError{Code: "validacion", Detail: "Error de validacion", Fields: fields}
}
