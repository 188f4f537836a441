package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
)

// Machine readable error codes carried in the error envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeBadGateway   = "BAD_GATEWAY"
	CodeTimeout      = "TIMEOUT"
	CodeCancelled    = "CANCELLED"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorBody is the error section of the envelope.
type ErrorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Envelope wraps every JSON response.
type Envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	RequestID string     `json:"requestId,omitempty"`
}

// RequestID returns the id assigned by echo's RequestID middleware.
func RequestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// OK renders a successful envelope.
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data, RequestID: RequestID(c)})
}

// Fail renders an error envelope.
func Fail(c echo.Context, status int, body ErrorBody) error {
	return c.JSON(status, Envelope{Success: false, Error: &body, RequestID: RequestID(c)})
}

// FailWith maps err through mapper and renders it, logging server side failures.
// ozzo validation errors are reported per field with status 400.
func FailWith(c echo.Context, mapper *ErrorMapper, err error) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return Fail(c, http.StatusBadRequest, ValidationBody(fieldErrs))
	}

	info := mapper.Map(err)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("path", c.Path()),
			slog.String("requestId", RequestID(c)),
			slog.Any("error", err),
		)
	}
	return Fail(c, info.Status, ErrorBody{Message: info.Message, Code: info.Code, Field: info.Field})
}

// ValidationBody flattens ozzo errors; the first field (by key order) becomes the headline.
func ValidationBody(errs validation.Errors) ErrorBody {
	fields := make(map[string]string, len(errs))
	var firstField, firstMessage string
	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		fields[field] = fieldErr.Error()
		if firstField == "" || field < firstField {
			firstField = field
			firstMessage = fieldErr.Error()
		}
	}
	if firstMessage == "" {
		firstMessage = "dados inválidos"
	}
	return ErrorBody{Message: firstMessage, Code: CodeValidation, Field: firstField, Fields: fields}
}

// HTTPErrorHandler renders echo.HTTPError values (router 404s, middleware rejections)
// in the same envelope as handler errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "erro interno do servidor"
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if text, ok := httpErr.Message.(string); ok {
			message = text
		} else if status != http.StatusInternalServerError {
			message = http.StatusText(status)
		}
	} else {
		slog.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
	}

	body := ErrorBody{Message: message, Code: codeForStatus(status)}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = Fail(c, status, body)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}
