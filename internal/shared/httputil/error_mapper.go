package httputil

import (
	"context"
	"errors"
	"net/http"
)

// HTTPErrorInfo is what a handler renders for a failed request.
type HTTPErrorInfo struct {
	Status  int
	Code    string
	Message string
	Field   string
}

type errorRule struct {
	target error
	info   HTTPErrorInfo
}

// ErrorMapper translates domain errors into HTTP responses. Rules are checked with
// errors.Is in the order they were added; the first match wins.
type ErrorMapper struct {
	rules    []errorRule
	fallback HTTPErrorInfo
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		fallback: HTTPErrorInfo{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "erro interno do servidor"},
	}
}

func (m *ErrorMapper) WithMapping(err error, status int, code, message string) *ErrorMapper {
	return m.WithFieldMapping(err, status, code, "", message)
}

// WithFieldMapping is WithMapping for errors caused by a single request field.
func (m *ErrorMapper) WithFieldMapping(err error, status int, code, field, message string) *ErrorMapper {
	m.rules = append(m.rules, errorRule{
		target: err,
		info:   HTTPErrorInfo{Status: status, Code: code, Message: message, Field: field},
	})
	return m
}

// WithDefault replaces the response used for unmatched errors.
func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.fallback.Status = status
	m.fallback.Message = message
	return m
}

func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	switch {
	case err == nil:
		return HTTPErrorInfo{Status: http.StatusOK}
	case errors.Is(err, context.DeadlineExceeded):
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Code: CodeTimeout, Message: "tempo de requisição esgotado"}
	case errors.Is(err, context.Canceled):
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Code: CodeCancelled, Message: "requisição cancelada"}
	}
	for _, rule := range m.rules {
		if errors.Is(err, rule.target) {
			return rule.info
		}
	}
	return m.fallback
}
