package transport

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"reservaMesa/internal/modules/documents/domain"
	"reservaMesa/internal/shared/httputil"
)

type documentRequest struct {
	Kind     string `json:"kind"`
	Document string `json:"document"`
}

type validateResponse struct {
	Kind      string `json:"kind"`
	Valid     bool   `json:"valid"`
	Formatted string `json:"formatted"`
	Reason    string `json:"reason,omitempty"`
}

type formatResponse struct {
	Kind        string `json:"kind"`
	Formatted   string `json:"formatted"`
	Placeholder string `json:"placeholder"`
	Complete    bool   `json:"complete"`
}

var reasons = map[error]string{
	domain.ErrInvalidLength:  "número de dígitos incorreto",
	domain.ErrRepeatedDigits: "dígitos repetidos",
	domain.ErrChecksum:       "dígitos verificadores não conferem",
}

func bindDocument(c echo.Context) (documentRequest, domain.Kind, error) {
	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return req, domain.KindUnknown, httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{Message: "corpo da requisição inválido", Code: httputil.CodeValidation})
	}
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		return req, domain.KindUnknown, httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{
			Message: "tipo de documento deve ser cpf ou cnpj",
			Code:    httputil.CodeValidation,
			Field:   "kind",
		})
	}
	return req, kind, nil
}

// NewValidateHandler serves POST /api/documents/validate. An invalid document is a
// normal 200 answer with valid=false and a reason.
func NewValidateHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		req, kind, err := bindDocument(c)
		if kind == domain.KindUnknown {
			return err
		}
		resp := validateResponse{
			Kind:      kind.String(),
			Formatted: domain.Format(kind, req.Document),
		}
		if checkErr := domain.Check(kind, req.Document); checkErr != nil {
			resp.Reason = reasonFor(checkErr)
		} else {
			resp.Valid = true
		}
		return httputil.OK(c, http.StatusOK, resp)
	}
}

// NewFormatHandler serves POST /api/documents/format for live masking of partial input.
func NewFormatHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		req, kind, err := bindDocument(c)
		if kind == domain.KindUnknown {
			return err
		}
		return httputil.OK(c, http.StatusOK, formatResponse{
			Kind:        kind.String(),
			Formatted:   domain.Format(kind, req.Document),
			Placeholder: kind.Placeholder(),
			Complete:    len(domain.StripNonDigits(req.Document)) >= kind.Length(),
		})
	}
}

func reasonFor(err error) string {
	for sentinel, reason := range reasons {
		if errors.Is(err, sentinel) {
			return reason
		}
	}
	return err.Error()
}

// RegisterRoutes mounts the document endpoints on g.
func RegisterRoutes(g *echo.Group) {
	g.POST("/documents/validate", NewValidateHandler())
	g.POST("/documents/format", NewFormatHandler())
}
