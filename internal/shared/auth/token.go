package auth

import (
	"net/http"
	"strings"
)

// ExtractBearerToken returns the credentials of an "Authorization: Bearer" header, or "".
func ExtractBearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	return ExtractBearerTokenFromHeader(r.Header.Get("Authorization"))
}

// ExtractBearerTokenFromHeader parses a raw header value. The scheme is case insensitive.
func ExtractBearerTokenFromHeader(header string) string {
	scheme, credentials, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(credentials)
}
