package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrSecretNotConfigured = errors.New("jwt secret not configured")

// Subject describes the authenticated principal a token pair is issued for.
type Subject struct {
	ID          string
	Email       string
	Name        string
	Roles       []string
	Permissions []string
}

// TokenPair is returned after a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Issuer signs HS256 access/refresh pairs that JWTValidator accepts.
type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, ErrSecretNotConfigured
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{
		secret:     []byte(trimmed),
		issuer:     strings.TrimSpace(issuer),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssuePair signs a new access token and refresh token sharing one session id.
func (i *Issuer) IssuePair(subject Subject) (TokenPair, error) {
	if strings.TrimSpace(subject.ID) == "" {
		return TokenPair{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	sessionID := uuid.NewString()
	now := i.now()

	access, err := i.sign(subject, sessionID, TokenTypeAccess, now, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(subject, sessionID, TokenTypeRefresh, now, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(i.accessTTL / time.Second),
	}, nil
}

func (i *Issuer) sign(subject Subject, sessionID, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	permissions := subject.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	claims := Claims{
		SessionID:   sessionID,
		Email:       subject.Email,
		Name:        subject.Name,
		Roles:       subject.Roles,
		Permissions: permissions,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.ID,
			Issuer:    i.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}
