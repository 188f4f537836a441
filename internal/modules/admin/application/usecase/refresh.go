package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reservaMesa/internal/modules/admin/application/port"
	"reservaMesa/internal/modules/admin/domain"
	"reservaMesa/internal/shared/auth"
)

type RefreshUseCase struct {
	repo      port.AdminRepository
	issuer    *auth.Issuer
	validator auth.TokenValidator
}

func NewRefreshUseCase(repo port.AdminRepository, issuer *auth.Issuer, validator auth.TokenValidator) *RefreshUseCase {
	return &RefreshUseCase{repo: repo, issuer: issuer, validator: validator}
}

// Execute exchanges a refresh token for a new pair; the admin is reloaded so disabled
// accounts stop refreshing.
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*domain.Session, error) {
	claims, err := uc.validator.ValidateType(strings.TrimSpace(refreshToken), auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	admin, err := uc.repo.FindByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrAdminNotFound) {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !admin.Active {
		return nil, domain.ErrAdminDisabled
	}
	return issueSession(uc.issuer, admin)
}
