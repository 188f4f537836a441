package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reservaMesa/internal/modules/admin/application/port"
	"reservaMesa/internal/modules/admin/domain"
	"reservaMesa/internal/shared/auth"
	"reservaMesa/internal/shared/metrics"
)

type AuthenticateUseCase struct {
	repo   port.AdminRepository
	issuer *auth.Issuer
	now    func() time.Time
}

func NewAuthenticateUseCase(repo port.AdminRepository, issuer *auth.Issuer) *AuthenticateUseCase {
	return &AuthenticateUseCase{repo: repo, issuer: issuer, now: time.Now}
}

// Execute checks the credentials and issues a token pair. Unknown emails and wrong
// passwords both yield domain.ErrInvalidCredentials.
func (uc *AuthenticateUseCase) Execute(ctx context.Context, req domain.LoginRequest) (*domain.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	admin, err := uc.repo.FindByEmail(ctx, domain.NormalizeEmail(req.Email))
	if errors.Is(err, domain.ErrAdminNotFound) {
		metrics.AdminLogins.WithLabelValues("unknown_email").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}

	if err := auth.ComparePassword(admin.PasswordHash, req.Password); err != nil {
		metrics.AdminLogins.WithLabelValues("wrong_password").Inc()
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.ErrInvalidCredentials
		}
		slog.Warn("admin password hash unreadable", slog.String("adminId", admin.ID), slog.Any("error", err))
		return nil, domain.ErrInvalidCredentials
	}
	if !admin.Active {
		metrics.AdminLogins.WithLabelValues("disabled").Inc()
		return nil, domain.ErrAdminDisabled
	}

	session, err := issueSession(uc.issuer, admin)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.TouchLogin(ctx, admin.ID, uc.now().UTC()); err != nil {
		slog.Warn("admin last login not recorded", slog.String("adminId", admin.ID), slog.Any("error", err))
	}
	metrics.AdminLogins.WithLabelValues("success").Inc()
	slog.Info("admin logged in", slog.String("adminId", admin.ID))
	return session, nil
}

func issueSession(issuer *auth.Issuer, admin domain.Admin) (*domain.Session, error) {
	pair, err := issuer.IssuePair(auth.Subject{
		ID:          admin.ID,
		Email:       admin.Email,
		Name:        admin.Name,
		Roles:       []string{auth.RoleAdmin},
		Permissions: []string{},
	})
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &domain.Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User: domain.UserView{
			ID:          admin.ID,
			Email:       admin.Email,
			Name:        admin.Name,
			Role:        auth.RoleAdmin,
			Permissions: []string{},
		},
	}, nil
}
