package port

import (
	"context"
	"time"

	"reservaMesa/internal/modules/admin/domain"
)

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.Admin, error)
	FindByID(ctx context.Context, id string) (domain.Admin, error)
	TouchLogin(ctx context.Context, id string, at time.Time) error
}
