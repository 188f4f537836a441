package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"reservaMesa/internal/modules/admin/application/port"
	"reservaMesa/internal/modules/admin/domain"
)

const adminColumns = `id, email, name, password_hash, active, created_at, last_login_at`

type PostgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db}
}

// FindByEmail expects an already normalized email; the column is stored lower-cased.
func (r *PostgresAdminRepository) FindByEmail(ctx context.Context, email string) (domain.Admin, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, domain.NormalizeEmail(email))
	return scanAdmin(row)
}

func (r *PostgresAdminRepository) FindByID(ctx context.Context, id string) (domain.Admin, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	return scanAdmin(row)
}

func (r *PostgresAdminRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE admins SET last_login_at = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("touch admin login: %w", err)
	}
	return nil
}

// Create inserts an admin; used by provisioning scripts and tests.
func (r *PostgresAdminRepository) Create(ctx context.Context, admin domain.Admin) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, name, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		admin.ID, domain.NormalizeEmail(admin.Email), admin.Name, admin.PasswordHash, admin.Active, admin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func scanAdmin(row *sql.Row) (domain.Admin, error) {
	var (
		admin     domain.Admin
		lastLogin sql.NullTime
	)
	err := row.Scan(&admin.ID, &admin.Email, &admin.Name, &admin.PasswordHash, &admin.Active, &admin.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, domain.ErrAdminNotFound
	}
	if err != nil {
		return domain.Admin{}, fmt.Errorf("scan admin: %w", err)
	}
	if lastLogin.Valid {
		at := lastLogin.Time
		admin.LastLoginAt = &at
	}
	return admin, nil
}

var _ port.AdminRepository = (*PostgresAdminRepository)(nil)
