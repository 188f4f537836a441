package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	documents "reservaMesa/internal/modules/documents/domain"
	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

const reservationColumns = `id, name, email, phone, document_kind, document, reservation_date, reservation_time,
	party_size, tables_needed, status, deposit_cents, payment_id, invoice_url, voucher_code,
	created_at, updated_at, confirmed_at`

// PostgresReservationRepository stores reservations in PostgreSQL.
type PostgresReservationRepository struct {
	db *sql.DB
}

func NewPostgresReservationRepository(db *sql.DB) *PostgresReservationRepository {
	return &PostgresReservationRepository{db: db}
}

func (r *PostgresReservationRepository) Create(ctx context.Context, res domain.Reservation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		res.ID, res.Name, res.Email, res.Phone, res.DocumentKind.String(), res.Document, res.Date, res.Time,
		res.PartySize, res.TablesNeeded, string(res.Status), res.DepositCents,
		nullString(res.PaymentID), nullString(res.InvoiceURL), nullString(res.VoucherCode),
		res.CreatedAt, res.UpdatedAt, res.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *PostgresReservationRepository) AttachPayment(ctx context.Context, reservationID, paymentID, invoiceURL string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reservations
		SET payment_id = $2, invoice_url = $3, updated_at = NOW()
		WHERE id = $1`,
		reservationID, paymentID, nullString(invoiceURL),
	)
	if err != nil {
		return fmt.Errorf("attach payment: %w", err)
	}
	return expectOneRow(result)
}

// Confirm only transitions PENDING_PAYMENT rows, so a concurrent second confirmation
// keeps the first voucher code.
func (r *PostgresReservationRepository) Confirm(ctx context.Context, reservationID, voucherCode string, confirmedAt time.Time) (domain.Reservation, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reservations
		SET status = $2, voucher_code = $3, confirmed_at = $4, updated_at = $4
		WHERE id = $1 AND status = $5`,
		reservationID, string(domain.ReservationStatusConfirmed), voucherCode, confirmedAt,
		string(domain.ReservationStatusPendingPayment),
	)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("confirm reservation: %w", err)
	}
	return r.FindByID(ctx, reservationID)
}

func (r *PostgresReservationRepository) Cancel(ctx context.Context, reservationID string, cancelledAt time.Time) (domain.Reservation, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reservations
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4`,
		reservationID, string(domain.ReservationStatusCancelled), cancelledAt,
		string(domain.ReservationStatusPendingPayment),
	)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("cancel reservation: %w", err)
	}
	return r.FindByID(ctx, reservationID)
}

func (r *PostgresReservationRepository) FindByID(ctx context.Context, id string) (domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	return scanReservation(row)
}

func (r *PostgresReservationRepository) FindByPaymentID(ctx context.Context, paymentID string) (domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE payment_id = $1`, paymentID)
	return scanReservation(row)
}

func (r *PostgresReservationRepository) TablesBooked(ctx context.Context, date, slot string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(tables_needed), 0)
		FROM reservations
		WHERE reservation_date = $1 AND reservation_time = $2 AND status <> $3`,
		date, slot, string(domain.ReservationStatusCancelled),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count booked tables: %w", err)
	}
	return total, nil
}

func (r *PostgresReservationRepository) List(ctx context.Context, query domain.ListQuery) (domain.ReservationList, error) {
	query = query.Normalize()

	statuses := []string{
		string(domain.ReservationStatusPendingPayment),
		string(domain.ReservationStatusConfirmed),
		string(domain.ReservationStatusCancelled),
	}
	if query.Status != domain.ReservationStatusUnknown {
		statuses = []string{string(query.Status)}
	}

	var (
		where strings.Builder
		args  = []any{pq.Array(statuses)}
	)
	where.WriteString("WHERE status = ANY($1)")
	if query.Date != "" {
		args = append(args, query.Date)
		where.WriteString(fmt.Sprintf(" AND reservation_date = $%d", len(args)))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations `+where.String(), args...).Scan(&total); err != nil {
		return domain.ReservationList{}, fmt.Errorf("count reservations: %w", err)
	}

	pageArgs := append(append([]any{}, args...), query.Limit, query.Offset())
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM reservations %s ORDER BY reservation_date, reservation_time, created_at LIMIT $%d OFFSET $%d`,
		reservationColumns, where.String(), len(args)+1, len(args)+2,
	), pageArgs...)
	if err != nil {
		return domain.ReservationList{}, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Reservation, 0, query.Limit)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return domain.ReservationList{}, err
		}
		items = append(items, reservation)
	}
	if err := rows.Err(); err != nil {
		return domain.ReservationList{}, fmt.Errorf("iterate reservations: %w", err)
	}

	return domain.ReservationList{Items: items, Total: total, Page: query.Page, Limit: query.Limit}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (domain.Reservation, error) {
	var (
		res                            domain.Reservation
		kind, status                   string
		paymentID, invoiceURL, voucher sql.NullString
		confirmedAt                    sql.NullTime
	)
	err := row.Scan(
		&res.ID, &res.Name, &res.Email, &res.Phone, &kind, &res.Document, &res.Date, &res.Time,
		&res.PartySize, &res.TablesNeeded, &status, &res.DepositCents, &paymentID, &invoiceURL, &voucher,
		&res.CreatedAt, &res.UpdatedAt, &confirmedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("scan reservation: %w", err)
	}

	res.DocumentKind, _ = documents.ParseKind(kind)
	res.Status = domain.NormalizeReservationStatus(status)
	res.PaymentID = paymentID.String
	res.InvoiceURL = invoiceURL.String
	res.VoucherCode = voucher.String
	if confirmedAt.Valid {
		at := confirmedAt.Time
		res.ConfirmedAt = &at
	}
	return res, nil
}

func expectOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

var _ port.ReservationRepository = (*PostgresReservationRepository)(nil)
