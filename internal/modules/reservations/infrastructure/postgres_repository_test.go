package infrastructure

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	documents "reservaMesa/internal/modules/documents/domain"
	"reservaMesa/internal/modules/reservations/domain"
)

var reservationColumnNames = []string{
	"id", "name", "email", "phone", "document_kind", "document", "reservation_date", "reservation_time",
	"party_size", "tables_needed", "status", "deposit_cents", "payment_id", "invoice_url", "voucher_code",
	"created_at", "updated_at", "confirmed_at",
}

var createdAt = time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

func reservationRow(id, status string, voucher, confirmed any) []driver.Value {
	return []driver.Value{
		id, "Maria", "maria@example.com", "(11) 98765-4321", "cpf", "111.444.777-35", "2026-12-24", "20:00",
		5, 2, status, int64(5000), "pay_1", "https://pay.example/i/1", voucher,
		createdAt, createdAt, confirmed,
	}
}

func newMockRepo(t *testing.T) (*PostgresReservationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresReservationRepository(db), mock
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

func TestPostgresRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	args := anyArgs(18)
	args[0] = "res-1"
	args[4] = "cpf"
	args[10] = "PENDING_PAYMENT"
	mock.ExpectExec(`INSERT INTO reservations`).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), domain.Reservation{
		ID:           "res-1",
		DocumentKind: documents.KindIndividual,
		Status:       domain.ReservationStatusPendingPayment,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryAttachPayment(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE reservations\s+SET payment_id`).
		WithArgs("res-1", "pay_1", "https://pay.example/i/1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE reservations\s+SET payment_id`).
		WithArgs("missing", "pay_2", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.AttachPayment(context.Background(), "res-1", "pay_1", "https://pay.example/i/1"))
	err := repo.AttachPayment(context.Background(), "missing", "pay_2", "")
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryFindByPaymentID(t *testing.T) {
	repo, mock := newMockRepo(t)
	confirmedAt := createdAt.Add(time.Minute)

	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE payment_id = \$1`).
		WithArgs("pay_1").
		WillReturnRows(sqlmock.NewRows(reservationColumnNames).AddRow(reservationRow("res-1", "CONFIRMED", "RES-1A2B3C4D", confirmedAt)...))
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE payment_id = \$1`).
		WithArgs("pay_missing").
		WillReturnRows(sqlmock.NewRows(reservationColumnNames))

	res, err := repo.FindByPaymentID(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, documents.KindIndividual, res.DocumentKind)
	assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
	assert.Equal(t, "RES-1A2B3C4D", res.VoucherCode)
	require.NotNil(t, res.ConfirmedAt)
	assert.True(t, res.ConfirmedAt.Equal(confirmedAt))
	assert.True(t, res.IsConfirmed())

	_, err = repo.FindByPaymentID(context.Background(), "pay_missing")
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryConfirm(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := createdAt.Add(time.Hour)

	mock.ExpectExec(`UPDATE reservations\s+SET status = \$2, voucher_code = \$3`).
		WithArgs("res-1", "CONFIRMED", "RES-NEW", at, "PENDING_PAYMENT").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id = \$1`).
		WithArgs("res-1").
		WillReturnRows(sqlmock.NewRows(reservationColumnNames).AddRow(reservationRow("res-1", "CONFIRMED", "RES-FIRST", createdAt)...))

	res, err := repo.Confirm(context.Background(), "res-1", "RES-NEW", at)
	require.NoError(t, err)
	assert.Equal(t, "RES-FIRST", res.VoucherCode, "an earlier confirmation keeps its code")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCancel(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := createdAt.Add(time.Hour)

	mock.ExpectExec(`UPDATE reservations\s+SET status = \$2, updated_at = \$3\s+WHERE id = \$1 AND status = \$4`).
		WithArgs("res-1", "CANCELLED", at, "PENDING_PAYMENT").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id = \$1`).
		WithArgs("res-1").
		WillReturnRows(sqlmock.NewRows(reservationColumnNames).AddRow(reservationRow("res-1", "CANCELLED", nil, nil)...))
	mock.ExpectExec(`UPDATE reservations\s+SET status = \$2, updated_at = \$3`).
		WithArgs("res-2", "CANCELLED", at, "PENDING_PAYMENT").
		WillReturnError(errors.New("connection reset"))

	res, err := repo.Cancel(context.Background(), "res-1", at)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, res.Status)

	_, err = repo.Cancel(context.Background(), "res-2", at)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryTablesBooked(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(tables_needed\), 0\)`).
		WithArgs("2026-12-24", "20:00", "CANCELLED").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(7))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(tables_needed\), 0\)`).
		WithArgs("2026-12-24", "21:00", "CANCELLED").
		WillReturnError(errors.New("connection reset"))

	booked, err := repo.TablesBooked(context.Background(), "2026-12-24", "20:00")
	require.NoError(t, err)
	assert.Equal(t, 7, booked)

	_, err = repo.TablesBooked(context.Background(), "2026-12-24", "21:00")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryList(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reservations WHERE status = ANY($1) AND reservation_date = $2`)).
		WithArgs(sqlmock.AnyArg(), "2026-12-24").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE status = ANY\(\$1\) AND reservation_date = \$2 ORDER BY .+ LIMIT \$3 OFFSET \$4`).
		WithArgs(sqlmock.AnyArg(), "2026-12-24", 2, 2).
		WillReturnRows(sqlmock.NewRows(reservationColumnNames).
			AddRow(reservationRow("res-3", "PENDING_PAYMENT", nil, nil)...))

	list, err := repo.List(context.Background(), domain.ListQuery{Page: 2, Limit: 2, Status: "pending_payment", Date: "2026-12-24"})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 2, list.Page)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "res-3", list.Items[0].ID)
	assert.Empty(t, list.Items[0].VoucherCode)
	assert.Nil(t, list.Items[0].ConfirmedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
