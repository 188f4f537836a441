package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
	restaurants "reservaMesa/internal/modules/restaurants/domain"
	tables "reservaMesa/internal/modules/tables/domain"
)

func bookingRequest(people int) domain.ReservationRequest {
	return domain.ReservationRequest{
		Name:         "Maria Silva",
		Email:        "maria@example.com",
		Phone:        "(11) 98765-4321",
		DocumentType: "cpf",
		Document:     "11144477735",
		Date:         "2026-12-24",
		Time:         "20:00",
		PartySize:    people,
	}
}

type harness struct {
	repo      *memoryRepo
	gateway   *fakeGateway
	cache     *memoryCache
	publisher *recordingPublisher
	confirm   *ConfirmPaymentUseCase
	create    *CreateReservationUseCase
}

func newHarness(t *testing.T, confirmed bool) *harness {
	t.Helper()
	h := &harness{
		repo:      newMemoryRepo(),
		gateway:   &fakeGateway{charge: &port.Charge{PaymentID: "pay_1", InvoiceURL: "https://pay.example/i/1", Confirmed: confirmed}},
		cache:     newMemoryCache(),
		publisher: &recordingPublisher{},
	}
	h.confirm = NewConfirmPaymentUseCase(h.repo, h.cache, h.publisher, "RES", "vouchers.issued")
	h.create = NewCreateReservationUseCase(h.repo, h.gateway, h.publisher, tables.DefaultInventory(), h.confirm, CreateReservationConfig{
		DepositCents:     5000,
		MaxPartySize:     100,
		SuccessURL:       "https://restaurante.example/sucesso",
		CancelURL:        "https://restaurante.example/reservar",
		ReservationTopic: "reservations.created",
	})
	ids := 0
	h.create.newID = func() string {
		ids++
		return fmt.Sprintf("res-%d", ids)
	}
	return h
}

func TestCreateReservationPendingPayment(t *testing.T) {
	h := newHarness(t, false)

	out, err := h.create.Execute(context.Background(), bookingRequest(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.InvoiceURL != "https://pay.example/i/1" || out.PaymentID != "pay_1" {
		t.Fatalf("unexpected output: %+v", out)
	}
	stored, err := h.repo.FindByID(context.Background(), out.Reservation.ID)
	if err != nil {
		t.Fatalf("reservation not stored: %v", err)
	}
	if stored.TablesNeeded != 2 {
		t.Fatalf("expected 2 tables for 5 people, got %d", stored.TablesNeeded)
	}
	if stored.Document != "111.444.777-35" {
		t.Fatalf("expected formatted document, got %q", stored.Document)
	}
	if stored.Status != domain.ReservationStatusPendingPayment {
		t.Fatalf("expected pending payment, got %q", stored.Status)
	}
	if h.gateway.request.AmountCents != 5000 || h.gateway.request.ReservationID != stored.ID {
		t.Fatalf("unexpected charge request: %+v", h.gateway.request)
	}
	if topics := h.publisher.topics(); len(topics) != 1 || topics[0] != "reservations.created" {
		t.Fatalf("unexpected published topics: %v", topics)
	}
}

func TestCreateReservationImmediateSettlementIssuesVoucher(t *testing.T) {
	h := newHarness(t, true)

	out, err := h.create.Execute(context.Background(), bookingRequest(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Reservation.Status != domain.ReservationStatusConfirmed {
		t.Fatalf("expected confirmed reservation, got %q", out.Reservation.Status)
	}
	if _, found, _ := h.cache.Get(context.Background(), "pay_1"); !found {
		t.Fatal("expected voucher cached after immediate settlement")
	}
	topics := h.publisher.topics()
	if len(topics) != 2 || topics[1] != "vouchers.issued" {
		t.Fatalf("unexpected published topics: %v", topics)
	}
}

func TestCreateReservationRejectsInvalidRequest(t *testing.T) {
	h := newHarness(t, false)
	req := bookingRequest(2)
	req.Document = "123.456.789-00"

	_, err := h.create.Execute(context.Background(), req)
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := errs["documento"]; !ok {
		t.Fatalf("expected documento error, got %v", errs)
	}
	if len(h.repo.reservations) != 0 {
		t.Fatal("invalid request must not be stored")
	}
}

func TestCreateReservationRespectsOpenDays(t *testing.T) {
	h := newHarness(t, false)
	schedule, err := restaurants.ParseSchedule([]string{"TUE", "WED", "THU", "FRI", "SAT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.create.cfg.OpenDays = schedule

	// 2026-12-24 is a Thursday.
	if _, err := h.create.Execute(context.Background(), bookingRequest(2)); err != nil {
		t.Fatalf("unexpected error on open day: %v", err)
	}

	monday := bookingRequest(2)
	monday.Date = "2026-12-21"
	_, err = h.create.Execute(context.Background(), monday)
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := errs["data"]; !ok {
		t.Fatalf("expected data error, got %v", errs)
	}
	if len(h.repo.reservations) != 1 {
		t.Fatalf("closed day must not be stored, have %d reservations", len(h.repo.reservations))
	}
}

func TestCreateReservationRejectsFullSlot(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	// 56 people need 14 of the 15 tables.
	if _, err := h.create.Execute(ctx, bookingRequest(56)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.gateway.charge = &port.Charge{PaymentID: "pay_2", InvoiceURL: "https://pay.example/i/2"}
	if _, err := h.create.Execute(ctx, bookingRequest(4)); err != nil {
		t.Fatalf("last table should fit: %v", err)
	}
	if _, err := h.create.Execute(ctx, bookingRequest(1)); !errors.Is(err, domain.ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}

	other := bookingRequest(1)
	other.Time = "21:00"
	h.gateway.charge = &port.Charge{PaymentID: "pay_3"}
	if _, err := h.create.Execute(ctx, other); err != nil {
		t.Fatalf("other slot should be free: %v", err)
	}
}

func TestCreateReservationPropagatesFailures(t *testing.T) {
	h := newHarness(t, false)
	h.repo.bookedErr = errBoom
	if _, err := h.create.Execute(context.Background(), bookingRequest(2)); !errors.Is(err, errBoom) {
		t.Fatalf("expected repository error, got %v", err)
	}

	h = newHarness(t, false)
	h.gateway.err = errBoom
	if _, err := h.create.Execute(context.Background(), bookingRequest(2)); !errors.Is(err, errBoom) {
		t.Fatalf("expected gateway error, got %v", err)
	}
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	if _, err := h.create.Execute(ctx, bookingRequest(3)); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := h.confirm.Execute(ctx, "pay_1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	second, err := h.confirm.Execute(ctx, " pay_1 ")
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if first.Code != second.Code {
		t.Fatalf("expected same voucher code, got %q and %q", first.Code, second.Code)
	}
	if h.repo.confirmCalls != 1 {
		t.Fatalf("expected one repository confirmation, got %d", h.repo.confirmCalls)
	}
	if first.Reservation.PartySize != 3 || first.PaymentID != "pay_1" {
		t.Fatalf("unexpected voucher: %+v", first)
	}
}

func TestConfirmPaymentErrors(t *testing.T) {
	h := newHarness(t, false)
	if _, err := h.confirm.Execute(context.Background(), " "); !errors.Is(err, domain.ErrMissingPaymentID) {
		t.Fatalf("expected ErrMissingPaymentID, got %v", err)
	}
	if _, err := h.confirm.Execute(context.Background(), "unknown"); !errors.Is(err, domain.ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}

	h.repo.reservations["res-x"] = domain.Reservation{ID: "res-x", PaymentID: "pay_x", Status: domain.ReservationStatusCancelled}
	if _, err := h.confirm.Execute(context.Background(), "pay_x"); !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestGetVoucher(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	getVoucher := NewGetVoucherUseCase(h.repo, h.cache)

	if _, err := h.create.Execute(ctx, bookingRequest(2)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := getVoucher.Execute(ctx, "pay_1"); !errors.Is(err, domain.ErrVoucherNotReady) {
		t.Fatalf("expected ErrVoucherNotReady, got %v", err)
	}

	issued, err := h.confirm.Execute(ctx, "pay_1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	delete(h.cache.vouchers, "pay_1")

	voucher, err := getVoucher.Execute(ctx, "pay_1")
	if err != nil {
		t.Fatalf("get voucher: %v", err)
	}
	if voucher.Code != issued.Code {
		t.Fatalf("expected %q, got %q", issued.Code, voucher.Code)
	}
	if _, found, _ := h.cache.Get(ctx, "pay_1"); !found {
		t.Fatal("expected repository hit to warm the cache")
	}

	h.cache.getErr = errBoom
	if _, err := getVoucher.Execute(ctx, "pay_1"); err != nil {
		t.Fatalf("cache failures must fall back to the repository: %v", err)
	}
}

func TestListReservations(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	if _, err := h.create.Execute(ctx, bookingRequest(2)); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := NewListReservationsUseCase(h.repo).Execute(ctx, domain.ListQuery{Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 || list.Page != 1 || list.Limit != 100 {
		t.Fatalf("unexpected list: %+v", list)
	}

	empty, err := NewListReservationsUseCase(h.repo).Execute(ctx, domain.ListQuery{Status: domain.ReservationStatusCancelled})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", empty.Items)
	}

	if _, err := NewListReservationsUseCase(h.repo).Get(ctx, " "); !errors.Is(err, domain.ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestCreateReservationReleasesTablesWhenChargeFails(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	h.gateway.err = errBoom

	// An outage long enough to cover every table must not fill the slot.
	for i := 0; i < 15; i++ {
		if _, err := h.create.Execute(ctx, bookingRequest(4)); !errors.Is(err, errBoom) {
			t.Fatalf("attempt %d: expected gateway error, got %v", i, err)
		}
	}
	booked, err := h.repo.TablesBooked(ctx, "2026-12-24", "20:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booked != 0 {
		t.Fatalf("expected failed charges to release their tables, %d still booked", booked)
	}
	for id, reservation := range h.repo.reservations {
		if reservation.Status != domain.ReservationStatusCancelled {
			t.Fatalf("reservation %s left as %q", id, reservation.Status)
		}
	}

	h.gateway.err = nil
	if _, err := h.create.Execute(ctx, bookingRequest(4)); err != nil {
		t.Fatalf("next guest should get a table: %v", err)
	}
}

func TestCreateReservationReleasesTablesWhenAttachFails(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	h.repo.attachErr = errBoom

	if _, err := h.create.Execute(ctx, bookingRequest(8)); !errors.Is(err, errBoom) {
		t.Fatalf("expected attach error, got %v", err)
	}
	booked, err := h.repo.TablesBooked(ctx, "2026-12-24", "20:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booked != 0 {
		t.Fatalf("expected 0 tables booked, got %d", booked)
	}
}

func TestCancelPayment(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	cancel := NewCancelPaymentUseCase(h.repo)

	out, err := h.create.Execute(ctx, bookingRequest(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancelled, err := cancel.Execute(ctx, " pay_1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.ID != out.Reservation.ID || cancelled.Status != domain.ReservationStatusCancelled {
		t.Fatalf("unexpected reservation after cancel: %+v", cancelled)
	}
	if booked, _ := h.repo.TablesBooked(ctx, "2026-12-24", "20:00"); booked != 0 {
		t.Fatalf("expected tables released, %d booked", booked)
	}

	// Providers redeliver; a second cancellation is a no-op.
	if _, err := cancel.Execute(ctx, "pay_1"); err != nil {
		t.Fatalf("repeated cancel: %v", err)
	}
	if _, err := h.confirm.Execute(ctx, "pay_1"); !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}

	if _, err := cancel.Execute(ctx, ""); !errors.Is(err, domain.ErrMissingPaymentID) {
		t.Fatalf("expected ErrMissingPaymentID, got %v", err)
	}
	if _, err := cancel.Execute(ctx, "pay_unknown"); !errors.Is(err, domain.ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestCancelPaymentKeepsConfirmedReservation(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	if _, err := h.create.Execute(ctx, bookingRequest(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reservation, err := NewCancelPaymentUseCase(h.repo).Execute(ctx, "pay_1")
	if !errors.Is(err, domain.ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
	}
	if reservation.Status != domain.ReservationStatusConfirmed {
		t.Fatalf("confirmed reservation changed to %q", reservation.Status)
	}
}

func TestConfirmPaymentChecksPaidAmount(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()
	if _, err := h.create.Execute(ctx, bookingRequest(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := h.confirm.ExecutePaid(ctx, "pay_1", 4999); !errors.Is(err, domain.ErrUnderpaid) {
		t.Fatalf("expected ErrUnderpaid, got %v", err)
	}
	stored, _ := h.repo.FindByPaymentID(ctx, "pay_1")
	if stored.Status != domain.ReservationStatusPendingPayment {
		t.Fatalf("underpaid reservation must stay pending, got %q", stored.Status)
	}

	voucher, err := h.confirm.ExecutePaid(ctx, "pay_1", 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if voucher.PaymentID != "pay_1" {
		t.Fatalf("unexpected voucher %+v", voucher)
	}
}
