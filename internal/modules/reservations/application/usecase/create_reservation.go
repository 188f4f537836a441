package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
	restaurants "reservaMesa/internal/modules/restaurants/domain"
	tables "reservaMesa/internal/modules/tables/domain"
	"reservaMesa/internal/shared/metrics"
)

type CreateReservationConfig struct {
	DepositCents     int64
	MaxPartySize     int
	SuccessURL       string
	CancelURL        string
	ReservationTopic string
	OpenDays         restaurants.Schedule
}

type CreateReservationOutput struct {
	Reservation domain.Reservation
	InvoiceURL  string
	PaymentID   string
}

type CreateReservationUseCase struct {
	repo      port.ReservationRepository
	gateway   port.PaymentGateway
	publisher port.EventPublisher
	inventory *tables.Inventory
	confirm   *ConfirmPaymentUseCase
	cfg       CreateReservationConfig
	now       func() time.Time
	newID     func() string
}

func NewCreateReservationUseCase(
	repo port.ReservationRepository,
	gateway port.PaymentGateway,
	publisher port.EventPublisher,
	inventory *tables.Inventory,
	confirm *ConfirmPaymentUseCase,
	cfg CreateReservationConfig,
) *CreateReservationUseCase {
	return &CreateReservationUseCase{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		inventory: inventory,
		confirm:   confirm,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (uc *CreateReservationUseCase) Execute(ctx context.Context, req domain.ReservationRequest) (*CreateReservationOutput, error) {
	req = req.Normalize()
	if err := req.Validate(uc.cfg.MaxPartySize); err != nil {
		metrics.ReservationsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}
	if day, err := req.ParseDate(); err == nil && !uc.cfg.OpenDays.IsOpen(day) {
		metrics.ReservationsRejected.WithLabelValues("closed").Inc()
		return nil, validation.Errors{"data": errors.New("Restaurante fechado neste dia")}
	}

	needed := uc.inventory.TablesNeeded(req.PartySize)
	booked, err := uc.repo.TablesBooked(ctx, req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("count booked tables: %w", err)
	}
	if !uc.inventory.Fits(req.PartySize, booked) {
		metrics.ReservationsRejected.WithLabelValues("no_availability").Inc()
		slog.Info("reservation rejected, slot full",
			slog.String("date", req.Date),
			slog.String("time", req.Time),
			slog.Int("booked", booked),
			slog.Int("needed", needed),
		)
		return nil, domain.ErrNoAvailability
	}

	reservation := domain.NewReservation(uc.newID(), req, needed, uc.cfg.DepositCents, uc.now().UTC())
	if err := uc.repo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("store reservation: %w", err)
	}

	charge, err := uc.gateway.CreateCharge(ctx, port.ChargeRequest{
		ReservationID: reservation.ID,
		CustomerName:  reservation.Name,
		CustomerEmail: reservation.Email,
		CustomerPhone: reservation.Phone,
		Document:      req.Document,
		AmountCents:   uc.cfg.DepositCents,
		Description:   fmt.Sprintf("Reserva %s %s - %d pessoas", reservation.Date, reservation.Time, reservation.PartySize),
		SuccessURL:    uc.cfg.SuccessURL,
		CancelURL:     uc.cfg.CancelURL,
	})
	if err != nil {
		metrics.PaymentCharges.WithLabelValues(uc.gateway.Name(), "error").Inc()
		uc.release(ctx, reservation.ID, "charge_failed")
		return nil, fmt.Errorf("create charge: %w", err)
	}
	metrics.PaymentCharges.WithLabelValues(uc.gateway.Name(), "created").Inc()

	if err := uc.repo.AttachPayment(ctx, reservation.ID, charge.PaymentID, charge.InvoiceURL); err != nil {
		uc.release(ctx, reservation.ID, "attach_failed")
		return nil, fmt.Errorf("attach payment: %w", err)
	}
	reservation.PaymentID = charge.PaymentID
	reservation.InvoiceURL = charge.InvoiceURL
	metrics.ReservationsCreated.WithLabelValues(reservation.DocumentKind.String()).Inc()

	slog.Info("reservation created",
		slog.String("reservationId", reservation.ID),
		slog.String("paymentId", charge.PaymentID),
		slog.String("provider", uc.gateway.Name()),
		slog.Int("partySize", reservation.PartySize),
		slog.Int("tables", needed),
	)

	if uc.publisher != nil && uc.cfg.ReservationTopic != "" {
		event := domain.NewReservationCreatedEvent(uc.cfg.ReservationTopic, reservation, uc.now())
		if err := uc.publisher.Publish(ctx, event); err != nil {
			slog.Warn("publish reservation created failed", slog.String("reservationId", reservation.ID), slog.Any("error", err))
		}
	}

	if charge.Confirmed && uc.confirm != nil {
		if _, err := uc.confirm.Execute(ctx, charge.PaymentID); err != nil {
			return nil, fmt.Errorf("confirm immediate payment: %w", err)
		}
		reservation.Status = domain.ReservationStatusConfirmed
	}

	return &CreateReservationOutput{
		Reservation: reservation,
		InvoiceURL:  charge.InvoiceURL,
		PaymentID:   charge.PaymentID,
	}, nil
}

// release cancels a reservation that never got a usable charge so its tables return to the
// slot. It outlives the request context: a client hanging up must not strand the tables.
func (uc *CreateReservationUseCase) release(ctx context.Context, reservationID, reason string) {
	if _, err := uc.repo.Cancel(context.WithoutCancel(ctx), reservationID, uc.now().UTC()); err != nil {
		slog.Error("release reservation failed", slog.String("reservationId", reservationID), slog.String("reason", reason), slog.Any("error", err))
		return
	}
	metrics.ReservationsCancelled.WithLabelValues(reason).Inc()
	slog.Warn("reservation released", slog.String("reservationId", reservationID), slog.String("reason", reason))
}
