package transport

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

type memoryRepo struct {
	mu           sync.Mutex
	reservations map[string]domain.Reservation
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{reservations: make(map[string]domain.Reservation)}
}

func (r *memoryRepo) Create(_ context.Context, reservation domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations[reservation.ID] = reservation
	return nil
}

func (r *memoryRepo) AttachPayment(_ context.Context, id, paymentID, invoiceURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return domain.ErrReservationNotFound
	}
	reservation.PaymentID = paymentID
	reservation.InvoiceURL = invoiceURL
	r.reservations[id] = reservation
	return nil
}

func (r *memoryRepo) Confirm(_ context.Context, id, code string, at time.Time) (domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	if reservation.Status == domain.ReservationStatusPendingPayment {
		reservation.Status = domain.ReservationStatusConfirmed
		reservation.VoucherCode = code
		reservation.ConfirmedAt = &at
		r.reservations[id] = reservation
	}
	return reservation, nil
}

func (r *memoryRepo) Cancel(_ context.Context, id string, at time.Time) (domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	if reservation.Status == domain.ReservationStatusPendingPayment {
		reservation.Status = domain.ReservationStatusCancelled
		reservation.UpdatedAt = at
		r.reservations[id] = reservation
	}
	return reservation, nil
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return reservation, nil
}

func (r *memoryRepo) FindByPaymentID(_ context.Context, paymentID string) (domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reservation := range r.reservations {
		if reservation.PaymentID == paymentID {
			return reservation, nil
		}
	}
	return domain.Reservation{}, domain.ErrReservationNotFound
}

func (r *memoryRepo) TablesBooked(_ context.Context, date, slot string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, reservation := range r.reservations {
		if reservation.Date == date && reservation.Time == slot && reservation.Status != domain.ReservationStatusCancelled {
			total += reservation.TablesNeeded
		}
	}
	return total, nil
}

func (r *memoryRepo) List(_ context.Context, query domain.ListQuery) (domain.ReservationList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]domain.Reservation, 0, len(r.reservations))
	for _, reservation := range r.reservations {
		if query.Status != domain.ReservationStatusUnknown && reservation.Status != query.Status {
			continue
		}
		items = append(items, reservation)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return domain.ReservationList{Items: items, Total: len(items)}, nil
}

// pendingGateway hands out sequential payment IDs and never settles on its own.
type pendingGateway struct {
	mu   sync.Mutex
	next int
}

func (g *pendingGateway) Name() string { return "pending" }

func (g *pendingGateway) CreateCharge(_ context.Context, req port.ChargeRequest) (*port.Charge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	id := fmt.Sprintf("pay_%d", g.next)
	return &port.Charge{PaymentID: id, InvoiceURL: "https://pay.example/i/" + id}, nil
}

var _ port.ReservationRepository = (*memoryRepo)(nil)
