package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

type memoryRepo struct {
	mu           sync.Mutex
	reservations map[string]domain.Reservation
	bookedErr    error
	attachErr    error
	confirmCalls int
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
	if r.attachErr != nil {
		return r.attachErr
	}
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
	r.confirmCalls++
	reservation, ok := r.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	if reservation.Status != domain.ReservationStatusConfirmed {
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
	if r.bookedErr != nil {
		return 0, r.bookedErr
	}
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
	items := make([]domain.Reservation, 0)
	for _, reservation := range r.reservations {
		if query.Status != domain.ReservationStatusUnknown && reservation.Status != query.Status {
			continue
		}
		items = append(items, reservation)
	}
	return domain.ReservationList{Items: items, Total: len(items)}, nil
}

type fakeGateway struct {
	charge  *port.Charge
	err     error
	request port.ChargeRequest
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) CreateCharge(_ context.Context, req port.ChargeRequest) (*port.Charge, error) {
	g.request = req
	if g.err != nil {
		return nil, g.err
	}
	return g.charge, nil
}

type memoryCache struct {
	mu       sync.Mutex
	vouchers map[string]domain.Voucher
	getErr   error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{vouchers: make(map[string]domain.Voucher)}
}

func (c *memoryCache) Get(_ context.Context, paymentID string) (*domain.Voucher, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	voucher, ok := c.vouchers[paymentID]
	if !ok {
		return nil, false, nil
	}
	return &voucher, true, nil
}

func (c *memoryCache) Set(_ context.Context, voucher domain.Voucher) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vouchers[voucher.PaymentID] = voucher
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, 0, len(p.events))
	for _, event := range p.events {
		topics = append(topics, event.Topic)
	}
	return topics
}

var errBoom = errors.New("boom")
