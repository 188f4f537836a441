package usecase

import (
	"context"
	"strings"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

type ListReservationsUseCase struct {
	repo port.ReservationRepository
}

func NewListReservationsUseCase(repo port.ReservationRepository) *ListReservationsUseCase {
	return &ListReservationsUseCase{repo: repo}
}

func (uc *ListReservationsUseCase) Execute(ctx context.Context, query domain.ListQuery) (domain.ReservationList, error) {
	normalized := query.Normalize()
	list, err := uc.repo.List(ctx, normalized)
	if err != nil {
		return domain.ReservationList{}, err
	}
	list.Page = normalized.Page
	list.Limit = normalized.Limit
	if list.Items == nil {
		list.Items = []domain.Reservation{}
	}
	return list, nil
}

func (uc *ListReservationsUseCase) Get(ctx context.Context, id string) (domain.Reservation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return uc.repo.FindByID(ctx, id)
}
