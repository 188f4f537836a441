package domain

import (
	"strconv"
	"strings"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ListQuery encapsulates paging and filtering preferences for the admin listing.
type ListQuery struct {
	Page   int
	Limit  int
	Status ReservationStatus
	Date   string
}

// Normalize returns a sanitized copy applying defaults and bounds.
func (q ListQuery) Normalize() ListQuery {
	normalized := q
	if normalized.Page <= 0 {
		normalized.Page = 1
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultPageLimit
	}
	if normalized.Limit > maxPageLimit {
		normalized.Limit = maxPageLimit
	}
	normalized.Status = NormalizeReservationStatus(string(normalized.Status))
	normalized.Date = strings.TrimSpace(normalized.Date)
	return normalized
}

// Offset is the number of rows to skip for the normalized page.
func (q ListQuery) Offset() int {
	normalized := q.Normalize()
	return (normalized.Page - 1) * normalized.Limit
}

// ParseListQuery builds a ListQuery from raw query string values.
func ParseListQuery(page, limit, status, date string) ListQuery {
	parsedPage, _ := strconv.Atoi(strings.TrimSpace(page))
	parsedLimit, _ := strconv.Atoi(strings.TrimSpace(limit))
	return ListQuery{
		Page:   parsedPage,
		Limit:  parsedLimit,
		Status: ReservationStatus(status),
		Date:   date,
	}.Normalize()
}
