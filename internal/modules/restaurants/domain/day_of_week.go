package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DayOfWeek is an opening day, stored with upper case english names.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var ErrUnknownDay = errors.New("unknown day of week")

var weekdays = [...]DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var dayAliases = map[string]DayOfWeek{
	"MON": Monday, "SEG": Monday, "SEGUNDA": Monday,
	"TUE": Tuesday, "TER": Tuesday, "TERCA": Tuesday, "TERÇA": Tuesday,
	"WED": Wednesday, "QUA": Wednesday, "QUARTA": Wednesday,
	"THU": Thursday, "QUI": Thursday, "QUINTA": Thursday,
	"FRI": Friday, "SEX": Friday, "SEXTA": Friday,
	"SAT": Saturday, "SAB": Saturday, "SÁB": Saturday, "SABADO": Saturday, "SÁBADO": Saturday,
	"SUN": Sunday, "DOM": Sunday, "DOMINGO": Sunday,
}

// DayOf returns the opening day matching t's weekday.
func DayOf(t time.Time) DayOfWeek {
	return weekdays[t.Weekday()]
}

// ParseDay accepts english names and short english or portuguese aliases in any case.
func ParseDay(raw string) (DayOfWeek, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	for _, day := range weekdays {
		if string(day) == key {
			return day, nil
		}
	}
	if day, ok := dayAliases[key]; ok {
		return day, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDay, raw)
}

// Schedule is the set of days the dining room takes bookings. The zero value is open every day.
type Schedule struct {
	open map[DayOfWeek]struct{}
}

// ParseSchedule builds a schedule from configured names; no names means open every day.
func ParseSchedule(names []string) (Schedule, error) {
	schedule := Schedule{}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		day, err := ParseDay(name)
		if err != nil {
			return Schedule{}, err
		}
		if schedule.open == nil {
			schedule.open = make(map[DayOfWeek]struct{}, len(weekdays))
		}
		schedule.open[day] = struct{}{}
	}
	return schedule, nil
}

func (s Schedule) IsOpen(t time.Time) bool {
	if len(s.open) == 0 {
		return true
	}
	_, ok := s.open[DayOf(t)]
	return ok
}

// Days lists the opening days from Sunday to Saturday.
func (s Schedule) Days() []DayOfWeek {
	days := make([]DayOfWeek, 0, len(weekdays))
	for _, day := range weekdays {
		if len(s.open) == 0 {
			days = append(days, day)
			continue
		}
		if _, ok := s.open[day]; ok {
			days = append(days, day)
		}
	}
	return days
}
