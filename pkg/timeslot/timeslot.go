// Package timeslot models recurring weekly time windows (day of week plus
// HH:MM start and end) and the half-open overlap rule used for room and
// course scheduling.
package timeslot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinutesPerDay bounds minute-of-day values to [0, MinutesPerDay).
const MinutesPerDay = 24 * 60

// Slot is a recurring weekly window. DayOfWeek uses 0 for Sunday.
type Slot struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}

// ParseClock converts an HH:MM string to minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 ||
		!allDigits(parts[0]) || !allDigits(parts[1]) {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hours*60 + minutes, nil
}

func allDigits(value string) bool {
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// ToMinutes converts HH:MM to a minute-of-day in [0, 1439]. Input is assumed
// to be well formed; callers validate at the boundary with Validate or the
// clock validator tag.
func ToMinutes(value string) int {
	m, _ := ParseClock(value)
	return m
}

// Overlaps reports whether two slots share any minute. Intervals are
// half-open, so a slot ending at 11:00 does not overlap one starting at 11:00.
func Overlaps(a, b Slot) bool {
	if a.DayOfWeek != b.DayOfWeek {
		return false
	}
	return ToMinutes(a.StartTime) < ToMinutes(b.EndTime) && ToMinutes(b.StartTime) < ToMinutes(a.EndTime)
}

// Overlaps is the method form of the package level Overlaps.
func (s Slot) Overlaps(other Slot) bool {
	return Overlaps(s, other)
}

// Window reports whether the slot overlaps the window [start, end) on day.
func (s Slot) Window(day int, start, end string) bool {
	return Overlaps(s, Slot{DayOfWeek: day, StartTime: start, EndTime: end})
}

// Validate checks the day range, the clock format and that start < end.
func (s Slot) Validate() error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return fmt.Errorf("dayOfWeek %d out of range 0-6", s.DayOfWeek)
	}
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("startTime %s must be before endTime %s", s.StartTime, s.EndTime)
	}
	return nil
}

// ValidateAll validates every slot, reporting the index of the first failure.
func ValidateAll(slots []Slot) error {
	for i, slot := range slots {
		if err := slot.Validate(); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a copy of the slice.
func Clone(slots []Slot) []Slot {
	if slots == nil {
		return nil
	}
	return append([]Slot(nil), slots...)
}

// RegisterValidation installs the "clock" tag for HH:MM strings.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := ParseClock(fl.Field().String())
		return err == nil
	})
}

// NewValidator returns a validator with the clock tag installed.
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidation(v); err != nil {
		panic(err)
	}
	return v
}
