package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	timeLayout     = "15:04"
	minutesPerDay  = 24 * 60
	sqlTimeLayout  = "15:04:05"
	emptyTimeValue = ""
)

// EndOfDay полночь как конец интервала (рабочий день до полуночи)
const EndOfDay TimeString = "24:00"

var (
	ErrInvalidTimeFormat = errors.New("types: invalid time format, expected HH:MM")
	ErrTimeOverflow      = errors.New("types: time is outside of the day")
)

// TimeString время суток в формате "HH:MM" (24 часа), без даты и часового пояса.
// Пустая строка означает отсутствие значения.
type TimeString string

// NewTimeString берет часы и минуты из time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(timeLayout, s); err == nil {
		return NewTimeString(t), nil
	}
	if t, err := time.Parse(sqlTimeLayout, s); err == nil {
		return NewTimeString(t), nil
	}
	return emptyTimeValue, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
}

// NewTimeStringFromMinutes строит время из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return emptyTimeValue, fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

func (t TimeString) String() string {
	return string(t)
}

func (t TimeString) IsZero() bool {
	return t == emptyTimeValue
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil || len(t) != len(timeLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	return nil
}

// Minutes возвращает количество минут от полуночи.
// Для невалидного значения возвращает -1.
func (t TimeString) Minutes() int {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// ValidateEnd проверяет время окончания интервала: кроме HH:MM допускается "24:00"
func (t TimeString) ValidateEnd() error {
	if t == EndOfDay {
		return nil
	}
	return t.Validate()
}

// EndMinutes как Minutes, но "24:00" дает 1440
func (t TimeString) EndMinutes() int {
	if t == EndOfDay {
		return minutesPerDay
	}
	return t.Minutes()
}

// AddMinutes сдвигает время. Результат 24:00 допустим только как конец интервала,
// поэтому он представляется как "24:00".
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	start := t.Minutes()
	if start < 0 {
		return emptyTimeValue, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	total := start + minutes
	if total == minutesPerDay {
		return EndOfDay, nil
	}
	return NewTimeStringFromMinutes(total)
}

func (t TimeString) IsBefore(other TimeString) bool {
	return t.EndMinutes() < other.EndMinutes()
}

func (t TimeString) IsAfter(other TimeString) bool {
	return t.EndMinutes() > other.EndMinutes()
}

func (t TimeString) Equal(other TimeString) bool {
	return t.EndMinutes() == other.EndMinutes()
}

// On возвращает момент времени t в дате date (часовой пояс берется из date)
func (t TimeString) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(t.EndMinutes()) * time.Minute)
}

// Scan реализует sql.Scanner. Postgres отдает TIME как "HH:MM:SS".
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = emptyTimeValue
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into TimeString", src)
	}
}

func (t *TimeString) scanString(s string) error {
	// Postgres хранит конец дня как 24:00:00
	if s == "24:00:00" || s == string(EndOfDay) {
		*t = EndOfDay
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = emptyTimeValue
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
