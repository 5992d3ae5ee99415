package model

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD. Nullable columns use
// *Date so absent dates render as JSON null.
type Date struct {
	time.Time
}

// NewDate wraps t, keeping only its date meaning.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// DateFrom converts an optional time into an optional Date.
func DateFrom(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := NewDate(*t)
	return &d
}

// TimePtr returns the underlying time, or nil for a nil Date. Used when
// binding nullable date parameters.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}
