package calendar

import (
	"bytes"
	"encoding/json"
	"time"
)

// Date is a calendar day that travels as "YYYY-MM-DD" in JSON. The zero
// Date is encoded as an empty string and means "not set".
type Date struct {
	time.Time
}

// DateOf wraps t as a Date.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{Day(t)}
}

// D parses a literal date, panicking on malformed input.
func D(s string) Date { return Date{MustParse(s)} }

// Set reports whether the date carries a value.
func (d Date) Set() bool { return !d.IsZero() }

func (d Date) String() string { return Format(d.Time) }

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(Format(d.Time))
}

// UnmarshalJSON implements json.Unmarshaler. Null and "" decode to the zero
// Date.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := Parse(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
