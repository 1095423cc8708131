// Package types implements special types for Fincontrol.
package types

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Month is a calendar month in a specific year, always anchored to UTC.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month in which a time occurs, read in UTC.
func MonthOf(t time.Time) Month {
	year, month, _ := t.UTC().Date()
	return NewMonth(year, month)
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("month must be in YYYY-MM format: %w", err)
	}

	return MonthOf(t), nil
}

// String returns the time formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), m.Month())
}

// Year returns the year of the month.
func (m Month) Year() int {
	return time.Time(m).Year()
}

// Month returns the month of the year.
func (m Month) Month() time.Month {
	return time.Time(m).Month()
}

// Start returns the first instant of the month.
func (m Month) Start() time.Time {
	return time.Time(m)
}

// End returns the last instant of the month. Everything dated at or before
// End belongs to this month or an earlier one.
func (m Month) End() time.Time {
	return time.Time(m.AddDate(0, 1)).Add(-time.Nanosecond)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.End().Day()
}

// Day returns noon UTC on the given day of the month. Days past the end of
// the month are clamped to its last day.
func (m Month) Day(day int) time.Time {
	if day < 1 {
		day = 1
	}

	if last := m.Days(); day > last {
		day = last
	}

	return time.Date(m.Year(), m.Month(), day, 12, 0, 0, 0, time.UTC)
}

// MarshalJSON implements the json.Marshaler interface.
// Months are encoded as "YYYY-MM".
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
//
// "YYYY-MM", "YYYY-MM-DD" and RFC3339 timestamps are accepted. Everything
// except the year and month is ignored.
func (m *Month) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	parsed, err := parseAny(value)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

// UnmarshalParam implements gin's BindUnmarshaler so that months can
// be bound from URI and query parameters.
func (m *Month) UnmarshalParam(p string) error {
	if p == "" {
		*m = Month{}
		return nil
	}

	parsed, err := parseAny(p)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

func parseAny(value string) (Month, error) {
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return MonthOf(t), nil
		}
	}

	return Month{}, fmt.Errorf("%q is not a valid month, use the YYYY-MM format", value)
}

// Scan writes the value from the database.
func (m *Month) Scan(value any) (err error) {
	nullTime := &sql.NullTime{}
	err = nullTime.Scan(value)
	*m = Month(nullTime.Time.UTC())
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (m Month) Value() (driver.Value, error) {
	return time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// GormDataType defines the data type used by gorm the type.
func (Month) GormDataType() string {
	return "date"
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// Before reports whether the month m is before n.
func (m Month) Before(n Month) bool {
	return time.Time(m).Before(time.Time(n))
}

// After reports whether the month m is after n.
func (m Month) After(n Month) bool {
	return time.Time(m).After(time.Time(n))
}

// Equal reports whether m and n represent the same month.
func (m Month) Equal(n Month) bool {
	return time.Time(m).Equal(time.Time(n))
}

// Contains reports whether the time instant is in the month.
func (m Month) Contains(t time.Time) bool {
	t = t.UTC()
	return t.Year() == m.Year() && t.Month() == m.Month()
}
