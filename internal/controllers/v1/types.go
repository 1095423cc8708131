package v1

import (
	"time"

	"github.com/fincontrol/backend/internal/types"
	ez_uuid "github.com/fincontrol/backend/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIMonth struct {
	Month types.Month `uri:"month" swaggertype:"string" example:"2024-02"` // Year and month in YYYY-MM format
}

type QueryMonth struct {
	Month types.Month `form:"month" swaggertype:"string" example:"2024-02"` // Year and month in YYYY-MM format. Defaults to the current month.
}

type Pagination struct {
	Count  int  `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int  `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int  `json:"total" example:"827"` // The total number of resources matching the query
}

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// parseDate reads a date in YYYY-MM-DD or RFC3339 format.
// Plain dates are placed at 12:00 UTC.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.Add(12 * time.Hour), nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errInvalidDate
	}

	return t.UTC(), nil
}

// today returns the date of now at 12:00 UTC.
func today(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)
}
