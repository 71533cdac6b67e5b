// Package transport defines the HTTP request shapes for lead routes.
package transport

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// CreateLeadRequest is the webhook intake body. Partial data is accepted;
// the upstream lead-generation integration does not guarantee every field.
type CreateLeadRequest struct {
	Name     string  `json:"name"`
	Contact  string  `json:"contact"`
	City     *string `json:"city"`
	Time     *string `json:"time"`
	Platform *string `json:"platform"`
}

// TransitionRequest is the PATCH /leads/:id body. Access is raw because the
// field accepts both an id array and a legacy single numeric scalar.
type TransitionRequest struct {
	Response      *string         `json:"response"`
	NewComment    *string         `json:"newComment"`
	City          *string         `json:"city"`
	VisitSchedule *string         `json:"visit_schedule"`
	Access        json.RawMessage `json:"access"`
	User          *string         `json:"user"`
}

var errBadAccess = errors.New("access must be an id array or a numeric value")

// ParseAccess interprets the access field: an array replaces the list
// wholesale; a single numeric scalar becomes a one-element list. Returns
// supplied=false when the field was absent or null.
func ParseAccess(raw json.RawMessage) (ids []int64, supplied bool, err error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, false, nil
	}

	var asList []int64
	if err := json.Unmarshal(raw, &asList); err == nil {
		if asList == nil {
			asList = make([]int64, 0)
		}
		return asList, true, nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		id, err := asNumber.Int64()
		if err != nil {
			return nil, false, errBadAccess
		}
		return []int64{id}, true, nil
	}

	// Legacy clients send the scalar as a quoted string.
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		id, err := strconv.ParseInt(strings.TrimSpace(asString), 10, 64)
		if err != nil {
			return nil, false, errBadAccess
		}
		return []int64{id}, true, nil
	}

	return nil, false, errBadAccess
}

// timeLayouts are the accepted timestamp formats, most specific first.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var errBadTimestamp = errors.New("unrecognized timestamp format")

// ParseTimestamp parses the loosely formatted timestamps the webhook and
// dashboard clients send. Empty strings mean "not supplied".
func ParseTimestamp(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return &parsed, nil
		}
	}
	return nil, errBadTimestamp
}
