// Package domain holds the lead status vocabulary and transition rules.
package domain

import "strings"

// StatusVocabulary is the canonical set of lead status labels, in display
// casing. Transition logic compares case-insensitively; storage keeps the
// label as supplied.
var StatusVocabulary = []string{
	"Interested",
	"Not Interested",
	"Yet To Think",
	"Call back Requested",
	"Busy",
	"Visit Confirmed",
	"Visiting Soon",
	"Wrong Number",
	"Quotation Sent",
	"Closed",
	"new",
	"Engineer",
	"Mestri",
	"Contractor",
	"visit done",
	"order completed",
}

// terminalStatuses are the statuses after which a pending visit date is
// meaningless and must be cleared.
var terminalStatuses = map[string]struct{}{
	"not interested": {},
	"closed":         {},
	"new":            {},
	"wrong number":   {},
}

// IsTerminal reports whether a status clears any pending visit schedule.
// The check is case-insensitive and ignores surrounding whitespace.
func IsTerminal(response string) bool {
	_, ok := terminalStatuses[strings.ToLower(strings.TrimSpace(response))]
	return ok
}
