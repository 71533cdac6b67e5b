package events

import (
	"time"

	platformevents "leadportal_backend/platform/events"
)

// Re-export platform event primitives so domain events need a single import.
type (
	Event     = platformevents.Event
	BaseEvent = platformevents.BaseEvent
	Handler   = platformevents.Handler
	Bus       = platformevents.Bus
)

// HandlerFunc re-exports the function adapter.
type HandlerFunc = platformevents.HandlerFunc

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// Event names.
const (
	EventLeadCreated      = "lead.created"
	EventVisitRecorded    = "sitevisit.recorded"
)

// LeadCreated is published after a new lead has been durably persisted.
// The notification fan-out engine subscribes to it; handlers run detached
// from the ingestion request.
type LeadCreated struct {
	BaseEvent
	LeadID   int64      `json:"leadId"`
	Name     string     `json:"name"`
	Contact  string     `json:"contact"`
	City     string     `json:"city"`
	Platform string     `json:"platform"`
	Time     *time.Time `json:"time,omitempty"`
}

// EventName returns the unique event identifier.
func (e LeadCreated) EventName() string { return EventLeadCreated }

// VisitRecorded is published after a site-visit record has been persisted.
type VisitRecorded struct {
	BaseEvent
	VisitID   int64  `json:"visitId"`
	UserID    int64  `json:"userId"`
	OwnerName string `json:"ownerName"`
}

// EventName returns the unique event identifier.
func (e VisitRecorded) EventName() string { return EventVisitRecorded }
