package v1

import (
	"fmt"
	"strings"
	"time"
)

// Event names recognized by the metrics aggregator. The set is open: any other
// name is accepted on ingestion and simply ignored by the kind-specific metrics.
const (
	EventFirstVisit        = "first_visit"
	EventSessionStart      = "session_start"
	EventQRScan            = "qr_scan"
	EventPostCreated       = "post_created"
	EventSharePost         = "share_post"
	EventFeedbackSubmitted = "feedback_submitted"
)

const maxEventNameLength = 64

// Event is one immutable, append-only usage record.
type Event struct {
	// ID is assigned by the service on ingestion.
	ID string `json:"id"`

	// EventName is the open enum describing what happened.
	EventName string `json:"event_name"`

	// UserPseudoID is the per-device pseudonymous identity. Empty means the
	// event was recorded without an identity (stored as NULL).
	UserPseudoID string `json:"user_pseudo_id,omitempty"`

	// PostID references the post the event is about, if any.
	PostID string `json:"post_id,omitempty"`

	// Metadata is opaque to the core.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// CreatedAt is stamped by the service. A zero value marks a malformed row
	// (e.g. NULL created_at) that the aggregator skips.
	CreatedAt time.Time `json:"created_at"`
}

// HasIdentity reports whether the event carries a pseudo-identity.
func (e *Event) HasIdentity() bool {
	return e.UserPseudoID != ""
}

// Validate checks the fields a client must provide when appending an event.
func (e *Event) Validate() error {
	name := strings.TrimSpace(e.EventName)
	if name == "" {
		return fmt.Errorf("event_name is required")
	}
	if len(name) > maxEventNameLength {
		return fmt.Errorf("event_name must be at most %d characters", maxEventNameLength)
	}
	e.EventName = name
	return nil
}

// AppendEventRequest is the body accepted by POST /v1/events.
type AppendEventRequest struct {
	EventName    string                 `json:"event_name"`
	UserPseudoID string                 `json:"user_pseudo_id,omitempty"`
	PostID       string                 `json:"post_id,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// ToEvent builds an Event from the request. ID and CreatedAt are left for the
// caller to stamp.
func (r AppendEventRequest) ToEvent() *Event {
	return &Event{
		EventName:    r.EventName,
		UserPseudoID: strings.TrimSpace(r.UserPseudoID),
		PostID:       strings.TrimSpace(r.PostID),
		Metadata:     r.Metadata,
	}
}
