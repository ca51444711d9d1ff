package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	httperr "github.com/pulse-lab/pulse/internal/core/errors"
	"github.com/pulse-lab/pulse/internal/core/storage"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgPersistFailed  = "Failed to persist event"
	msgQueryFailed    = "Failed to query events"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestHandler handles HTTP POST requests appending one client event.
func (s *Service) IngestHandler(c *gin.Context) {
	evt, payloadSize, err := s.parseEvent(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := validateEvent(evt); err != nil {
		writeError(c, err)
		return
	}
	s.stamp(evt)

	slog.Info("[Ingestion] Received event",
		"event_id", evt.ID,
		"event_name", evt.EventName,
		"has_identity", evt.HasIdentity(),
		"payload_size", payloadSize)

	if err := s.persistEvent(c.Request.Context(), evt); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "event_id": evt.ID})
}

// parseEvent reads the raw request body and binds it into an Event.
// Returns the parsed event and the raw payload size (used for structured logging upstream).
func (s *Service) parseEvent(c *gin.Context) (*v1.Event, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var req v1.AppendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	return req.ToEvent(), len(bodyBytes), nil
}

// validateEvent runs envelope validation. Unknown event names are accepted.
func validateEvent(evt *v1.Event) *ingestionError {
	if err := evt.Validate(); err != nil {
		slog.Warn("[Ingestion] Envelope validation failed", "error", err)
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    err.Error(),
		}
	}
	return nil
}

// persistEvent appends the event to the backing store.
func (s *Service) persistEvent(ctx context.Context, evt *v1.Event) *ingestionError {
	if err := s.store.AppendEvent(ctx, evt); err != nil {
		slog.Error("[Ingestion] Failed to persist event", "error", err, "event_id", evt.ID)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}
	return nil
}

// ListEventsHandler returns events filtered by name, pseudo id and time range,
// most recent first.
//
//	GET /v1/events?name=qr_scan&name=share_post&pseudo_id=...&from=RFC3339&to=RFC3339&limit=100
func (s *Service) ListEventsHandler(c *gin.Context) {
	q, err := parseEventQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	events, qErr := s.store.QueryEvents(c.Request.Context(), q)
	if qErr != nil {
		slog.Error("[Ingestion] Failed to query events", "error", qErr)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgQueryFailed,
		})
		return
	}

	if events == nil {
		events = []*v1.Event{}
	}
	c.JSON(http.StatusOK, events)
}

func parseEventQuery(c *gin.Context) (storage.EventQuery, *ingestionError) {
	var q storage.EventQuery

	for _, raw := range c.QueryArray("name") {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				q.Names = append(q.Names, name)
			}
		}
	}
	q.PseudoID = strings.TrimSpace(c.Query("pseudo_id"))

	var err error
	if q.From, err = parseTimeParam(c, "from"); err != nil {
		return q, badQuery(err)
	}
	if q.To, err = parseTimeParam(c, "to"); err != nil {
		return q, badQuery(err)
	}
	if !q.From.IsZero() && !q.To.IsZero() && !q.From.Before(q.To) {
		return q, badQuery(fmt.Errorf("from must be before to"))
	}

	if raw := c.Query("limit"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil || limit <= 0 {
			return q, badQuery(fmt.Errorf("limit must be a positive integer"))
		}
		q.Limit = limit
	}

	return q.Normalized(), nil
}

func parseTimeParam(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be RFC3339", name)
	}
	return t.UTC(), nil
}

func badQuery(err error) *ingestionError {
	return &ingestionError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpInvalidRequestError,
		message:    err.Error(),
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
