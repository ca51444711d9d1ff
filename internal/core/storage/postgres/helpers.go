package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	"github.com/pulse-lab/pulse/internal/core/storage"
)

// marshalMetadata marshals an event's metadata to JSON.
// Nil or empty metadata produces nil (SQL NULL) rather than JSON "null" string.
func marshalMetadata(event *v1.Event) ([]byte, error) {
	if len(event.Metadata) == 0 {
		return nil, nil
	}
	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return metadataJSON, nil
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEventRow scans a database row into an Event struct.
// NULL identity, post and timestamp columns map to zero values; a zero
// CreatedAt marks the row as malformed for the aggregator.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanEventRow(row scanner) (*v1.Event, error) {
	var (
		evt          v1.Event
		pseudoID     sql.NullString
		postID       sql.NullString
		metadataJSON []byte
		createdAt    sql.NullTime
	)

	err := row.Scan(
		&evt.ID,
		&evt.EventName,
		&pseudoID,
		&postID,
		&metadataJSON,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}

	evt.UserPseudoID = pseudoID.String
	evt.PostID = postID.String
	if createdAt.Valid {
		evt.CreatedAt = createdAt.Time.UTC()
	}

	// Metadata that is not a JSON object is dropped; the event stays usable.
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &evt.Metadata); err != nil {
			slog.Warn("[Postgres] Dropping undecodable event metadata", "event_id", evt.ID, "error", err)
			evt.Metadata = nil
		}
	}

	return &evt, nil
}

// buildEventQuery renders the filtered event query and its positional args.
// q must already be normalized.
func buildEventQuery(q storage.EventQuery) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(q.Names) > 0 {
		placeholders := make([]string, len(q.Names))
		for i, name := range q.Names {
			placeholders[i] = arg(name)
		}
		where = append(where, "event_name IN ("+strings.Join(placeholders, ", ")+")")
	}
	if q.PseudoID != "" {
		where = append(where, "user_pseudo_id = "+arg(q.PseudoID))
	}
	if !q.From.IsZero() {
		where = append(where, "created_at >= "+arg(q.From))
	}
	if !q.To.IsZero() {
		where = append(where, "created_at < "+arg(q.To))
	}

	query := querySelectEvents
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, "\n\t\t  AND ")
	}
	query += queryOrderEvents + "\n\t\tLIMIT " + arg(q.Limit)

	return query, args
}
