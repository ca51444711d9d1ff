package postgres

// SQL queries for the append-only event log

const (
	// queryAppendEvent inserts one event. Events are never updated or deleted.
	queryAppendEvent = `
		INSERT INTO events (
			id, event_name, user_pseudo_id, post_id, metadata, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	// querySelectEvents is the base of the filtered event query.
	// Filters and the LIMIT are appended by buildEventQuery.
	querySelectEvents = `
		SELECT
			id, event_name, user_pseudo_id, post_id, metadata, created_at
		FROM events`

	// queryOrderEvents orders most recent first. Rows without a timestamp sort last
	// so they never crowd out well-formed rows under the fetch cap.
	queryOrderEvents = `
		ORDER BY created_at DESC NULLS LAST`
)
