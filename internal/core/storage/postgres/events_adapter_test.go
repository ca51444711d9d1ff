package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	"github.com/pulse-lab/pulse/internal/core/storage"
	"github.com/stretchr/testify/require"
)

func TestAdapter_AppendEvent(t *testing.T) {
	now := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		event          *v1.Event
		mockResult     func(mock sqlmock.Sqlmock, event *v1.Event)
		assertions     func(t *testing.T, err error)
		expectationsOK bool
	}{
		{
			name: "success with identity",
			event: &v1.Event{
				ID:           "evt-1",
				EventName:    v1.EventQRScan,
				UserPseudoID: "user-1",
				Metadata:     map[string]interface{}{"source": "poster"},
				CreatedAt:    now,
			},
			mockResult: func(mock sqlmock.Sqlmock, event *v1.Event) {
				mock.ExpectExec(regexp.QuoteMeta(queryAppendEvent)).
					WithArgs(event.ID, event.EventName, "user-1", nil, sqlmock.AnyArg(), event.CreatedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
			expectationsOK: true,
		},
		{
			name: "anonymous event stores NULL identity",
			event: &v1.Event{
				ID:        "evt-2",
				EventName: v1.EventSharePost,
				PostID:    "post-1",
				CreatedAt: now,
			},
			mockResult: func(mock sqlmock.Sqlmock, event *v1.Event) {
				mock.ExpectExec(regexp.QuoteMeta(queryAppendEvent)).
					WithArgs(event.ID, event.EventName, nil, "post-1", sqlmock.AnyArg(), event.CreatedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
			expectationsOK: true,
		},
		{
			name: "driver error maps to ErrStoreUnavailable",
			event: &v1.Event{
				ID:        "evt-3",
				EventName: v1.EventFirstVisit,
				CreatedAt: now,
			},
			mockResult: func(mock sqlmock.Sqlmock, event *v1.Event) {
				mock.ExpectExec(regexp.QuoteMeta(queryAppendEvent)).
					WillReturnError(errors.New("connection reset"))
			},
			assertions: func(t *testing.T, err error) {
				require.ErrorIs(t, err, storage.ErrStoreUnavailable)
				require.ErrorContains(t, err, "connection reset")
			},
			expectationsOK: true,
		},
		{
			name: "marshal error short-circuits",
			event: &v1.Event{
				ID:        "evt-bad",
				EventName: v1.EventFirstVisit,
				Metadata:  map[string]interface{}{"value": math.NaN()},
				CreatedAt: now,
			},
			assertions: func(t *testing.T, err error) {
				require.Error(t, err)
				require.ErrorContains(t, err, "failed to marshal metadata")
			},
			expectationsOK: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter, mock, db := newMockAdapter(t)
			defer db.Close()

			if tc.mockResult != nil {
				tc.mockResult(mock, tc.event)
			}

			err := adapter.AppendEvent(context.Background(), tc.event)
			tc.assertions(t, err)

			if tc.expectationsOK {
				require.NoError(t, mock.ExpectationsWereMet())
			}
		})
	}
}

func TestAdapter_QueryEvents(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	q := storage.EventQuery{
		Names:    []string{v1.EventFirstVisit, v1.EventSessionStart},
		PseudoID: "user-1",
		From:     from,
		To:       to,
		Limit:    2,
	}

	query, _ := buildEventQuery(q.Normalized())
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(v1.EventFirstVisit, v1.EventSessionStart, "user-1", from, to, 2).
		WillReturnRows(sqlmock.NewRows(eventRowColumns()).
			AddRow("evt-2", v1.EventSessionStart, "user-1", nil, nil, from.Add(2*time.Hour)).
			AddRow("evt-1", v1.EventFirstVisit, "user-1", "post-9", []byte(`{"source":"qr"}`), from.Add(time.Hour)),
		).RowsWillBeClosed()

	events, err := adapter.QueryEvents(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "evt-2", events[0].ID)
	require.Empty(t, events[0].PostID)
	require.Nil(t, events[0].Metadata)
	require.Equal(t, "evt-1", events[1].ID)
	require.Equal(t, "post-9", events[1].PostID)
	require.Equal(t, "qr", events[1].Metadata["source"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_QueryEvents_NullTimestampIsZero(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(querySelectEvents)).
		WithArgs(storage.DefaultEventFetchLimit).
		WillReturnRows(sqlmock.NewRows(eventRowColumns()).
			AddRow("evt-1", v1.EventFirstVisit, nil, nil, nil, nil),
		)

	events, err := adapter.QueryEvents(context.Background(), storage.EventQuery{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, events[0].CreatedAt.IsZero())
	require.False(t, events[0].HasIdentity())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_QueryEvents_NonObjectMetadataIsDropped(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(querySelectEvents)).
		WithArgs(storage.DefaultEventFetchLimit).
		WillReturnRows(sqlmock.NewRows(eventRowColumns()).
			AddRow("evt-2", v1.EventSessionStart, "user-1", nil, []byte(`["legacy"]`), ts.Add(time.Minute)).
			AddRow("evt-1", v1.EventFirstVisit, "user-1", nil, []byte(`{"source":"qr"}`), ts),
		)

	events, err := adapter.QueryEvents(context.Background(), storage.EventQuery{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Nil(t, events[0].Metadata)
	require.Equal(t, v1.EventSessionStart, events[0].EventName)
	require.Equal(t, "qr", events[1].Metadata["source"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_QueryEvents_Error(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(querySelectEvents)).
		WillReturnError(errors.New("timeout"))

	_, err := adapter.QueryEvents(context.Background(), storage.EventQuery{})
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
}

func TestBuildEventQuery(t *testing.T) {
	tests := []struct {
		name     string
		q        storage.EventQuery
		contains []string
		args     int
	}{
		{
			name:     "no filters",
			q:        storage.EventQuery{},
			contains: []string{"ORDER BY created_at DESC NULLS LAST", "LIMIT $1"},
			args:     1,
		},
		{
			name:     "names only",
			q:        storage.EventQuery{Names: []string{"a", "b", "c"}},
			contains: []string{"WHERE event_name IN ($1, $2, $3)", "LIMIT $4"},
			args:     4,
		},
		{
			name:     "range only",
			q:        storage.EventQuery{From: time.Unix(0, 0).Add(time.Hour), To: time.Unix(0, 0).Add(2 * time.Hour)},
			contains: []string{"created_at >= $1", "AND created_at < $2", "LIMIT $3"},
			args:     3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args := buildEventQuery(tc.q.Normalized())
			for _, fragment := range tc.contains {
				require.Contains(t, query, fragment)
			}
			require.Len(t, args, tc.args)
			require.Equal(t, storage.DefaultEventFetchLimit, args[len(args)-1])
		})
	}
}

func TestAdapter_CloseReturnsDBCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbCloseErr := errors.New("db close failed")

	mock.ExpectPrepare(regexp.QuoteMeta(queryAppendEvent)).WillBeClosed()
	stmtAppend, err := db.Prepare(queryAppendEvent)
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(dbCloseErr)

	adapter := &Adapter{
		db:              db,
		stmtAppendEvent: stmtAppend,
	}

	err = adapter.Close()
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to close database")
	require.ErrorIs(t, err, dbCloseErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exists := regexp.QuoteMeta("SELECT EXISTS (")
	mock.ExpectQuery(exists).WithArgs("events").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(exists).WithArgs("posts").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err = validateSchema(db)
	require.Error(t, err)
	require.ErrorContains(t, err, "posts table does not exist")
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adapter := &Adapter{
		db:              db,
		stmtAppendEvent: mustPrepareStmt(t, db, mock, queryAppendEvent),
	}

	return adapter, mock, db
}

func mustPrepareStmt(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, query string) *sql.Stmt {
	t.Helper()

	mock.ExpectPrepare(regexp.QuoteMeta(query))
	stmt, err := db.Prepare(query)
	require.NoError(t, err)

	return stmt
}

func eventRowColumns() []string {
	return []string{
		"id",
		"event_name",
		"user_pseudo_id",
		"post_id",
		"metadata",
		"created_at",
	}
}

func TestNewAdapter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exists := regexp.QuoteMeta("SELECT EXISTS (")
	for _, table := range requiredTables {
		mock.ExpectQuery(exists).WithArgs(table).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	}
	mock.ExpectPrepare(regexp.QuoteMeta(queryAppendEvent))

	adapter, err := NewAdapter(db)
	require.NoError(t, err)
	require.Same(t, db, adapter.DB())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewAdapter_MissingSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (")).WithArgs("events").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = NewAdapter(db)
	require.ErrorContains(t, err, "did you run migrations?")
	require.NoError(t, mock.ExpectationsWereMet())
}
