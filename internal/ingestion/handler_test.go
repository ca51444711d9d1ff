package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	httperr "github.com/pulse-lab/pulse/internal/core/errors"
	"github.com/pulse-lab/pulse/internal/core/storage"
	storagemocks "github.com/pulse-lab/pulse/internal/mocks/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store storage.EventStore) (*Service, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(store, 1)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "evt-001" }

	r := gin.New()
	svc.RegisterRoutes(r)
	return svc, r
}

func postJSON(r http.Handler, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestIngestHandler_Success(t *testing.T) {
	body, _ := json.Marshal(v1.AppendEventRequest{
		EventName:    " qr_scan ",
		UserPseudoID: "user-1",
		Metadata:     map[string]interface{}{"poster": "lobby"},
	})

	mockStore := storagemocks.NewEventStore(t)
	mockStore.EXPECT().
		AppendEvent(mock.Anything, mock.MatchedBy(func(e *v1.Event) bool {
			return e.ID == "evt-001" &&
				e.EventName == v1.EventQRScan &&
				e.UserPseudoID == "user-1" &&
				e.CreatedAt.Equal(fixedNow)
		})).
		Return(nil).
		Once()

	_, r := newTestService(t, mockStore)
	resp := postJSON(r, "/v1/events", body)

	require.Equal(t, http.StatusAccepted, resp.Code)
	var result map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, "accepted", result["status"])
	require.Equal(t, "evt-001", result["event_id"])
}

func TestIngestHandler_UnknownEventNameAccepted(t *testing.T) {
	mockStore := storagemocks.NewEventStore(t)
	mockStore.EXPECT().AppendEvent(mock.Anything, mock.Anything).Return(nil).Once()

	_, r := newTestService(t, mockStore)
	resp := postJSON(r, "/v1/events", []byte(`{"event_name":"poster_viewed"}`))

	require.Equal(t, http.StatusAccepted, resp.Code)
}

func TestIngestHandler_InvalidJSON(t *testing.T) {
	_, r := newTestService(t, storagemocks.NewEventStore(t))
	resp := postJSON(r, "/v1/events", []byte("not json"))

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpInvalidJsonError, errResp.ErrorType)
}

func TestIngestHandler_ValidationFailure(t *testing.T) {
	_, r := newTestService(t, storagemocks.NewEventStore(t))
	resp := postJSON(r, "/v1/events", []byte(`{"event_name":"   "}`))

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpInvalidRequestError, errResp.ErrorType)
	require.Contains(t, errResp.Message, "event_name")
}

func TestIngestHandler_StoreError(t *testing.T) {
	mockStore := storagemocks.NewEventStore(t)
	mockStore.EXPECT().
		AppendEvent(mock.Anything, mock.Anything).
		Return(errors.New("db down")).
		Once()

	_, r := newTestService(t, mockStore)
	resp := postJSON(r, "/v1/events", []byte(`{"event_name":"first_visit"}`))

	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpInternalError, errResp.ErrorType)
}

func TestIngestHandler_BodyTooLarge(t *testing.T) {
	_, r := newTestService(t, storagemocks.NewEventStore(t))

	large := `{"event_name":"qr_scan","metadata":{"blob":"` + strings.Repeat("x", 1024*1024) + `"}}`
	resp := postJSON(r, "/v1/events", []byte(large))

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Contains(t, errResp.Message, "maximum allowed size")
}

func TestListEventsHandler_Success(t *testing.T) {
	from := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)
	to := from.Add(10 * time.Minute)

	mockStore := storagemocks.NewEventStore(t)
	mockStore.EXPECT().
		QueryEvents(mock.Anything, storage.EventQuery{
			Names:    []string{v1.EventQRScan, v1.EventSharePost, v1.EventFirstVisit},
			PseudoID: "user-1",
			From:     from,
			To:       to,
			Limit:    50,
		}).
		Return([]*v1.Event{
			{ID: "evt-1", EventName: v1.EventQRScan, UserPseudoID: "user-1", CreatedAt: from},
		}, nil).
		Once()

	_, r := newTestService(t, mockStore)

	req := httptest.NewRequest(
		http.MethodGet,
		"/v1/events?name=qr_scan,share_post&name=first_visit&pseudo_id=user-1&limit=50"+
			"&from="+from.Format(time.RFC3339)+"&to="+to.Format(time.RFC3339),
		nil,
	)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var events []v1.Event
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &events))
	require.Len(t, events, 1)
	require.Equal(t, "evt-1", events[0].ID)
	require.Equal(t, "user-1", events[0].UserPseudoID)
}

func TestListEventsHandler_DefaultsAndEmpty(t *testing.T) {
	mockStore := storagemocks.NewEventStore(t)
	mockStore.EXPECT().
		QueryEvents(mock.Anything, storage.EventQuery{Limit: storage.DefaultEventFetchLimit}).
		Return(nil, nil).
		Once()

	_, r := newTestService(t, mockStore)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/events?limit=999999", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `[]`, resp.Body.String())
}

func TestListEventsHandler_InvalidQuery(t *testing.T) {
	from := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query string
	}{
		{"inverted range", "from=" + from.Format(time.RFC3339) + "&to=" + from.Add(-time.Minute).Format(time.RFC3339)},
		{"bad timestamp", "from=yesterday"},
		{"bad limit", "limit=-3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, r := newTestService(t, storagemocks.NewEventStore(t))

			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/events?"+tc.query, nil))

			require.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestListEventsHandler_StoreError(t *testing.T) {
	mockStore := storagemocks.NewEventStore(t)
	mockStore.EXPECT().
		QueryEvents(mock.Anything, mock.Anything).
		Return(nil, errors.New("db failure")).
		Once()

	_, r := newTestService(t, mockStore)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/events", nil))

	require.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestEmit_SwallowsStoreError(t *testing.T) {
	mockStore := storagemocks.NewEventStore(t)
	mockStore.EXPECT().
		AppendEvent(mock.Anything, mock.Anything).
		Return(errors.New("db down")).
		Once()

	svc, _ := newTestService(t, mockStore)
	evt := &v1.Event{EventName: v1.EventSharePost, PostID: "post-1"}

	require.NotPanics(t, func() { svc.Emit(context.Background(), evt) })
	require.Equal(t, "evt-001", evt.ID)
	require.Equal(t, fixedNow, evt.CreatedAt)
}

func TestEmit_DropsInvalidEvent(t *testing.T) {
	svc, _ := newTestService(t, storagemocks.NewEventStore(t))
	svc.Emit(context.Background(), &v1.Event{})
}

func TestNewService_PanicsOnNilStore(t *testing.T) {
	require.Panics(t, func() { NewService(nil, 1) })
}
