package v1

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		wantErr  bool
		wantName string
	}{
		{
			name:     "valid recognized name",
			event:    Event{EventName: EventQRScan},
			wantName: EventQRScan,
		},
		{
			name:     "unrecognized names are accepted",
			event:    Event{EventName: "button_clicked"},
			wantName: "button_clicked",
		},
		{
			name:     "name is trimmed",
			event:    Event{EventName: "  session_start "},
			wantName: EventSessionStart,
		},
		{
			name:    "missing name",
			event:   Event{},
			wantErr: true,
		},
		{
			name:    "blank name",
			event:   Event{EventName: "   "},
			wantErr: true,
		},
		{
			name:    "name too long",
			event:   Event{EventName: strings.Repeat("x", maxEventNameLength+1)},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.event.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantName, tc.event.EventName)
		})
	}
}

func TestAppendEventRequest_ToEvent(t *testing.T) {
	var req AppendEventRequest
	body := `{"event_name":"share_post","user_pseudo_id":" anon-1 ","post_id":"p-1","metadata":{"channel":"qr"}}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	evt := req.ToEvent()
	require.Equal(t, EventSharePost, evt.EventName)
	require.Equal(t, "anon-1", evt.UserPseudoID)
	require.True(t, evt.HasIdentity())
	require.Equal(t, "p-1", evt.PostID)
	require.Equal(t, "qr", evt.Metadata["channel"])
	require.True(t, evt.CreatedAt.IsZero())
}

func TestEvent_JSONOmitsEmptyIdentity(t *testing.T) {
	data, err := json.Marshal(Event{ID: "evt-1", EventName: EventFirstVisit})
	require.NoError(t, err)
	require.NotContains(t, string(data), "user_pseudo_id")
	require.NotContains(t, string(data), "post_id")
}
