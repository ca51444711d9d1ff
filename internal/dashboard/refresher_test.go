package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	storagemocks "github.com/pulse-lab/pulse/internal/mocks/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRefresher_KeepsLatestSnapshot(t *testing.T) {
	events := storagemocks.NewEventStore(t)
	content := storagemocks.NewContentStore(t)
	events.EXPECT().QueryEvents(mock.Anything, mock.Anything).Return(sampleEvents(), nil).Maybe()
	content.EXPECT().ListFeedback(mock.Anything).Return([]v1.Feedback{{Rating: v1.RatingHappy}}, nil).Maybe()
	content.EXPECT().ListPostCounters(mock.Anything).Return(nil, nil).Maybe()

	observer := &recordingObserver{}
	svc := newTestService(t, events, content, WithObserver(observer))
	refresher := NewRefresher(10*time.Millisecond, svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- refresher.Start(ctx) }()

	require.Eventually(t, func() bool { return observer.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancellation")
	}

	// Latest is served from the refreshed cache without further store calls.
	snap, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, snap.UniqueVisits)
	require.Equal(t, 100, snap.NPSScore)
}

func TestRefresher_SurvivesFailures(t *testing.T) {
	events := storagemocks.NewEventStore(t)
	content := storagemocks.NewContentStore(t)
	events.EXPECT().QueryEvents(mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Times(2)
	events.EXPECT().QueryEvents(mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	content.EXPECT().ListFeedback(mock.Anything).Return(nil, nil).Maybe()
	content.EXPECT().ListPostCounters(mock.Anything).Return(nil, nil).Maybe()

	observer := &recordingObserver{}
	svc := newTestService(t, events, content, WithObserver(observer))
	refresher := NewRefresher(10*time.Millisecond, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = refresher.Start(ctx) }()

	require.Eventually(t, func() bool { return observer.count() >= 1 }, time.Second, 5*time.Millisecond)
}

func TestRefresher_FailuresCounter(t *testing.T) {
	events := storagemocks.NewEventStore(t)
	content := storagemocks.NewContentStore(t)
	events.EXPECT().QueryEvents(mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
	events.EXPECT().QueryEvents(mock.Anything, mock.Anything).Return(nil, nil).Once()
	content.EXPECT().ListFeedback(mock.Anything).Return(nil, nil).Maybe()
	content.EXPECT().ListPostCounters(mock.Anything).Return(nil, nil).Maybe()

	svc := newTestService(t, events, content)
	refresher := NewRefresher(time.Minute, svc)

	ctx := context.Background()
	require.Equal(t, 3, refresher.refresh(ctx, 2))
	require.Equal(t, 0, refresher.refresh(ctx, 3))
}
