package worker

import (
	"context"
	"testing"
	"time"

	"auraverse/config"
	"auraverse/internal/broker"
	"auraverse/internal/service"
	"auraverse/internal/store"

	"github.com/stretchr/testify/require"
)

func TestFeedWorkerStopsOnCancel(t *testing.T) {
	s, err := store.NewStore("sqlite3", ":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Initialize(context.Background()))

	feed := service.NewFeedService(s, config.FeedConfig{
		PollSeconds:         1,
		RecentOrdersLimit:   20,
		GlobalCommentsLimit: 50,
	}, nil, broker.NoopPublisher{})

	w := NewFeedWorker(feed, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	// Let it tick at least once, then make sure cancellation unblocks Wait.
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("feed worker did not stop after cancellation")
	}
}
