package links_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peppidesu/landmower/internal/queue"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func accessEvents(alias string, n int) []queue.Event {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	events := make([]queue.Event, n)
	for i := range events {
		events[i] = queue.Event{Alias: alias, Timestamp: base.Add(time.Duration(i) * time.Second)}
	}
	return events
}
