package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadingQueueGrowsUnboundedWithoutAConsumer(t *testing.T) {
	q := NewReadingQueue()

	const n = 5000 // exceeds the old fixed 4096-capacity buffer
	for i := 0; i < n; i++ {
		q.In() <- Reading{Device: "router-A"}
	}

	received := 0
	for received < n {
		select {
		case <-q.Out():
			received++
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after receiving %d/%d readings", received, n)
		}
	}
	require.Equal(t, n, received)
}

func TestReadingQueuePreservesOrder(t *testing.T) {
	q := NewReadingQueue()

	q.In() <- Reading{Device: "first"}
	q.In() <- Reading{Device: "second"}

	require.Equal(t, "first", (<-q.Out()).Device)
	require.Equal(t, "second", (<-q.Out()).Device)
}
