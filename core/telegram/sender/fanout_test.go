package sender

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestFanoutIsolatesFailures(t *testing.T) {
	recipients := []int64{1, 2, 3, 4, 5}
	blocked := &tele.Error{Code: 403, Description: "Forbidden: bot was blocked by the user"}

	var mu sync.Mutex
	seen := map[int64]int{}
	rep := Fanout(context.Background(), recipients, Options{Workers: 3}, func(_ context.Context, id int64) error {
		mu.Lock()
		seen[id]++
		mu.Unlock()
		if id == 2 || id == 4 {
			return blocked
		}
		return nil
	})

	assert.Equal(t, 5, rep.Attempted)
	assert.Equal(t, 3, rep.Succeeded)
	assert.Equal(t, 2, rep.Failed)
	assert.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Results, 5)
	for i, res := range rep.Results {
		assert.Equal(t, recipients[i], res.Recipient)
	}
	for _, id := range recipients {
		assert.Equal(t, 1, seen[id], "recipient %d attempted exactly once", id)
	}
	assert.Equal(t, map[string]int{"http_4xx": 2}, rep.FailureKinds())
}

func TestFanoutBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	recipients := make([]int64, 20)
	for i := range recipients {
		recipients[i] = int64(i + 1)
	}
	rep := Fanout(context.Background(), recipients, Options{Workers: 2}, func(context.Context, int64) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})
	assert.Equal(t, 20, rep.Succeeded)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestFanoutPacing(t *testing.T) {
	rep := Fanout(context.Background(), []int64{1, 2, 3}, Options{Workers: 1, Interval: 20 * time.Millisecond},
		func(context.Context, int64) error { return nil })
	assert.Equal(t, 3, rep.Succeeded)
	assert.GreaterOrEqual(t, rep.Elapsed, 35*time.Millisecond)
}

func TestFanoutCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	rep := Fanout(ctx, []int64{1, 2}, Options{Interval: time.Second}, func(context.Context, int64) error {
		calls.Add(1)
		return nil
	})
	assert.Equal(t, 2, rep.Failed)
	assert.Zero(t, calls.Load())
	for _, res := range rep.Results {
		assert.True(t, errors.Is(res.Err, context.Canceled))
	}
}

func TestFanoutEmpty(t *testing.T) {
	rep := Fanout(context.Background(), nil, Options{}, func(context.Context, int64) error { return nil })
	assert.Zero(t, rep.Attempted)
	assert.Empty(t, rep.Results)
}

func TestSanitizeErrorMessageRedactsToken(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AA-bb_CC/sendMessage": EOF`)
	assert.NotContains(t, sanitizeErrorMessage(err), "123456:AA")
	assert.Contains(t, sanitizeErrorMessage(err), "bot<redacted>")
}
