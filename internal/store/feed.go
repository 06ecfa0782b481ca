package store

import (
	"context"
	"time"
)

// Feed tells the kitchen dashboard the store may have changed. The
// channel carries no data: subscribers always re-read the store. Polling
// and broker push both satisfy the same contract, so swapping one for the
// other is a wiring change only.
type Feed interface {
	Changes(ctx context.Context) (<-chan struct{}, error)
}

// PollFeed ticks on a fixed period, standing in for a real subscription.
type PollFeed struct {
	Interval time.Duration
}

func NewPollFeed(interval time.Duration) *PollFeed {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &PollFeed{Interval: interval}
}

func (p *PollFeed) Changes(ctx context.Context) (<-chan struct{}, error) {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		t := time.NewTicker(p.Interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				select {
				case out <- struct{}{}:
				default: // subscriber still busy with the last refresh
				}
			}
		}
	}()
	return out, nil
}
