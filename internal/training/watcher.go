package training

import (
	"context"
	"time"
)

// Watcher polls the training service and delivers status updates on a
// channel until the job finishes or the context is cancelled.
type Watcher struct {
	client   *Client
	interval time.Duration
}

// NewWatcher creates a watcher polling at the given interval.
func NewWatcher(client *Client, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{client: client, interval: interval}
}

// Watch polls until training stops. The returned channel is closed when
// the job completes, a poll fails, or ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) <-chan Status {
	out := make(chan Status, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			st, err := w.client.Status()
			if err != nil {
				return
			}
			select {
			case out <- st:
			case <-ctx.Done():
				return
			}
			if !st.IsTraining {
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
