// Package netwatch observes backend reachability and feeds the flag
// the orchestrator gates its offline queue on.
package netwatch

import (
	"context"
	"net/http"
	"time"
)

type Watcher struct {
	probeURL string
	interval time.Duration
	hc       *http.Client
	onChange func(online bool)
}

func New(probeURL string, interval time.Duration, onChange func(online bool)) *Watcher {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Watcher{
		probeURL: probeURL,
		interval: interval,
		hc:       &http.Client{Timeout: 5 * time.Second},
		onChange: onChange,
	}
}

// Check is the one-shot fetch.
func (w *Watcher) Check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, w.probeURL, nil)
	if err != nil {
		return false
	}
	res, err := w.hc.Do(req)
	if err != nil {
		return false
	}
	res.Body.Close()
	return res.StatusCode < 500
}

// Run probes until the context ends, invoking the callback on every
// state change.
func (w *Watcher) Run(ctx context.Context) {
	last := w.Check(ctx)
	w.onChange(last)

	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cur := w.Check(ctx)
			if cur != last {
				last = cur
				w.onChange(cur)
			}
		}
	}
}
