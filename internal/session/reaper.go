package session

import (
	"context"
	"log"
	"time"
)

const (
	// DefaultIdleTTL is how long a session may sit without activity
	// before it is evicted
	DefaultIdleTTL = 30 * time.Minute

	// DefaultSweepInterval is how often the reaper scans the store
	DefaultSweepInterval = 5 * time.Minute
)

// Reaper periodically deletes sessions idle past the threshold. It runs
// independently of any single request.
type Reaper struct {
	store    Store
	idleTTL  time.Duration
	interval time.Duration
	stop     chan struct{}
}

// NewReaper creates a reaper over the given store
func NewReaper(store Store, idleTTL, interval time.Duration) *Reaper {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Reaper{
		store:    store,
		idleTTL:  idleTTL,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the background sweep goroutine
func (r *Reaper) Start() {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.Sweep(context.Background())
			case <-r.stop:
				return
			}
		}
	}()
	log.Printf("✅ Session reaper started (idle TTL %s, sweep every %s)", r.idleTTL, r.interval)
}

// Stop terminates the background sweep
func (r *Reaper) Stop() {
	close(r.stop)
}

// Sweep deletes every session whose last activity is older than the idle
// threshold. It returns the number of sessions evicted.
func (r *Reaper) Sweep(ctx context.Context) int {
	sessions, err := r.store.All(ctx)
	if err != nil {
		log.Printf("❌ Session reaper sweep failed: %v", err)
		return 0
	}

	evicted := 0
	now := time.Now()
	for phone, s := range sessions {
		if now.Sub(s.LastActivity) > r.idleTTL {
			if err := r.store.Delete(ctx, phone); err != nil {
				log.Printf("❌ Failed to evict session for %s: %v", phone, err)
				continue
			}
			evicted++
			log.Printf("🧹 Cleared idle session for %s", phone)
		}
	}
	return evicted
}
