// Package retention expires idle sessions on a schedule
package retention

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Hemachandaranzz/students-wesite/pkg/session"
)

// Sweeper periodically deletes sessions whose last activity is older than
// the configured TTL
type Sweeper struct {
	store session.Store
	ttl   time.Duration
	cron  *cron.Cron
}

// NewSweeper creates and starts a sweeper. The TTL must be positive; callers
// that want sessions to live forever simply never construct one.
func NewSweeper(store session.Store, ttl time.Duration) (*Sweeper, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("retention ttl must be positive, got %v", ttl)
	}

	s := &Sweeper{
		store: store,
		ttl:   ttl,
		cron:  cron.New(),
	}

	if _, err := s.cron.AddFunc("@hourly", s.Sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule retention sweep: %w", err)
	}
	s.cron.Start()

	return s, nil
}

// Stop halts the schedule. A sweep already in flight runs to completion.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep expires every session idle past the TTL. Exported so a sweep can
// also be forced outside the schedule.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.ttl)
	count, err := s.store.ExpireIdleSessions(ctx, cutoff)
	if err != nil {
		log.Printf("[RETENTION]: Sweep failed: %v", err)
		return
	}

	if count > 0 {
		log.Printf("[RETENTION]: Expired %d idle session(s)", count)
	}
}
