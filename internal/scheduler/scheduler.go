// Package scheduler triggers periodic valuation refreshes. The scheduler is
// external to the valuation core: it only starts new passes, and a new pass
// supersedes the prior snapshot when complete.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/growwtrack/portfolio-tracker-backend/internal/service"
)

// Scheduler runs the refresh service on a fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	refresh *service.RefreshService
}

// New creates a Scheduler that refreshes every interval.
func New(refresh *service.RefreshService, interval time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		refresh: refresh,
	}

	spec := fmt.Sprintf("@every %s", interval)
	_, err := s.cron.AddFunc(spec, func() {
		snapshot := s.refresh.Refresh(context.Background())
		log.Printf("refreshed %d positions, total value %.2f (%s)",
			len(snapshot.Rows), snapshot.Totals.TotalValue, snapshot.MarketStatus)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule refresh: %w", err)
	}

	return s, nil
}

// Start begins scheduling refreshes in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
