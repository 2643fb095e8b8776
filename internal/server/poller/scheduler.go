package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/robfig/cron/v3"
)

// Scheduler triggers Poll on a cron schedule. Overlapping runs are
// skipped rather than queued.
type Scheduler struct {
	cron    *cron.Cron
	poller  *Poller
	log     logging.Logger
	timeout time.Duration
}

func NewScheduler(spec string, p *Poller, log logging.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	s := &Scheduler{cron: c, poller: p, log: log, timeout: time.Minute}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid poll schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.poller.Poll(ctx); err != nil {
		s.log.Error(ctx, "comment poll failed", "error", err.Error())
	}
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running poll to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.log.Info(ctx, "Comment poller started")

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.log.Info(ctx, "Comment poller stopped")
}
