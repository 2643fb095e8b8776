// Package poller periodically reads an external comment feed and notifies
// about comments that appeared since the previous run.
package poller

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/dmitrijs2005/handlekeeper/internal/server/metrics"
)

type Comment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot is what the poller remembers between runs.
type Snapshot struct {
	LastSeenID int64     `json:"lastSeenId"`
	SeenAt     time.Time `json:"seenAt"`
}

type Fetcher interface {
	Fetch(ctx context.Context) ([]Comment, error)
}

type Notifier interface {
	Notify(ctx context.Context, comments []Comment) error
}

type Poller struct {
	fetcher  Fetcher
	store    SnapshotStore
	notifier Notifier
	metrics  *metrics.Metrics
	log      logging.Logger
	now      func() time.Time
}

func New(f Fetcher, s SnapshotStore, n Notifier, m *metrics.Metrics, log logging.Logger) *Poller {
	return &Poller{fetcher: f, store: s, notifier: n, metrics: m, log: log, now: time.Now}
}

// Poll runs one fetch-diff-notify cycle. The first run with no stored
// snapshot only records the newest id. The snapshot is saved after the
// notifier succeeds, so a failed delivery is retried on the next run.
func (p *Poller) Poll(ctx context.Context) (err error) {
	defer func() {
		result := "success"
		if err != nil {
			result = "error"
		}
		if p.metrics != nil {
			p.metrics.PollRunsTotal.WithLabelValues(result).Inc()
		}
	}()

	comments, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch comments: %w", err)
	}

	prev, found, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	newest := prev.LastSeenID
	for _, c := range comments {
		if c.ID > newest {
			newest = c.ID
		}
	}

	if !found {
		p.log.Info(ctx, "comment poller initialized", "last_seen_id", newest)
		return p.save(ctx, newest)
	}

	fresh := newerThan(comments, prev.LastSeenID)
	if len(fresh) == 0 {
		p.log.Debug(ctx, "no new comments", "last_seen_id", prev.LastSeenID)
		return nil
	}

	if err := p.notifier.Notify(ctx, fresh); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if p.metrics != nil {
		p.metrics.CommentsNotifiedTotal.Add(float64(len(fresh)))
	}

	return p.save(ctx, newest)
}

func (p *Poller) save(ctx context.Context, lastSeen int64) error {
	if err := p.store.Save(ctx, Snapshot{LastSeenID: lastSeen, SeenAt: p.now().UTC()}); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// newerThan returns the comments with an id above last, oldest first.
func newerThan(comments []Comment, last int64) []Comment {
	var out []Comment
	for _, c := range comments {
		if c.ID > last {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
