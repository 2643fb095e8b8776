package poller

import (
	"context"

	"github.com/dmitrijs2005/handlekeeper/internal/logging"
)

// LogNotifier reports each new comment as a structured log record.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, comments []Comment) error {
	for _, c := range comments {
		n.log.Info(ctx, "new comment",
			"comment_id", c.ID,
			"author", c.Author,
			"created_at", c.CreatedAt,
		)
	}
	return nil
}
