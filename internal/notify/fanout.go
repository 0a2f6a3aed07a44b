package notify

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// Fanout forwards each event to every configured target. A failing target is
// logged and skipped; Fanout itself never fails, matching the best-effort
// contract of the channel.
type Fanout struct {
	targets []domain.OrderNotifier
	logger  *log.Entry
	onError func()
}

// NewFanout composes the given notifiers. onError, if non-nil, is invoked
// once per failed target (wired to the notify failure metric).
func NewFanout(logger *log.Entry, onError func(), targets ...domain.OrderNotifier) *Fanout {
	if logger == nil {
		logger = log.WithField("component", "notify-fanout")
	}
	return &Fanout{targets: targets, logger: logger, onError: onError}
}

func (f *Fanout) OrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	for _, target := range f.targets {
		if err := target.OrderPlaced(ctx, event); err != nil {
			f.logger.WithError(err).WithField("order_id", event.OrderID).Warn("notify target failed")
			if f.onError != nil {
				f.onError()
			}
		}
	}
	return nil
}

var _ domain.OrderNotifier = (*Fanout)(nil)
