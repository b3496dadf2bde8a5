package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/inlink-go/internal/logger"
)

// Fanout delivers each change event to every configured sink.
type Fanout struct {
	sinks []Publisher
	log   logger.Logger
}

// NewFanout drops nil entries and keeps the rest in order.
func NewFanout(pubs []Publisher, log logger.Logger) *Fanout {
	sinks := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			sinks = append(sinks, p)
		}
	}
	return &Fanout{sinks: sinks, log: logger.OrNop(log)}
}

// Publish hands evt to every sink and reports how many accepted it.
// Failures are joined; a partial delivery returns both a count and an error.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	var (
		errs      []error
		delivered []string
		failed    []string
	)
	for _, p := range f.sinks {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
			failed = append(failed, p.ID())
			continue
		}
		delivered = append(delivered, p.ID())
	}

	fields := evt.logFields()
	fields["delivered"] = delivered
	if len(failed) > 0 {
		fields["failed"] = failed
		f.log.WarnObj("metadata change not delivered everywhere", "fanout_delivery", fields)
	} else {
		f.log.DebugObj("metadata change delivered", "fanout_delivery", fields)
	}
	return len(delivered), errors.Join(errs...)
}

// Size returns the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases sinks that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.sinks {
		c, ok := p.(Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
