package bootstrap

import (
	"context"

	"github.com/Iron-Ham/tileboard/internal/errors"
	"github.com/Iron-Ham/tileboard/internal/event"
)

// Load loads the document from src and reports the outcome on the bus and
// logger given in opts. Sources carry their own options; opts here only
// affect reporting.
func Load(ctx context.Context, src Source, opts ...Option) (*Document, error) {
	o := newOptions(opts)
	log := o.logger.With("source", src.String())

	doc, err := src.Load(ctx)
	if err != nil {
		attempts := 1
		var fetchErr *errors.FetchError
		if errors.As(err, &fetchErr) && fetchErr.Attempt > 0 {
			attempts = fetchErr.Attempt
		}
		log.Error("definition load failed", "attempts", attempts, "error", err.Error())
		o.publish(event.NewBootstrapFailedEvent(src.String(), attempts, err))
		return nil, err
	}

	log.Info("definition loaded",
		"title", doc.Title,
		"attempts", doc.Attempts,
		"has_root", doc.Root != nil)
	o.publish(event.NewBootstrapLoadedEvent(src.String(), doc.Title, doc.Attempts))
	return doc, nil
}
