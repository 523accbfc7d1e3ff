package posts

import (
	"context"
	"time"

	"github.com/bloisdev/bloisdev-cli/internal/database"
	"github.com/bloisdev/bloisdev-cli/internal/logging"
	"github.com/bloisdev/bloisdev-cli/pkg/interfaces"
)

// NewStoreOpener returns an interfaces.PostStoreOpener that connects through
// database.Open and serves inserts from a BunRepository.
func NewStoreOpener(logger interfaces.Logger) interfaces.PostStoreOpener {
	if logger == nil {
		logger = logging.NoOp()
	}

	return func(ctx context.Context, dsn string) (interfaces.PostStore, func() error, error) {
		started := time.Now()
		db, err := database.Open(ctx, dsn)
		if err != nil {
			logger.WithContext(ctx).Debug("database.connect.failed", "error", err)
			return nil, nil, err
		}

		log := logger.WithContext(ctx)
		log.Debug("database.connect.success",
			"dialect", db.Dialect().Name().String(),
			"duration_ms", time.Since(started).Milliseconds(),
		)

		closeFn := func() error {
			err := db.Close()
			if err != nil {
				log.Warn("database.close.failed", "error", err)
			}
			return err
		}
		return NewBunRepository(db), closeFn, nil
	}
}
