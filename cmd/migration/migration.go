package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Indexer is a repository that owns MongoDB indexes.
type Indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// Run creates the indexes of every target. It stops at the first failure.
func Run(ctx context.Context, log *zap.Logger, targets map[string]Indexer) error {
	applied := 0
	for name, target := range targets {
		if err := target.EnsureIndexes(ctx); err != nil {
			log.Error("migration.Run failed",
				zap.String("collection", name),
				zap.Error(err),
			)
			return fmt.Errorf("ensure indexes for %s: %w", name, err)
		}
		applied++
	}
	log.Info("migration.Run applied indexes", zap.Int("count", applied))
	return nil
}
