package jobs

import (
	"context"
	"time"

	"divecenter-backend/internal/logger"
)

// ExpireDivePackages flips ACTIVE packages whose expiry date has passed to
// EXPIRED. Packages without an expiry date never expire.
func (jr *JobRunner) ExpireDivePackages() {
	jr.runWithRecovery("ExpireDivePackages", func() {
		ctx := context.Background()

		count, err := jr.store.DivePackages().ExpireDue(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to expire dive packages", "error", err)
			return
		}

		logger.Info("Expired dive packages", "count", count)
	})
}
