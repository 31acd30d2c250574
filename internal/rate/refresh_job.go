package rate

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const refreshTimeout = 30 * time.Second

type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshRates runs one scheduled refresh and logs its outcome.
func RefreshRates(ctx context.Context, execID string, refresher Refresher) error {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	log := logrus.WithField("exec_id", execID)
	start := time.Now()
	if err := refresher.Refresh(ctx); err != nil {
		log.WithError(err).Error("Reference rates refresh failed")
		return err
	}
	log.WithField("took", time.Since(start)).Info("Reference rates refreshed")
	return nil
}
