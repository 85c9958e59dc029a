package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ops-kit/netops-service/internal/service"
)

// StartPredictionWorker regenerates forecast rows on a fixed interval
// until the context is cancelled. The first regeneration runs immediately.
func StartPredictionWorker(ctx context.Context, predictions *service.PredictionService, interval time.Duration, logger *zap.Logger) {
	if predictions == nil {
		return
	}
	go func() {
		run := func() {
			runCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			if err := predictions.Regenerate(runCtx); err != nil {
				logger.Warn("prediction regeneration failed", zap.Error(err))
			}
		}

		run()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}
