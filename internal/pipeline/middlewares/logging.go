package middleware

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/tseries/internal/pipeline"
	"github.com/tejusbharadwaj/tseries/internal/series"
)

// NewLoggingInterceptor logs one entry per step, tagged with the run ID.
func NewLoggingInterceptor(logger *logrus.Logger) pipeline.Interceptor {
	return func(ctx context.Context, ts *series.TimeSeries, info *pipeline.StepInfo, next pipeline.Handler) (*series.TimeSeries, error) {
		start := time.Now()

		out, err := next(ctx, ts)

		entry := logger.WithFields(logrus.Fields{
			"run_id":   pipeline.RunID(ctx),
			"step":     info.Index,
			"op":       info.Op,
			"duration": time.Since(start).String(),
		})
		if err != nil {
			entry.WithError(err).Error("Step failed")
			return nil, err
		}
		entry.WithField("events", out.Size()).Debug("Step completed")
		return out, nil
	}
}
