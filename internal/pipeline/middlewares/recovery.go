package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/tseries/internal/pipeline"
	"github.com/tejusbharadwaj/tseries/internal/series"
)

// NewRecoveryInterceptor turns a panic inside a step into an error and logs
// the recovered value. It should be the outermost interceptor.
func NewRecoveryInterceptor(logger *logrus.Logger) pipeline.Interceptor {
	return func(ctx context.Context, ts *series.TimeSeries, info *pipeline.StepInfo, next pipeline.Handler) (out *series.TimeSeries, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"run_id": pipeline.RunID(ctx),
					"step":   info.Index,
					"op":     info.Op,
					"panic":  fmt.Sprint(r),
					"stack":  string(debug.Stack()),
				}).Error("Step panicked")
				out, err = nil, fmt.Errorf("panic in %s: %v", info.Op, r)
			}
		}()
		return next(ctx, ts)
	}
}
