// Package pipeline runs a configured sequence of series operations.
//
// Each step is a Handler. A Runner wraps every step in its interceptors,
// outermost first, the way a gRPC server chains unary interceptors, and
// runs the steps in order under one run ID.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tejusbharadwaj/tseries/internal/series"
)

// Handler runs one step over a series.
type Handler func(ctx context.Context, ts *series.TimeSeries) (*series.TimeSeries, error)

// StepInfo describes the step an Interceptor is wrapping.
type StepInfo struct {
	Index int
	Op    string
}

// Interceptor wraps a step. It must call next to run the step.
type Interceptor func(ctx context.Context, ts *series.TimeSeries, info *StepInfo, next Handler) (*series.TimeSeries, error)

// Step is a named Handler.
type Step struct {
	Op      string
	Handler Handler
}

type contextKey string

const runIDKey contextKey = "runID"

// WithRunID returns ctx carrying id as the pipeline run ID.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID returns the run ID carried by ctx, or "" outside a run.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

func generateRunID() string {
	return uuid.NewString()
}

type Runner struct {
	steps        []Step
	interceptors []Interceptor
}

// NewRunner returns a Runner for steps. interceptors[0] is the outermost.
func NewRunner(steps []Step, interceptors ...Interceptor) *Runner {
	return &Runner{steps: steps, interceptors: interceptors}
}

// Steps returns the number of steps.
func (r *Runner) Steps() int { return len(r.steps) }

// Run applies every step to ts in order. ctx is checked before each step;
// a run that already carries a run ID keeps it.
func (r *Runner) Run(ctx context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
	if RunID(ctx) == "" {
		ctx = WithRunID(ctx, generateRunID())
	}

	out := ts
	for i, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %s stopped before step %d: %w", RunID(ctx), i, err)
		}
		info := &StepInfo{Index: i, Op: step.Op}
		next, err := r.chain(info, step.Handler)(ctx, out)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		out = next
	}
	return out, nil
}

func (r *Runner) chain(info *StepInfo, h Handler) Handler {
	for i := len(r.interceptors) - 1; i >= 0; i-- {
		interceptor, next := r.interceptors[i], h
		h = func(ctx context.Context, ts *series.TimeSeries) (*series.TimeSeries, error) {
			return interceptor(ctx, ts, info, next)
		}
	}
	return h
}
