package logger

import (
	"context"

	"go.uber.org/zap"
)

// TaskInfo identifies one run of a scheduled task for log correlation
type TaskInfo struct {
	Task  string
	RunID string
}

// Fields returns the zap fields describing the run
func (i TaskInfo) Fields() []zap.Field {
	return []zap.Field{
		zap.String("task", i.Task),
		zap.String("run_id", i.RunID),
	}
}

// WithTask returns a context whose *Ctx log lines carry the task run fields
func WithTask(ctx context.Context, info TaskInfo) context.Context {
	return WithFields(ctx, info.Fields()...)
}
