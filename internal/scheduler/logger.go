package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes cron's own logging through zap
type cronLogger struct {
	sugar *zap.SugaredLogger
}

// NewCronLogger wraps a zap logger as a cron.Logger
func NewCronLogger(l *zap.Logger) cron.Logger {
	return &cronLogger{sugar: l.Named("cron").Sugar()}
}

// Info is noisy in cron (every wake up), so it goes to debug
func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
