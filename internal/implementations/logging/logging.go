package logging

import (
	"context"
	"medremind/internal/core/domain/logging"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	// Errors are forwarded to Sentry when set.
	reportErrors bool
}

func NewZapLogger(level string, reportErrors bool) *ZapLogger {
	config := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			panic("Could not parse log level.")
		}
		config.Level = zap.NewAtomicLevelAt(parsed)
	}
	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("Could not create Zap logger.")
	}
	sugar := logger.Sugar()
	return &ZapLogger{logger: logger, sugar: sugar, reportErrors: reportErrors}
}

func (l *ZapLogger) Sync() {
	l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Debugw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Infow(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Warnw(msg, prepareArgs(entries...)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Errorw(msg, prepareArgs(entries...)...)
	if l.reportErrors {
		report(msg, entries...)
	}
}

func report(msg string, entries ...logging.LogEntry) {
	sentry.WithScope(func(scope *sentry.Scope) {
		var reported error
		for _, e := range entries {
			if err, ok := e.Value.(error); ok && reported == nil {
				reported = err
				continue
			}
			scope.SetExtra(e.Key, e.Value)
		}
		if reported != nil {
			scope.SetExtra("msg", msg)
			sentry.CaptureException(reported)
			return
		}
		sentry.CaptureMessage(msg)
	})
}

func prepareArgs(entries ...logging.LogEntry) []interface{} {
	args := make([]interface{}, 0, len(entries)*2)
	for _, e := range entries {
		args = append(args, e.Key, e.Value)
	}
	return args
}
