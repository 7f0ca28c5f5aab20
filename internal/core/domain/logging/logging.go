package logging

import "context"

type LogEntry struct {
	Key   string
	Value interface{}
}

func Entry(k string, v interface{}) LogEntry {
	return LogEntry{Key: k, Value: v}
}

type Logger interface {
	Debug(ctx context.Context, msg string, entries ...LogEntry)
	Info(ctx context.Context, msg string, entries ...LogEntry)
	Warning(ctx context.Context, msg string, entries ...LogEntry)
	Error(ctx context.Context, msg string, entries ...LogEntry)
}

// Error logs an error nobody expected to happen.
func Error(ctx context.Context, log Logger, err error, entries ...LogEntry) {
	args := make([]LogEntry, 0, len(entries)+1)
	args = append(args, Entry("err", err))
	args = append(args, entries...)
	log.Error(ctx, "Unexpected error occurred.", args...)
}
