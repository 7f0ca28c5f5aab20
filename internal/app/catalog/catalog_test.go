package catalog

import (
	"errors"
	"medremind/internal/core/domain/logging"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCronLogger(t *testing.T) {
	// Setup ---
	log := logging.NewFakeLogger()
	logger := cronLogger{log: log}
	err := errors.New("boom")

	// Exercise ---
	logger.Info("schedule", "now", 1, "entry", 2, "dangling")
	logger.Error(err, "panic", "job", "refresh")

	// Verify ---
	assert.Equal(t, []logging.FakeLoggerRecord{
		{
			Level:   logging.DEBUG,
			Msg:     "Cron: schedule",
			Entries: []logging.LogEntry{logging.Entry("now", 1), logging.Entry("entry", 2)},
		},
		{
			Level:   logging.ERROR,
			Msg:     "Cron: panic",
			Entries: []logging.LogEntry{logging.Entry("job", "refresh"), logging.Entry("err", err)},
		},
	}, log.Logged)
}

func TestParserAcceptsDescriptors(t *testing.T) {
	for _, spec := range []string{"@every 5m", "@hourly", "*/10 * * * *"} {
		t.Run(spec, func(t *testing.T) {
			_, err := parser.Parse(spec)
			assert.Nil(t, err)
		})
	}
}
