package events

import (
	"context"
	"medremind/internal/core/domain/logging"
	eventpublisher "medremind/internal/implementations/event_publisher"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/assert"
)

func TestEventsHandlerAlwaysServesReminderStream(t *testing.T) {
	// Setup ---
	log := logging.NewFakeLogger()
	server := sse.New()
	server.AutoStream = false
	defer server.Close()
	eventpublisher.NewSSE(log, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/reminders/events?stream=other", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	// Exercise ---
	New(log, server).ServeHTTP(rr, req)

	// Verify ---
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, eventpublisher.STREAM, req.URL.Query().Get("stream"))
}
