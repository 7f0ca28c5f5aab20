package voicegateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gateway struct {
	server  *httptest.Server
	calls   []Call
	headers []http.Header
	status  int
	lock    sync.Mutex
	baseURL url.URL
}

func newGateway(t *testing.T, status int) *gateway {
	g := &gateway{status: status}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calls", r.URL.Path)
		var call Call
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&call))
		g.lock.Lock()
		g.calls = append(g.calls, call)
		g.headers = append(g.headers, r.Header.Clone())
		g.lock.Unlock()
		w.WriteHeader(g.status)
		w.Write([]byte(`{"detail": "nope"}`))
	}))
	t.Cleanup(g.server.Close)
	u, err := url.Parse(g.server.URL)
	require.Nil(t, err)
	g.baseURL = *u
	return g
}

func TestPlaceCallSuccess(t *testing.T) {
	// Setup ---
	g := newGateway(t, http.StatusAccepted)
	client := New(g.baseURL, "secret", time.Second, 10)
	call := Call{
		Kind:           KindReminder,
		PhoneNumber:    "+15550100",
		ReminderID:     42,
		Attempt:        1,
		RecipientName:  "Ruth",
		PatientName:    "Ruth",
		MedicationName: "Metformin",
		Dosage:         "500mg",
		ScheduledAt:    time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}

	// Exercise ---
	firstID, err := client.PlaceCall(context.Background(), call)
	require.Nil(t, err)
	secondID, err := client.PlaceCall(context.Background(), call)
	require.Nil(t, err)

	// Verify ---
	require.Len(t, g.calls, 2)
	require.NotEqual(t, firstID, secondID)
	require.Equal(t, firstID, g.calls[0].DispatchID)
	require.Equal(t, secondID, g.calls[1].DispatchID)
	require.Equal(t, "Metformin", g.calls[0].MedicationName)
	require.Equal(t, int64(42), g.calls[0].ReminderID)
	require.Equal(t, "Bearer secret", g.headers[0].Get("authorization"))
}

func TestPlaceCallFailure(t *testing.T) {
	// Setup ---
	g := newGateway(t, http.StatusBadGateway)
	client := New(g.baseURL, "", time.Second, 10)

	// Exercise ---
	_, err := client.PlaceCall(context.Background(), Call{Kind: KindCaregiverAlert, PhoneNumber: "+15550200"})

	// Verify ---
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "502")
	require.Empty(t, g.headers[0].Get("authorization"))
}

func TestPlaceCallCanceledContext(t *testing.T) {
	// Setup ---
	g := newGateway(t, http.StatusOK)
	client := New(g.baseURL, "", time.Second, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Exercise ---
	_, err := client.PlaceCall(ctx, Call{Kind: KindReminder})

	// Verify ---
	require.NotNil(t, err)
	require.Empty(t, g.calls)
}
