package voicegateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	e "medremind/internal/core/domain/errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type Kind string

const (
	KindReminder       Kind = "reminder"
	KindCaregiverAlert Kind = "caregiver_alert"
)

// Call is one outbound voice call. The gateway renders the wording from these fields.
type Call struct {
	DispatchID     string    `json:"dispatch_id"`
	Kind           Kind      `json:"kind"`
	PhoneNumber    string    `json:"phone_number"`
	ReminderID     int64     `json:"reminder_id,omitempty"`
	Attempt        uint32    `json:"attempt,omitempty"`
	RecipientName  string    `json:"recipient_name"`
	PatientName    string    `json:"patient_name"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	Instructions   string    `json:"instructions,omitempty"`
	ScheduledAt    time.Time `json:"scheduled_at"`
}

type Client struct {
	httpClient http.Client
	baseURL    url.URL
	token      string
	limiter    *rate.Limiter
	newID      func() string
}

func New(baseURL url.URL, token string, timeout time.Duration, ratePerSecond int) *Client {
	if ratePerSecond <= 0 {
		panic(e.NewInvalidStateError("voice gateway rate must be positive"))
	}
	return &Client{
		httpClient: http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      token,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
		newID:      func() string { return uuid.New().String() },
	}
}

// PlaceCall sends the call to the gateway and returns the dispatch id it was sent with.
// Every call gets a fresh dispatch id.
func (c *Client) PlaceCall(ctx context.Context, call Call) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	call.DispatchID = c.newID()

	var body bytes.Buffer
	encoder := json.NewEncoder(&body)
	if err := encoder.Encode(call); err != nil {
		return call.DispatchID, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath("calls").String(), &body)
	if err != nil {
		return call.DispatchID, err
	}
	request.Header.Add("content-type", "application/json")
	if c.token != "" {
		request.Header.Add("authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(request)
	if err != nil {
		return call.DispatchID, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return call.DispatchID, err
		}
		return call.DispatchID, fmt.Errorf("got unsuccessful response from voice gateway (%d): %s", resp.StatusCode, string(body))
	}
	return call.DispatchID, nil
}
