package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shipdesk/internal/features/tracking/domain"
	"shipdesk/internal/features/tracking/ports"
)

const maxResponseBody = 2048

// StatusPayload is the JSON document sent downstream for every status change.
type StatusPayload struct {
	TrackingNumber string       `json:"tracking_number"`
	ShipmentID     string       `json:"shipment_id"`
	Status         string       `json:"status"`
	PreviousStatus string       `json:"previous_status"`
	Event          EventPayload `json:"event"`
	Timestamp      time.Time    `json:"timestamp"`
}

// EventPayload describes the activity that caused the change.
type EventPayload struct {
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// NewStatusPayload builds the downstream document for a change.
func NewStatusPayload(change domain.StatusChange) StatusPayload {
	p := StatusPayload{
		TrackingNumber: change.TrackingNumber,
		ShipmentID:     change.ShipmentID,
		Status:         string(change.Status),
		PreviousStatus: string(change.PreviousStatus),
		Event: EventPayload{
			Description: change.Latest.StatusDescription,
			Location:    formatLocation(change.Latest.Location),
		},
		Timestamp: change.ChangedAt.UTC(),
	}
	if ts, err := change.Latest.Timestamp(); err == nil {
		p.Event.Timestamp = &ts
	}
	return p
}

func formatLocation(l domain.Location) string {
	var parts []string
	for _, s := range []string{l.City, l.State, l.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// WebhookNotifier POSTs status changes to the workflow platform.
type WebhookNotifier struct {
	client *http.Client
	url    string
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(client *http.Client, url string) *WebhookNotifier {
	return &WebhookNotifier{client: client, url: url}
}

// Notify implements ports.Notifier. Any non-2xx answer is a failure.
func (n *WebhookNotifier) Notify(ctx context.Context, change domain.StatusChange) ports.NotifyResult {
	body, err := json.Marshal(NewStatusPayload(change))
	if err != nil {
		return ports.NotifyResult{Err: fmt.Errorf("failed to encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return ports.NotifyResult{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return ports.NotifyResult{Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	res := ports.NotifyResult{
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}
	if !res.Success {
		res.Err = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return res
}
