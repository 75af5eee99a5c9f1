package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// report is the wire body for POST trackings/by-uuid.
type report struct {
	TransactionID string `json:"transactionId"`
	Event         string `json:"event"`
	DataEvent     string `json:"dataEvent"`
}

// Reporter sends payment-attempt telemetry to the analytics backend.
type Reporter struct {
	baseURL string
	client  *http.Client
}

// NewReporter creates a reporter against the given backend base URL.
func NewReporter(baseURL string, client *http.Client) *Reporter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Reporter{baseURL: baseURL, client: client}
}

// Report posts one tracking event. The payload travels JSON-stringified in
// dataEvent. An empty transaction id gets a generated UUID.
func (r *Reporter) Report(ctx context.Context, transactionID, event string, payload any) error {
	if transactionID == "" {
		transactionID = uuid.NewString()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal tracking payload: %w", err)
	}

	body, err := json.Marshal(report{
		TransactionID: transactionID,
		Event:         event,
		DataEvent:     string(data),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal tracking body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"trackings/by-uuid", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create tracking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send tracking request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tracking backend returned status %d", resp.StatusCode)
	}
	return nil
}

// BestEffort runs Report and swallows any failure. Telemetry is a designed
// non-blocking side channel: its errors are logged, never propagated, and
// never interrupt the payment.
func (r *Reporter) BestEffort(ctx context.Context, transactionID, event string, payload any) {
	if err := r.Report(ctx, transactionID, event, payload); err != nil {
		slog.Warn("tracking_report_failed",
			"event", event,
			"txn_id", transactionID,
			"error", err,
		)
	}
}
