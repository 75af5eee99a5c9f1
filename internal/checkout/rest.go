package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
)

// RESTSession talks to the provider's checkout API directly over HTTP. It is
// the server-side counterpart of the script-injected client.
type RESTSession struct {
	cfg     Config
	baseURL string
	client  *http.Client
}

// NewRESTFactory returns a Factory producing REST-backed sessions against the
// given API base URL.
func NewRESTFactory(baseURL string, client *http.Client) Factory {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return func(cfg Config) (Session, error) {
		if baseURL == "" {
			return nil, fmt.Errorf("checkout base URL is not configured")
		}
		return &RESTSession{cfg: cfg, baseURL: baseURL, client: client}, nil
	}
}

func (s *RESTSession) InjectCheckout(ctx context.Context) error {
	body := map[string]string{
		"mode":       s.cfg.Mode,
		"return_url": s.cfg.ReturnURL,
	}
	_, err := s.post(ctx, "checkout/inject", body)
	return err
}

func (s *RESTSession) ConfigureCheckout(ctx context.Context, customer Identity) error {
	body := map[string]any{"customer": customer}
	_, err := s.post(ctx, "checkout/customer", body)
	return err
}

func (s *RESTSession) Payment(ctx context.Context, payload model.Payload) (model.Response, error) {
	return s.post(ctx, "payments", payload)
}

// post submits JSON and returns the decoded response object. A body that
// parses as JSON is returned even on non-2xx status: provider errors travel
// inside the response and belong to the classifier, not the transport.
func (s *RESTSession) post(ctx context.Context, endpoint string, payload any) (model.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(respBody, &out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: model.Response(out).Str("message")}
	}

	return model.Response(out), nil
}
