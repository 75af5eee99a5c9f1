package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the adjacent wallet/transaction backend. It is not
// payment-critical: the checkout flow works without it.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, client: client}
}

// PaymentMethod is one payment method attached to a wallet.
type PaymentMethod struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Wallet is one wallet row. The paymetsMethods spelling is the backend's
// wire format, kept verbatim.
type Wallet struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	PaymentMethods []PaymentMethod `json:"paymetsMethods"`
}

// User is the wallet owner returned alongside the wallets.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// WalletSnapshot is the session view of the wallet backend: all wallets, the
// first wallet's payment methods, and the owning user.
type WalletSnapshot struct {
	Wallets []Wallet        `json:"wallets"`
	Methods []PaymentMethod `json:"methods"`
	User    *User           `json:"user"`
}

type walletsEnvelope struct {
	Data struct {
		Wallets []Wallet `json:"wallets"`
		User    *User    `json:"user"`
	} `json:"data"`
}

// FetchWallets loads the wallets for a platform session.
func (c *Client) FetchWallets(ctx context.Context, platformID int64, token string) (WalletSnapshot, error) {
	body := map[string]any{
		"plataformId": platformID,
		"token":       token,
	}

	var envelope walletsEnvelope
	if err := c.postJSON(ctx, "wallets/by-plataform", body, &envelope); err != nil {
		return WalletSnapshot{}, err
	}

	snapshot := WalletSnapshot{
		Wallets: envelope.Data.Wallets,
		User:    envelope.Data.User,
	}
	if len(snapshot.Wallets) > 0 {
		snapshot.Methods = snapshot.Wallets[0].PaymentMethods
	}
	return snapshot, nil
}

// TransactionRequest is the typed body for POST transactions.
type TransactionRequest struct {
	ClientID int64   `json:"clientId"`
	WalletID int64   `json:"walletId"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Token    string  `json:"token"`
	Coin     string  `json:"coin"`
}

// CreateTransaction records a transaction and returns the created row.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (map[string]any, error) {
	var created map[string]any
	if err := c.postJSON(ctx, "transactions", req, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Message != "" {
			return fmt.Errorf("backend error (status %d): %s", resp.StatusCode, errBody.Message)
		}
		return fmt.Errorf("backend error (status %d)", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
