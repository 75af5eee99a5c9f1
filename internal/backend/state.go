package backend

import (
	"context"
	"sync"
)

// WalletState holds the last-fetched wallet snapshot for the session. Fetch
// failures populate the error field; they are never returned to the caller.
type WalletState struct {
	client *Client

	mu         sync.RWMutex
	platformID int64
	token      string
	snapshot   WalletSnapshot
	errMsg     string
}

// NewWalletState creates an empty wallet state bound to a backend client.
func NewWalletState(client *Client) *WalletState {
	return &WalletState{client: client}
}

// SetAuth stores the platform session credentials used by Refresh.
func (s *WalletState) SetAuth(platformID int64, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.platformID = platformID
	s.token = token
}

// Refresh re-fetches the wallet snapshot. Missing credentials or backend
// failures only set the error field.
func (s *WalletState) Refresh(ctx context.Context) {
	s.mu.RLock()
	platformID, token := s.platformID, s.token
	s.mu.RUnlock()

	if platformID == 0 || token == "" {
		s.setError("missing platform id or token")
		return
	}

	snapshot, err := s.client.FetchWallets(ctx, platformID, token)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.snapshot = snapshot
	s.errMsg = ""
}

// Snapshot returns the current wallet view and any recorded error message.
func (s *WalletState) Snapshot() (WalletSnapshot, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.errMsg
}

func (s *WalletState) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

// TransactionState records the outcome of the most recent transaction call.
// Unlike wallet fetches, a failed creation propagates to the caller after the
// message is recorded.
type TransactionState struct {
	client *Client

	mu     sync.RWMutex
	last   map[string]any
	errMsg string
}

// NewTransactionState creates an empty transaction state.
func NewTransactionState(client *Client) *TransactionState {
	return &TransactionState{client: client}
}

// Create posts the transaction, records the result, and returns it.
func (s *TransactionState) Create(ctx context.Context, req TransactionRequest) (map[string]any, error) {
	created, err := s.client.CreateTransaction(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errMsg = "error creating transaction: " + err.Error()
		return nil, err
	}
	s.last = created
	s.errMsg = ""
	return created, nil
}

// Last returns the most recent created transaction and error message.
func (s *TransactionState) Last() (map[string]any, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.errMsg
}
