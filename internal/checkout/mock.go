package checkout

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
)

// MockConfig holds configuration for creating a mock session.
type MockConfig struct {
	// Response is returned from every Payment call.
	Response model.Response
	// PaymentErr, when set, is returned instead of a response.
	PaymentErr error
	// InjectErr, when set, makes InjectCheckout fail.
	InjectErr error
	// ConfigureErr, when set, makes ConfigureCheckout fail.
	ConfigureErr error
}

// MockSession simulates the checkout SDK with canned behavior. It records
// every interaction so tests can assert on sequencing and payload content.
type MockSession struct {
	cfg MockConfig

	mu         sync.Mutex
	injected   int
	configured []Identity
	payments   []model.Payload
}

// NewMockSession creates a mock session from the given config.
func NewMockSession(cfg MockConfig) *MockSession {
	return &MockSession{cfg: cfg}
}

// NewMockFactory returns a Factory handing out the given mock session and a
// counter of how many times construction ran.
func NewMockFactory(session *MockSession) (Factory, *atomic.Int32) {
	var constructed atomic.Int32
	return func(cfg Config) (Session, error) {
		constructed.Add(1)
		return session, nil
	}, &constructed
}

func (m *MockSession) InjectCheckout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.InjectErr != nil {
		return m.cfg.InjectErr
	}
	m.injected++
	return nil
}

func (m *MockSession) ConfigureCheckout(ctx context.Context, customer Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.ConfigureErr != nil {
		return m.cfg.ConfigureErr
	}
	m.configured = append(m.configured, customer)
	return nil
}

func (m *MockSession) Payment(ctx context.Context, payload model.Payload) (model.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.PaymentErr != nil {
		return nil, m.cfg.PaymentErr
	}
	m.payments = append(m.payments, payload)
	if m.cfg.Response == nil {
		return model.Response{}, nil
	}
	return m.cfg.Response, nil
}

// SetResponse swaps the canned payment response.
func (m *MockSession) SetResponse(resp model.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Response = resp
	m.cfg.PaymentErr = nil
}

// SetPaymentErr makes subsequent Payment calls fail.
func (m *MockSession) SetPaymentErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.PaymentErr = err
}

// InjectCount returns how many times InjectCheckout succeeded.
func (m *MockSession) InjectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.injected
}

// Configured returns the identities passed to ConfigureCheckout.
func (m *MockSession) Configured() []Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Identity(nil), m.configured...)
}

// Payments returns the payloads submitted so far.
func (m *MockSession) Payments() []model.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Payload(nil), m.payments...)
}
