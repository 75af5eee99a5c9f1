package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
)

// ErrSDKUnavailable indicates the SDK entry point was not registered after
// the external resources finished loading.
var ErrSDKUnavailable = errors.New("checkout SDK is unavailable: no session factory registered after resource load")

// Config is the static tuple a session is constructed with.
type Config struct {
	Mode      string
	APIKey    string
	ReturnURL string
}

// Identity is the customer block passed to ConfigureCheckout.
type Identity struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Session is the handle to an initialized checkout client. One session is
// shared for the process lifetime.
type Session interface {
	// InjectCheckout performs the provider's one-time setup call.
	InjectCheckout(ctx context.Context) error
	// ConfigureCheckout attaches the customer identity to the session.
	ConfigureCheckout(ctx context.Context, customer Identity) error
	// Payment submits a payment request and returns the provider response.
	Payment(ctx context.Context, payload model.Payload) (model.Response, error)
}

// Factory constructs a Session from the static configuration.
type Factory func(cfg Config) (Session, error)

// ResourceLoadError reports a failed external resource fetch.
type ResourceLoadError struct {
	URL string
	Err error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("could not load resource %s: %v", e.URL, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }

// APIError is a provider transport failure carrying the HTTP status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("checkout API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("checkout API error (status %d)", e.StatusCode)
}

// The registry is the Go stand-in for the global the externally loaded
// scripts register their SDK on. Loading resources makes the provider code
// available; registering a factory makes it constructible.
var (
	registryMu sync.RWMutex
	factory    Factory
)

// Register installs the process-wide session factory. Later registrations
// replace earlier ones.
func Register(f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factory = f
}

// Unregister clears the factory. Intended for tests.
func Unregister() {
	registryMu.Lock()
	defer registryMu.Unlock()
	factory = nil
}

func registeredFactory() Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return factory
}
