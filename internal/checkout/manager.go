package checkout

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// State is the session lifecycle phase.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Manager owns the single shared checkout session. Construction happens
// lazily on first use: resources load, the registered factory builds the
// session, and InjectCheckout runs once. Concurrent first callers share one
// in-flight initialization.
//
// A failed initialization is retried on the next call. A session that reached
// ready is never evicted, even if the underlying SDK later misbehaves;
// callers get the same handle back on retry.
type Manager struct {
	cfg     Config
	loader  *Loader
	factory Factory

	mu      sync.Mutex
	state   State
	session Session
	lastErr error
	group   singleflight.Group
}

// NewManager creates a manager bound to one configuration tuple. A nil
// factory falls back to the process-wide registry at initialization time.
func NewManager(cfg Config, loader *Loader, factory Factory) *Manager {
	return &Manager{cfg: cfg, loader: loader, factory: factory}
}

// EnsureReady returns the shared session, initializing it on first call.
func (m *Manager) EnsureReady(ctx context.Context) (Session, error) {
	m.mu.Lock()
	if m.state == StateReady {
		s := m.session
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("init", func() (any, error) {
		m.mu.Lock()
		if m.state == StateReady {
			s := m.session
			m.mu.Unlock()
			return s, nil
		}
		m.setState(StateInitializing)
		m.mu.Unlock()

		s, err := m.initialize(ctx)
		m.mu.Lock()
		defer m.mu.Unlock()
		if err != nil {
			m.lastErr = err
			m.setState(StateFailed)
			return nil, err
		}
		m.session = s
		m.setState(StateReady)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Session), nil
}

// State returns the current lifecycle phase.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError returns the most recent initialization failure, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Manager) initialize(ctx context.Context) (Session, error) {
	if err := m.loader.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	f := m.factory
	if f == nil {
		f = registeredFactory()
	}
	if f == nil {
		return nil, ErrSDKUnavailable
	}

	session, err := f(m.cfg)
	if err != nil {
		return nil, err
	}

	if err := session.InjectCheckout(ctx); err != nil {
		return nil, err
	}

	slog.Info("checkout_session_ready", "mode", m.cfg.Mode)
	return session, nil
}

// setState must be called with m.mu held.
func (m *Manager) setState(s State) {
	m.state = s
}
