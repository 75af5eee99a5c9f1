package health

import (
	"sync"
	"time"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/config"
)

// Status represents the observed health of a payment method.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusSuspended Status = "suspended"
)

// MethodHealth contains the current health information for a payment method.
// It is reporting-only: the orchestrator never gates payments on it.
type MethodHealth struct {
	Method       string    `json:"method"`
	HealthScore  float64   `json:"health_score"`
	Status       Status    `json:"status"`
	TotalRecent  int       `json:"total_recent"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	LastUpdated  time.Time `json:"last_updated"`
}

// outcome records a single classified payment outcome.
type outcome struct {
	success   bool
	timestamp time.Time
}

// Monitor tracks per-method outcomes using a sliding window.
type Monitor struct {
	mu             sync.RWMutex
	windows        map[string][]outcome
	windowSize     int
	windowDuration time.Duration
}

// NewMonitor creates a health monitor with default configuration.
func NewMonitor() *Monitor {
	return &Monitor{
		windows:        make(map[string][]outcome),
		windowSize:     config.HealthWindowSize,
		windowDuration: time.Duration(config.HealthWindowDurationMinutes) * time.Minute,
	}
}

// NewMonitorWithConfig creates a monitor with custom window settings for testing.
func NewMonitorWithConfig(windowSize int, windowDuration time.Duration) *Monitor {
	return &Monitor{
		windows:        make(map[string][]outcome),
		windowSize:     windowSize,
		windowDuration: windowDuration,
	}
}

// RecordOutcome records a classified payment outcome for a method.
func (m *Monitor) RecordOutcome(method string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.windows[method] = append(m.windows[method], outcome{
		success:   success,
		timestamp: time.Now(),
	})

	m.pruneWindow(method)
}

// GetHealth returns the current health information for a method.
func (m *Monitor) GetHealth(method string) MethodHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()

	window := m.getActiveWindow(method)

	if len(window) == 0 {
		return MethodHealth{
			Method:      method,
			HealthScore: 1.0, // Methods without traffic default to healthy
			Status:      StatusHealthy,
			LastUpdated: time.Now(),
		}
	}

	succeeded := 0
	failed := 0
	for _, o := range window {
		if o.success {
			succeeded++
		} else {
			failed++
		}
	}

	total := len(window)
	score := float64(succeeded) / float64(total)

	status := StatusHealthy
	if score < config.SuspendedThreshold {
		status = StatusSuspended
	} else if score < config.DegradedThreshold {
		status = StatusDegraded
	}

	return MethodHealth{
		Method:       method,
		HealthScore:  score,
		Status:       status,
		TotalRecent:  total,
		SuccessCount: succeeded,
		FailureCount: failed,
		LastUpdated:  time.Now(),
	}
}

// GetAllHealth returns health information for all tracked methods.
func (m *Monitor) GetAllHealth() []MethodHealth {
	m.mu.RLock()
	methods := make([]string, 0, len(m.windows))
	for name := range m.windows {
		methods = append(methods, name)
	}
	m.mu.RUnlock()

	healths := make([]MethodHealth, 0, len(methods))
	for _, name := range methods {
		healths = append(healths, m.GetHealth(name))
	}
	return healths
}

// getActiveWindow returns outcomes within the time window, already under read lock.
func (m *Monitor) getActiveWindow(method string) []outcome {
	window := m.windows[method]
	if len(window) == 0 {
		return nil
	}

	cutoff := time.Now().Add(-m.windowDuration)
	active := make([]outcome, 0, len(window))
	for _, o := range window {
		if o.timestamp.After(cutoff) {
			active = append(active, o)
		}
	}

	// Also limit by window size (most recent N)
	if len(active) > m.windowSize {
		active = active[len(active)-m.windowSize:]
	}

	return active
}

// pruneWindow removes expired outcomes, called under write lock.
func (m *Monitor) pruneWindow(method string) {
	cutoff := time.Now().Add(-m.windowDuration)
	window := m.windows[method]

	pruned := make([]outcome, 0, len(window))
	for _, o := range window {
		if o.timestamp.After(cutoff) {
			pruned = append(pruned, o)
		}
	}

	// Keep only last windowSize entries
	if len(pruned) > m.windowSize {
		pruned = pruned[len(pruned)-m.windowSize:]
	}

	m.windows[method] = pruned
}
