package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetHealth_NoTrafficDefaultsHealthy(t *testing.T) {
	m := NewMonitor()
	h := m.GetHealth("cash")

	assert.Equal(t, StatusHealthy, h.Status)
	assert.Equal(t, 1.0, h.HealthScore)
	assert.Equal(t, 0, h.TotalRecent)
}

func TestGetHealth_StatusThresholds(t *testing.T) {
	tests := []struct {
		name      string
		successes int
		failures  int
		status    Status
		score     float64
	}{
		{"all successes", 10, 0, StatusHealthy, 1.0},
		{"exactly at degraded threshold", 5, 5, StatusHealthy, 0.5},
		{"below degraded threshold", 4, 6, StatusDegraded, 0.4},
		{"exactly at suspended threshold", 2, 8, StatusDegraded, 0.2},
		{"below suspended threshold", 1, 9, StatusSuspended, 0.1},
		{"all failures", 0, 10, StatusSuspended, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitorWithConfig(50, 10*time.Minute)
			for i := 0; i < tt.successes; i++ {
				m.RecordOutcome("spei", true)
			}
			for i := 0; i < tt.failures; i++ {
				m.RecordOutcome("spei", false)
			}

			h := m.GetHealth("spei")
			assert.Equal(t, tt.status, h.Status)
			assert.InDelta(t, tt.score, h.HealthScore, 0.001)
			assert.Equal(t, tt.successes, h.SuccessCount)
			assert.Equal(t, tt.failures, h.FailureCount)
		})
	}
}

func TestRecordOutcome_WindowSizeKeepsMostRecent(t *testing.T) {
	m := NewMonitorWithConfig(5, 10*time.Minute)

	for i := 0; i < 5; i++ {
		m.RecordOutcome("card", false)
	}
	for i := 0; i < 5; i++ {
		m.RecordOutcome("card", true)
	}

	h := m.GetHealth("card")
	assert.Equal(t, 5, h.TotalRecent)
	assert.Equal(t, 5, h.SuccessCount)
	assert.Equal(t, 0, h.FailureCount)
	assert.Equal(t, StatusHealthy, h.Status)
}

func TestGetHealth_ExpiredOutcomesDropOut(t *testing.T) {
	m := NewMonitorWithConfig(50, 10*time.Millisecond)
	m.RecordOutcome("cash", false)

	time.Sleep(20 * time.Millisecond)

	h := m.GetHealth("cash")
	assert.Equal(t, 0, h.TotalRecent)
	assert.Equal(t, StatusHealthy, h.Status)
}

func TestGetAllHealth(t *testing.T) {
	m := NewMonitorWithConfig(50, 10*time.Minute)
	m.RecordOutcome("cash", true)
	m.RecordOutcome("spei", false)

	healths := m.GetAllHealth()
	assert.Len(t, healths, 2)

	byMethod := make(map[string]MethodHealth, len(healths))
	for _, h := range healths {
		byMethod[h.Method] = h
	}
	assert.Equal(t, StatusHealthy, byMethod["cash"].Status)
	assert.Equal(t, StatusSuspended, byMethod["spei"].Status)
}

func TestMonitor_MethodsAreIndependent(t *testing.T) {
	m := NewMonitorWithConfig(50, 10*time.Minute)
	for i := 0; i < 10; i++ {
		m.RecordOutcome("cash", false)
	}
	m.RecordOutcome("spei", true)

	assert.Equal(t, StatusSuspended, m.GetHealth("cash").Status)
	assert.Equal(t, StatusHealthy, m.GetHealth("spei").Status)
}
