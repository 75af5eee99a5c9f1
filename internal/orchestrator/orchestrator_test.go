package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/browser"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/checkout"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/classify"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/health"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/method"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/payload"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/tracking"
)

// recordingBusySink counts busy-state transitions.
type recordingBusySink struct {
	mu     sync.Mutex
	begins int
	ends   int
}

func (s *recordingBusySink) Begin(string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begins++
}

func (s *recordingBusySink) End(string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ends++
}

func (s *recordingBusySink) Counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins, s.ends
}

func validRequest() Request {
	return Request{
		Amount:     100,
		FullName:   "Juan Perez Gomez",
		Email:      "juan@example.com",
		CustomerID: "cust-1",
	}
}

func newTestOrchestrator(t *testing.T, session *checkout.MockSession) (*Orchestrator, *recordingBusySink) {
	t.Helper()

	trackingSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(trackingSrv.Close)

	factory, _ := checkout.NewMockFactory(session)
	manager := checkout.NewManager(checkout.Config{Mode: "stage"}, checkout.NewLoader(nil, nil), factory)
	collector := browser.NewStaticCollector(model.BrowserInfo{})
	builder := payload.NewBuilder("https://shop.example.com/#/payment-success", collector)
	reporter := tracking.NewReporter(trackingSrv.URL+"/", trackingSrv.Client())
	busy := &recordingBusySink{}

	orch := New(method.All(), Deps{
		Manager:  manager,
		Builder:  builder,
		Reporter: reporter,
		Monitor:  health.NewMonitorWithConfig(50, 10*time.Minute),
		Busy:     busy,
		Timeout:  5 * time.Second,
	})
	return orch, busy
}

func TestExecute_RedirectSuccess(t *testing.T) {
	session := checkout.NewMockSession(checkout.MockConfig{
		Response: model.Response{"checkout_url": "https://pay.example.com/x"},
	})
	orch, busy := newTestOrchestrator(t, session)

	result, err := orch.Execute(context.Background(), "card", validRequest())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, string(classify.KindRedirect), result.Kind)
	assert.Equal(t, "https://pay.example.com/x", result.RedirectURL)
	assert.Equal(t, "Redirecting to the payment page...", result.Message)
	assert.NotEmpty(t, result.OrderReference)

	begins, ends := busy.Counts()
	assert.Equal(t, 1, begins)
	assert.Equal(t, 1, ends)

	stored, ok := orch.GetResult(result.OrderReference)
	require.True(t, ok)
	assert.Equal(t, result, stored)
}

func TestExecute_ConfiguresCustomerWhenDescriptorSaysSo(t *testing.T) {
	session := checkout.NewMockSession(checkout.MockConfig{Response: model.Response{}})
	orch, _ := newTestOrchestrator(t, session)

	_, err := orch.Execute(context.Background(), "card", validRequest())
	require.NoError(t, err)

	configured := session.Configured()
	require.Len(t, configured, 1)
	assert.Equal(t, checkout.Identity{
		FirstName: "Juan",
		LastName:  "Perez Gomez",
		Email:     "juan@example.com",
	}, configured[0])
}

func TestExecute_CashSkipsConfigure(t *testing.T) {
	session := checkout.NewMockSession(checkout.MockConfig{Response: model.Response{"reference": "R1"}})
	orch, _ := newTestOrchestrator(t, session)

	result, err := orch.Execute(context.Background(), "cash", validRequest())
	require.NoError(t, err)

	assert.Empty(t, session.Configured())
	assert.True(t, result.Success)
	assert.Equal(t, string(classify.KindReference), result.Kind)
	assert.Contains(t, result.Message, "R1")
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		message string
	}{
		{"amount below minimum", func(r *Request) { r.Amount = 0.5 }, "The minimum amount is $1.00 MXN"},
		{"zero amount", func(r *Request) { r.Amount = 0 }, "The minimum amount is $1.00 MXN"},
		{"missing name", func(r *Request) { r.FullName = "" }, "Please fill in all the fields"},
		{"missing email", func(r *Request) { r.Email = "" }, "Please fill in all the fields"},
		{"malformed email", func(r *Request) { r.Email = "not-an-email" }, "Please fill in all the fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := checkout.NewMockSession(checkout.MockConfig{Response: model.Response{}})
			orch, busy := newTestOrchestrator(t, session)

			req := validRequest()
			tt.mutate(&req)
			result, err := orch.Execute(context.Background(), "card", req)
			require.NoError(t, err)

			assert.False(t, result.Success)
			assert.Equal(t, KindValidationError, result.Kind)
			assert.Equal(t, tt.message, result.Message)
			assert.Empty(t, session.Payments(), "no payment call must happen on validation failure")

			begins, ends := busy.Counts()
			assert.Equal(t, 1, begins)
			assert.Equal(t, 1, ends)
		})
	}
}

func TestExecute_UnknownMethod(t *testing.T) {
	session := checkout.NewMockSession(checkout.MockConfig{})
	orch, _ := newTestOrchestrator(t, session)

	_, err := orch.Execute(context.Background(), "crypto", validRequest())
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestExecute_ProviderErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"status 500", &checkout.APIError{StatusCode: 500}, "The payment provider reported an internal error. Try again later."},
		{"status 401", &checkout.APIError{StatusCode: 401}, "Authentication with the payment provider failed."},
		{"status 400", &checkout.APIError{StatusCode: 400}, "The payment request was rejected as invalid."},
		{"plain error", errors.New("conn reset"), "Could not process the payment. Try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := checkout.NewMockSession(checkout.MockConfig{PaymentErr: tt.err})
			orch, busy := newTestOrchestrator(t, session)

			result, err := orch.Execute(context.Background(), "card", validRequest())
			require.NoError(t, err)

			assert.False(t, result.Success)
			assert.Equal(t, KindOrchestrationError, result.Kind)
			assert.Equal(t, tt.message, result.Message)

			_, ends := busy.Counts()
			assert.Equal(t, 1, ends, "busy state must be released on failure")
		})
	}
}

func TestExecute_SDKUnavailable(t *testing.T) {
	checkout.Unregister()
	manager := checkout.NewManager(checkout.Config{Mode: "stage"}, checkout.NewLoader(nil, nil), nil)
	collector := browser.NewStaticCollector(model.BrowserInfo{})
	orch := New(method.All(), Deps{
		Manager:  manager,
		Builder:  payload.NewBuilder("https://shop.example.com", collector),
		Reporter: tracking.NewReporter("http://127.0.0.1:1/", nil),
		Monitor:  health.NewMonitorWithConfig(50, 10*time.Minute),
	})

	result, err := orch.Execute(context.Background(), "spei", validRequest())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "The payment system is not available. Try again later.", result.Message)
}

func TestExecute_TrackingFailureIsNonFatal(t *testing.T) {
	session := checkout.NewMockSession(checkout.MockConfig{Response: model.Response{"reference": "R7"}})

	factory, _ := checkout.NewMockFactory(session)
	manager := checkout.NewManager(checkout.Config{Mode: "stage"}, checkout.NewLoader(nil, nil), factory)
	collector := browser.NewStaticCollector(model.BrowserInfo{})
	orch := New(method.All(), Deps{
		Manager: manager,
		Builder: payload.NewBuilder("https://shop.example.com", collector),
		// Nothing listens here; every tracking report fails.
		Reporter: tracking.NewReporter("http://127.0.0.1:1/", &http.Client{Timeout: time.Second}),
		Monitor:  health.NewMonitorWithConfig(50, 10*time.Minute),
	})

	result, err := orch.Execute(context.Background(), "cash", validRequest())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "R7")
}

func TestExecute_RecordsHealthOutcomes(t *testing.T) {
	session := checkout.NewMockSession(checkout.MockConfig{Response: model.Response{"checkout_url": "https://x"}})
	orch, _ := newTestOrchestrator(t, session)

	_, err := orch.Execute(context.Background(), "card", validRequest())
	require.NoError(t, err)

	session.SetResponse(model.Response{"status": 500, "message": "boom"})
	_, err = orch.Execute(context.Background(), "card", validRequest())
	require.NoError(t, err)

	h := orch.HealthMonitor().GetHealth("card")
	assert.Equal(t, 2, h.TotalRecent)
	assert.Equal(t, 1, h.SuccessCount)
	assert.Equal(t, 1, h.FailureCount)
}

func TestExecute_HardErrorResponseBecomesFailureResult(t *testing.T) {
	session := checkout.NewMockSession(checkout.MockConfig{Response: model.Response{"status": 500, "message": "boom"}})
	orch, _ := newTestOrchestrator(t, session)

	result, err := orch.Execute(context.Background(), "card", validRequest())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, string(classify.KindHardError), result.Kind)
	assert.Equal(t, "boom", result.Message)
}

func TestExecute_PayloadCarriesMethodDiscriminator(t *testing.T) {
	session := checkout.NewMockSession(checkout.MockConfig{Response: model.Response{}})
	orch, _ := newTestOrchestrator(t, session)

	_, err := orch.Execute(context.Background(), "spei", validRequest())
	require.NoError(t, err)

	payments := session.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, "Spei", payments[0].PaymentMethod)
	assert.Equal(t, 100.0, payments[0].Amount)
}
