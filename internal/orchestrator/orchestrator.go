package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/checkout"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/classify"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/config"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/health"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/method"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/payload"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/tracking"
)

// ErrUnknownMethod indicates the requested payment method is not configured.
var ErrUnknownMethod = errors.New("unknown payment method")

// Result kinds produced outside response classification.
const (
	KindValidationError    = "validation_error"
	KindOrchestrationError = "orchestration_error"
)

// Request carries the business inputs for one payment attempt.
type Request struct {
	Amount     float64                `json:"amount"`
	FullName   string                 `json:"fullName" validate:"required"`
	Email      string                 `json:"email" validate:"required,email"`
	CustomerID string                 `json:"customerId"`
	Currency   string                 `json:"currency"`
	Store      *method.StoreSelection `json:"store,omitempty"`
}

// Result is the user-facing outcome of one payment attempt. Failures of any
// origin surface here as messages; Execute never propagates them as errors.
type Result struct {
	Method         string    `json:"method"`
	OrderReference string    `json:"order_reference,omitempty"`
	Kind           string    `json:"kind"`
	Success        bool      `json:"success"`
	Message        string    `json:"message"`
	RedirectURL    string    `json:"redirect_url,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// BusySink is the UI busy-indicator collaborator. End is always called after
// Begin, including on failure.
type BusySink interface {
	Begin(method string)
	End(method string)
}

// NopBusySink discards busy-state transitions.
type NopBusySink struct{}

func (NopBusySink) Begin(string) {}
func (NopBusySink) End(string)   {}

// Deps are the collaborators an Orchestrator composes.
type Deps struct {
	Manager  *checkout.Manager
	Builder  *payload.Builder
	Reporter *tracking.Reporter
	Monitor  *health.Monitor
	Busy     BusySink
	Timeout  time.Duration
}

// Orchestrator runs the per-method payment sequence: session, payload,
// tracking, SDK call, classification. One instance serves every method; the
// differences live in the method descriptors.
type Orchestrator struct {
	methods  map[string]method.Descriptor
	manager  *checkout.Manager
	builder  *payload.Builder
	reporter *tracking.Reporter
	monitor  *health.Monitor
	busy     BusySink
	store    *ResultStore
	validate *validator.Validate
	timeout  time.Duration
}

// New creates an Orchestrator for the given method set.
func New(methods map[string]method.Descriptor, deps Deps) *Orchestrator {
	busy := deps.Busy
	if busy == nil {
		busy = NopBusySink{}
	}
	timeout := deps.Timeout
	if timeout == 0 {
		timeout = config.DefaultPaymentTimeout
	}
	return &Orchestrator{
		methods:  methods,
		manager:  deps.Manager,
		builder:  deps.Builder,
		reporter: deps.Reporter,
		monitor:  deps.Monitor,
		busy:     busy,
		store:    NewResultStore(),
		validate: validator.New(),
		timeout:  timeout,
	}
}

// Execute runs one payment attempt. The only returned error is
// ErrUnknownMethod; everything else becomes a user-facing Result.
func (o *Orchestrator) Execute(ctx context.Context, methodName string, req Request) (Result, error) {
	desc, ok := o.methods[methodName]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownMethod, methodName)
	}

	o.busy.Begin(desc.Name)
	defer o.busy.End(desc.Name)

	if msg := o.validateRequest(req); msg != "" {
		slog.Warn("payment_rejected",
			"method", desc.Name,
			"reason", msg,
		)
		return o.finish(desc, Result{
			Method:    desc.Name,
			Kind:      KindValidationError,
			Message:   msg,
			Timestamp: time.Now(),
		}), nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	session, err := o.manager.EnsureReady(ctx)
	if err != nil {
		return o.failure(desc, "session_init_failed", err), nil
	}

	if desc.ConfigureCustomer {
		firstName, lastName := payload.SplitName(req.FullName)
		identity := checkout.Identity{FirstName: firstName, LastName: lastName, Email: req.Email}
		if err := session.ConfigureCheckout(ctx, identity); err != nil {
			return o.failure(desc, "configure_checkout_failed", err), nil
		}
	}

	pl := o.builder.Build(desc, payload.Params{
		Amount:     req.Amount,
		FullName:   req.FullName,
		Email:      req.Email,
		CustomerID: req.CustomerID,
		Currency:   req.Currency,
		Store:      req.Store,
	})

	slog.Info("payment_attempt",
		"method", desc.Name,
		"order_reference", pl.OrderReference,
		"amount", req.Amount,
		"currency", pl.Currency,
	)

	if desc.TrackingEvent != "" {
		o.reporter.BestEffort(ctx, req.CustomerID, desc.TrackingEvent, pl)
	}

	resp, err := session.Payment(ctx, pl)
	if err != nil {
		result := o.failure(desc, "payment_call_failed", err)
		result.OrderReference = pl.OrderReference
		o.store.Save(result)
		return result, nil
	}

	outcome := classify.Classify(resp, desc.Messages)

	slog.Info("payment_classified",
		"method", desc.Name,
		"order_reference", pl.OrderReference,
		"kind", outcome.Kind,
		"success", outcome.Success(),
	)

	result := Result{
		Method:         desc.Name,
		OrderReference: pl.OrderReference,
		Kind:           string(outcome.Kind),
		Success:        outcome.Success(),
		Message:        outcome.Message,
		RedirectURL:    outcome.RedirectURL,
		Timestamp:      time.Now(),
	}
	o.monitor.RecordOutcome(desc.Name, result.Success)
	o.store.Save(result)
	return result, nil
}

// GetResult returns the stored result for an order reference.
func (o *Orchestrator) GetResult(orderReference string) (Result, bool) {
	return o.store.Get(orderReference)
}

// HealthMonitor returns the outcome monitor for external access.
func (o *Orchestrator) HealthMonitor() *health.Monitor {
	return o.monitor
}

// Methods returns the configured method names.
func (o *Orchestrator) Methods() []string {
	names := make([]string, 0, len(o.methods))
	for name := range o.methods {
		names = append(names, name)
	}
	return names
}

func (o *Orchestrator) validateRequest(req Request) string {
	if math.IsNaN(req.Amount) || req.Amount < config.MinAmount {
		return fmt.Sprintf("The minimum amount is $%.2f %s", config.MinAmount, config.DefaultCurrency)
	}
	if err := o.validate.Struct(req); err != nil {
		return "Please fill in all the fields"
	}
	return ""
}

// finish records the outcome in the monitor before returning.
func (o *Orchestrator) finish(desc method.Descriptor, result Result) Result {
	o.monitor.RecordOutcome(desc.Name, result.Success)
	return result
}

func (o *Orchestrator) failure(desc method.Descriptor, event string, err error) Result {
	slog.Warn(event,
		"method", desc.Name,
		"error", err,
	)
	result := Result{
		Method:    desc.Name,
		Kind:      KindOrchestrationError,
		Message:   userMessage(err),
		Timestamp: time.Now(),
	}
	o.monitor.RecordOutcome(desc.Name, false)
	return result
}

// userMessage maps an internal failure to the status-sensitive user text.
func userMessage(err error) string {
	var apiErr *checkout.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode >= 500:
			return "The payment provider reported an internal error. Try again later."
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return "Authentication with the payment provider failed."
		case apiErr.StatusCode == 400:
			return "The payment request was rejected as invalid."
		}
	}

	var loadErr *checkout.ResourceLoadError
	switch {
	case errors.As(err, &loadErr):
		return "Could not load the payment resources. Check your connection and try again."
	case errors.Is(err, checkout.ErrSDKUnavailable):
		return "The payment system is not available. Try again later."
	case errors.Is(err, context.DeadlineExceeded):
		return "The payment provider took too long to respond. Try again."
	}
	return "Could not process the payment. Try again."
}
