package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/backend"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/browser"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/checkout"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/config"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/handler"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/health"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/method"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/orchestrator"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/payload"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/store"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/tracking"
)

// CustomValidator adapts validator/v10 to echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Warn("dotenv_not_found")
	}

	settings := config.Load()

	// Session store: redis when reachable, in-memory otherwise.
	var sessions store.SessionStore
	redisStore, err := store.ConnectRedis(store.RedisOptions{
		Addr:     settings.RedisAddr,
		Password: settings.RedisPassword,
		DB:       settings.RedisDB,
	})
	if err != nil {
		slog.Warn("redis_unavailable", "error", err)
		sessions = store.NewMemoryStore(24 * time.Hour)
	} else {
		sessions = redisStore
		defer redisStore.Close()
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	loader := checkout.NewLoader(config.DefaultResources, httpClient)
	if settings.CheckoutBaseURL != "" {
		checkout.Register(checkout.NewRESTFactory(settings.CheckoutBaseURL, httpClient))
	} else {
		// No provider API configured: serve canned successes so the rest of
		// the flow stays exercisable in stage.
		slog.Warn("checkout_mock_registered", "mode", settings.Mode)
		mockFactory, _ := checkout.NewMockFactory(checkout.NewMockSession(checkout.MockConfig{
			Response: model.Response{"transaction_status": "success", "transaction_id": "stage-mock"},
		}))
		checkout.Register(mockFactory)
	}

	manager := checkout.NewManager(checkout.Config{
		Mode:      settings.Mode,
		APIKey:    settings.APIKey,
		ReturnURL: settings.ReturnURL(),
	}, loader, nil)

	collector := browser.NewStaticCollector(model.BrowserInfo{})
	builder := payload.NewBuilder(settings.ReturnURL(), collector)
	reporter := tracking.NewReporter(settings.BackendBaseURL, httpClient)
	monitor := health.NewMonitor()

	orch := orchestrator.New(method.All(), orchestrator.Deps{
		Manager:  manager,
		Builder:  builder,
		Reporter: reporter,
		Monitor:  monitor,
		Timeout:  settings.PaymentTimeout,
	})

	backendClient := backend.NewClient(settings.BackendBaseURL, httpClient)
	wallets := backend.NewWalletState(backendClient)
	transactions := backend.NewTransactionState(backendClient)

	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	h := handler.New(orch, wallets, transactions, sessions)
	h.RegisterRoutes(e)

	slog.Info("server_starting", "port", settings.Port, "mode", settings.Mode)
	if err := e.Start(settings.Port); err != nil {
		slog.Error("server_stopped", "error", err)
		os.Exit(1)
	}
}
