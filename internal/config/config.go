package config

import (
	"os"
	"strconv"
	"time"
)

const (
	// MinAmount is the smallest accepted payment amount.
	MinAmount = 1.00

	// DefaultCurrency is used when a request carries no currency.
	DefaultCurrency = "MXN"

	// BusinessID is the static tenant identifier sent on every payment.
	BusinessID = 21

	// PaymentSuccessPath is the client-side route the provider returns to.
	PaymentSuccessPath = "/payment-success"

	// DefaultPaymentTimeout bounds one full orchestration sequence.
	DefaultPaymentTimeout = 60 * time.Second

	// HealthWindowSize is the number of recent outcomes to consider per method.
	HealthWindowSize = 50

	// HealthWindowDurationMinutes is the time window for outcome tracking.
	HealthWindowDurationMinutes = 10

	// DegradedThreshold is the success ratio below which a method is degraded.
	DegradedThreshold = 0.5

	// SuspendedThreshold is the success ratio below which a method is suspended.
	SuspendedThreshold = 0.2

	// ServerPort is the default HTTP server port.
	ServerPort = ":8080"
)

// DefaultResources is the ordered list of external script bundles the
// checkout SDK depends on. Each one must finish loading before the next starts.
var DefaultResources = []string{
	"https://js.skyflow.com/v1/index.js",
	"https://openpay.s3.amazonaws.com/openpay.v1.min.js",
	"https://openpay.s3.amazonaws.com/openpay-data.v1.min.js",
	"https://zplit-stage.s3.amazonaws.com/v1/bundle.min.js",
}

// Settings holds environment-driven configuration.
type Settings struct {
	Mode            string
	APIKey          string
	Origin          string
	CheckoutBaseURL string
	BackendBaseURL  string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Port            string
	PaymentTimeout  time.Duration
}

// Load reads settings from the environment, applying defaults.
func Load() Settings {
	s := Settings{
		Mode:            getenv("CHECKOUT_MODE", "stage"),
		APIKey:          os.Getenv("CHECKOUT_API_KEY"),
		Origin:          getenv("CHECKOUT_ORIGIN", "http://localhost:8080"),
		CheckoutBaseURL: os.Getenv("CHECKOUT_BASE_URL"),
		BackendBaseURL:  getenv("BACKEND_BASE_URL", "http://localhost:3000/"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		Port:            getenv("PORT", ServerPort),
		PaymentTimeout:  DefaultPaymentTimeout,
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			s.RedisDB = db
		}
	}

	if t := os.Getenv("PAYMENT_TIMEOUT_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			s.PaymentTimeout = time.Duration(secs) * time.Second
		}
	}

	return s
}

// ReturnURL computes the URL the provider redirects back to after payment.
func (s Settings) ReturnURL() string {
	return s.Origin + "/#" + PaymentSuccessPath
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
