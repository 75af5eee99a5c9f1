package payload

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/browser"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/config"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/method"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
)

const testReturnURL = "https://shop.example.com/#/payment-success"

func testCollector() browser.Collector {
	return browser.NewStaticCollector(model.BrowserInfo{
		Language:     "es-MX",
		ScreenWidth:  1920,
		ScreenHeight: 1080,
	})
}

func newTestBuilder() *Builder {
	return NewBuilderWithClock(testReturnURL, testCollector(), func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}, 42)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name          string
		fullName      string
		wantFirstName string
		wantLastName  string
	}{
		{"two tokens", "Juan Perez", "Juan", "Perez"},
		{"three tokens join the rest", "Juan Perez Gomez", "Juan", "Perez Gomez"},
		{"single token falls back last name", "Sola", "Sola", FallbackLastName},
		{"empty falls back both", "", FallbackFirstName, FallbackLastName},
		{"whitespace only falls back both", "   ", FallbackFirstName, FallbackLastName},
		{"extra whitespace collapsed", "  Ana   Maria  Lopez ", "Ana", "Maria Lopez"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitName(tt.fullName)
			assert.Equal(t, tt.wantFirstName, first)
			assert.Equal(t, tt.wantLastName, last)
		})
	}
}

func TestBuild_AmountConsistency(t *testing.T) {
	b := NewBuilder(testReturnURL, testCollector())
	pl := b.Build(method.Card(), Params{
		Amount:   150.50,
		FullName: "Juan Perez",
		Email:    "juan@example.com",
	})

	require.Len(t, pl.Items, 1)
	assert.Equal(t, 150.50, pl.Amount)
	assert.Equal(t, 150.50, pl.Cart.Total)
	assert.Equal(t, 150.50, pl.Items[0].AmountTotal)
	assert.Equal(t, 150.50, pl.Items[0].PriceUnit)
	assert.Equal(t, pl.Items, pl.Cart.Items)
	assert.Equal(t, 1, pl.Items[0].Quantity)
}

func TestBuild_GeneratedIdentifiers(t *testing.T) {
	b := NewBuilder(testReturnURL, testCollector())
	before := time.Now().Unix()
	pl := b.Build(method.Cash(), Params{
		Amount:   25,
		FullName: "Juan Perez",
		Email:    "juan@example.com",
	})
	after := time.Now().Unix()

	assert.Regexp(t, regexp.MustCompile(`^CASH-[0-9A-Z]{9}$`), pl.OrderReference)
	assert.GreaterOrEqual(t, pl.OrderID, before)
	assert.LessOrEqual(t, pl.OrderID, after)
	assert.GreaterOrEqual(t, pl.PaymentID, 10000)
	assert.LessOrEqual(t, pl.PaymentID, 99999)
}

func TestBuild_StableExceptGeneratedIdentifiers(t *testing.T) {
	b := newTestBuilder()
	params := Params{
		Amount:     99.90,
		FullName:   "Juan Perez Gomez",
		Email:      "juan@example.com",
		CustomerID: "cust-1",
		Currency:   "MXN",
	}

	first := b.Build(method.Spei(), params)
	second := b.Build(method.Spei(), params)

	// Neutralize the three generated identifiers; everything else must match.
	second.OrderReference = first.OrderReference
	second.PaymentID = first.PaymentID
	second.OrderID = first.OrderID
	assert.Equal(t, first, second)
}

func TestBuild_CustomerAndNames(t *testing.T) {
	b := newTestBuilder()
	pl := b.Build(method.Card(), Params{
		Amount:   10,
		FullName: "Juan Perez Gomez",
		Email:    "juan@example.com",
	})

	assert.Equal(t, "Juan", pl.Customer.FirstName)
	assert.Equal(t, "Perez Gomez", pl.Customer.LastName)
	assert.Equal(t, "juan@example.com", pl.Customer.Email)
	assert.Equal(t, "Juan", pl.Name)
	assert.Equal(t, "Perez Gomez", pl.LastName)
	assert.Equal(t, "juan@example.com", pl.EmailClient)

	// Placeholder contact block comes from the descriptor.
	assert.Equal(t, "Mexico", pl.Customer.Country)
	assert.Equal(t, "01000", pl.Customer.PostCode)
	assert.Equal(t, pl.Customer.Phone, pl.PhoneNumber)
}

func TestBuild_CurrencyDefaulting(t *testing.T) {
	b := newTestBuilder()

	withCurrency := b.Build(method.Card(), Params{Amount: 10, FullName: "A B", Email: "a@b.com", Currency: "USD"})
	assert.Equal(t, "USD", withCurrency.Currency)

	without := b.Build(method.Card(), Params{Amount: 10, FullName: "A B", Email: "a@b.com"})
	assert.Equal(t, config.DefaultCurrency, without.Currency)
}

func TestBuild_MetadataStamping(t *testing.T) {
	b := newTestBuilder()
	pl := b.Build(method.Spei(), Params{
		Amount:     10,
		FullName:   "A B",
		Email:      "a@b.com",
		CustomerID: "cust-7",
	})

	assert.Equal(t, "2025-06-15T12:00:00Z", pl.Metadata["operation_date"])
	assert.Equal(t, "a@b.com", pl.Metadata["customer_email"])
	assert.Equal(t, "cust-7", pl.Metadata["customer_id"])
	assert.Equal(t, "tonder_user", pl.Metadata["business_user"])

	_, err := time.Parse(time.RFC3339, pl.Metadata["operation_date"])
	assert.NoError(t, err)
}

func TestBuild_CashMethodSpecifics(t *testing.T) {
	b := newTestBuilder()
	pl := b.Build(method.Cash(), Params{
		Amount:   75,
		FullName: "A B",
		Email:    "a@b.com",
		Store:    &method.StoreSelection{BankID: "2001", Name: "OXXO", Channel: "CV"},
	})

	assert.Equal(t, "safetypayCash", pl.PaymentMethod)
	assert.True(t, pl.BinaryMode)
	assert.Nil(t, pl.Identification)

	assert.Equal(t, "OXXO", pl.Metadata["store_name"])
	assert.Equal(t, "2001", pl.Metadata["bank_id"])
	assert.Equal(t, "CV", pl.Metadata["channel"])
	assert.Equal(t, "safetypayCash", pl.Metadata["payment_method"])
	assert.Equal(t, "finanzas_mexicana", pl.Metadata["business_user"])

	assert.Equal(t, map[string]any{
		"country":  "Mexico",
		"channel":  "CV",
		"bank_ids": []map[string]string{{"id": "2001"}},
	}, pl.APMConfig)

	assert.Equal(t, "Payment at OXXO", pl.Items[0].Name)
	assert.Regexp(t, regexp.MustCompile(`^cash-\d+$`), pl.Items[0].ProductReference)
}

func TestBuild_CashFallsBackToDefaultStore(t *testing.T) {
	b := newTestBuilder()
	pl := b.Build(method.Cash(), Params{Amount: 75, FullName: "A B", Email: "a@b.com"})

	assert.Equal(t, "BBVA Bancomer", pl.Metadata["store_name"])
	assert.Equal(t, "1020", pl.Metadata["bank_id"])
	assert.Equal(t, "WP", pl.Metadata["channel"])
}

func TestBuild_SpeiMethodSpecifics(t *testing.T) {
	b := newTestBuilder()
	pl := b.Build(method.Spei(), Params{Amount: 20, FullName: "A B", Email: "a@b.com"})

	assert.Equal(t, "Spei", pl.PaymentMethod)
	assert.False(t, pl.BinaryMode)
	require.NotNil(t, pl.Identification)
	assert.Equal(t, "SSN", pl.Identification.Type)
	assert.Empty(t, pl.APMConfig)
	assert.Regexp(t, regexp.MustCompile(`^ORDER-[0-9A-Z]{9}$`), pl.OrderReference)
	assert.NotContains(t, pl.Metadata, "store_name")
}

func TestBuild_ConstantRoutingFields(t *testing.T) {
	b := newTestBuilder()
	pl := b.Build(method.Card(), Params{Amount: 20, FullName: "A B", Email: "a@b.com"})

	assert.Equal(t, testReturnURL, pl.ReturnURL)
	assert.Equal(t, config.BusinessID, pl.BusinessID)
	assert.Equal(t, "no_id", pl.IDProduct)
	assert.Equal(t, 1, pl.QuantityProduct)
	assert.Equal(t, "0", pl.IDShip)
	assert.Equal(t, "0", pl.InstanceIDShip)
	assert.Equal(t, "shipping", pl.TitleShip)
	assert.Equal(t, "sdk", pl.Source)
	assert.Equal(t, "", pl.TokenID)
	assert.Nil(t, pl.DeviceSessionID)
}

func TestBuild_FreshBrowserInfoPerCall(t *testing.T) {
	b := newTestBuilder()
	pl := b.Build(method.Card(), Params{Amount: 20, FullName: "A B", Email: "a@b.com"})

	assert.True(t, pl.BrowserInfo.JavascriptEnabled)
	assert.Equal(t, "es-MX", pl.BrowserInfo.Language)
	assert.Equal(t, 24, pl.BrowserInfo.ColorDepth)
	assert.Equal(t, 1920, pl.BrowserInfo.ScreenWidth)
}
