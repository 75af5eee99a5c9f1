package method

import (
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/classify"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
)

// StoreSelection identifies the cash-network store a voucher is payable at.
type StoreSelection struct {
	BankID  string `json:"bankId"`
	Name    string `json:"name"`
	Channel string `json:"channel"`
}

// ItemTemplate is the wording for the synthetic line item. Name may contain
// a %s verb that receives the store name.
type ItemTemplate struct {
	Description      string
	Name             string
	ProductReference string // empty: the builder generates a timestamped one
}

// Descriptor is the full per-payment-method configuration. The three
// supported methods share one builder, one classifier and one orchestrator;
// everything that differs between them lives here as data.
type Descriptor struct {
	// Name is the route segment and log label ("cash", "spei", "card").
	Name string
	// PaymentMethod is the provider discriminator sent on the wire.
	PaymentMethod string
	// ReferencePrefix prefixes generated order references.
	ReferencePrefix string
	// TrackingEvent names the telemetry event; empty skips the report.
	TrackingEvent string
	// BusinessUser tags metadata for backoffice attribution.
	BusinessUser string
	// ConfigureCustomer makes the orchestrator call ConfigureCheckout
	// before building the payload.
	ConfigureCustomer bool
	// BinaryMode is forwarded as-is to the provider.
	BinaryMode bool
	// Identification is the identity document block, when the method needs one.
	Identification *model.Identification
	// Contact is the placeholder address/phone block. Constant per
	// deployment; kept configurable here rather than hard-coded.
	Contact model.Customer
	// Item is the line-item wording.
	Item ItemTemplate
	// TransactionDescription is the top-level description field on the wire.
	TransactionDescription string
	// DefaultStore preselects a cash store; nil for non-cash methods.
	DefaultStore *StoreSelection
	// Messages is the user-facing wording catalog.
	Messages classify.Messages
}

// APMConfig builds the alternative-payment-method block for the given store.
func (d Descriptor) APMConfig(store *StoreSelection) map[string]any {
	if store == nil {
		return map[string]any{}
	}
	return map[string]any{
		"country":  d.Contact.Country,
		"channel":  store.Channel,
		"bank_ids": []map[string]string{{"id": store.BankID}},
	}
}

// defaultContact is the placeholder contact block shared by all methods.
var defaultContact = model.Customer{
	Country:  "Mexico",
	Address:  "Calle Principal 123",
	City:     "Ciudad de Mexico",
	State:    "CDMX",
	PostCode: "01000",
	Phone:    "3025551234",
}

// Cash is the SafetyPay cash-voucher method: a code payable at a store
// counter, selected via bank id and channel.
func Cash() Descriptor {
	return Descriptor{
		Name:            "cash",
		PaymentMethod:   "safetypayCash",
		ReferencePrefix: "CASH",
		TrackingEvent:   "payment cash",
		BusinessUser:    "finanzas_mexicana",
		BinaryMode:      true,
		Contact:         defaultContact,
		Item: ItemTemplate{
			Description: "Cash payment via SafetyPay",
			Name:        "Payment at %s",
		},
		TransactionDescription: "SafetyPay Cash transaction",
		DefaultStore: &StoreSelection{BankID: "1020", Name: "BBVA Bancomer", Channel: "WP"},
		Messages: classify.Messages{
			ProviderError:       "Server error",
			RedirectCheckout:    "Code generated. Redirecting to the voucher...",
			RedirectNextAction:  "Code generated. Opening the payment voucher...",
			RedirectPlain:       "Code generated. Opening the voucher...",
			RedirectCheckoutURL: "Code generated. Redirecting...",
			RedirectPaymentURL:  "Code generated. Redirecting...",
			StatusSuccess:       "Code generated. ID: %s",
			StatusPending:       "Code pending. ID: %s",
			StatusFailure:       "Could not generate the code: %s",
			StatusUnknown:       "Status: %s",
			Reference:           "Reference generated: %s",
			Identifier:          "Payment code generated. ID: %s",
			Generic:             "Payment code generated successfully.",
		},
	}
}

// Spei is the bank-transfer method: the provider responds with a page
// holding the CLABE and transfer instructions.
func Spei() Descriptor {
	return Descriptor{
		Name:              "spei",
		PaymentMethod:     "Spei",
		ReferencePrefix:   "ORDER",
		BusinessUser:      "tonder_user",
		ConfigureCustomer: true,
		Identification:    &model.Identification{Type: "SSN", Number: "123456789"},
		Contact:           defaultContact,
		Item: ItemTemplate{
			Description:      "Product",
			Name:             "Tonder Product",
			ProductReference: "PROD001",
		},
		TransactionDescription: "transaction",
		Messages: classify.Messages{
			ProviderError:       "Provider error.",
			RedirectCheckout:    "Redirecting to the SPEI page...",
			RedirectNextAction:  "Redirecting to the SPEI page...",
			RedirectPlain:       "Redirecting to the SPEI page...",
			RedirectCheckoutURL: "Redirecting to the SPEI page...",
			RedirectPaymentURL:  "Redirecting to the SPEI page...",
			StatusSuccess:       "Payment processed. ID: %s",
			StatusPending:       "Payment pending. ID: %s",
			StatusFailure:       "Payment failed: %s",
			StatusUnknown:       "Status: %s",
			Reference:           "Reference generated: %s",
			Identifier:          "Payment processed. Checkout ID: %s",
			Generic:             "Payment processed. Check the transaction details.",
		},
	}
}

// Card is the card-present OXXO-style method routed through the provider's
// hosted checkout.
func Card() Descriptor {
	return Descriptor{
		Name:              "card",
		PaymentMethod:     "oxxopay",
		ReferencePrefix:   "ORDER",
		TrackingEvent:     "payment oxxopay",
		ConfigureCustomer: true,
		Identification:    &model.Identification{Type: "SSN", Number: "123456789"},
		Contact:           defaultContact,
		Item: ItemTemplate{
			Description:      "Product",
			Name:             "Tonder Product",
			ProductReference: "PROD001",
		},
		TransactionDescription: "transaction",
		Messages: classify.Messages{
			ProviderError:       "Provider error. Try again.",
			RedirectCheckout:    "Redirecting to the payment page...",
			RedirectNextAction:  "Redirecting to the payment page...",
			RedirectPlain:       "Redirecting to the payment page...",
			RedirectCheckoutURL: "Redirecting to the payment page...",
			RedirectPaymentURL:  "Redirecting to the payment page...",
			StatusSuccess:       "Payment processed. ID: %s",
			StatusPending:       "Payment pending. ID: %s",
			StatusFailure:       "Payment failed: %s",
			StatusUnknown:       "Status: %s",
			Reference:           "Reference generated: %s",
			Identifier:          "Payment processed. Checkout ID: %s",
			Generic:             "Payment processed. Check the transaction details.",
		},
	}
}

// All returns the supported methods keyed by route name.
func All() map[string]Descriptor {
	return map[string]Descriptor{
		"cash": Cash(),
		"spei": Spei(),
		"card": Card(),
	}
}
