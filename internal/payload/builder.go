package payload

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/browser"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/config"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/method"
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
)

const (
	// FallbackFirstName is the wire value when a name yields no first token.
	FallbackFirstName = "Nombre"
	// FallbackLastName is the wire value when a name yields no remainder.
	FallbackLastName = "Apellido"

	referenceLength = 9
	base36Alphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Params are the business inputs for one payment payload. Validation of
// amount, name and email happens upstream; the builder only maps fields.
type Params struct {
	Amount     float64
	FullName   string
	Email      string
	CustomerID string
	Currency   string
	Store      *method.StoreSelection
}

// Builder constructs canonical payment payloads. It performs no I/O and
// touches no state outside its own random source; identical inputs yield
// identical payloads except for the three generated identifiers and the
// operation timestamp.
type Builder struct {
	returnURL string
	collector browser.Collector
	now       func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder creates a builder for the given return URL and browser collector.
func NewBuilder(returnURL string, collector browser.Collector) *Builder {
	return &Builder{
		returnURL: returnURL,
		collector: collector,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewBuilderWithClock creates a builder with a fixed clock and seed for tests.
func NewBuilderWithClock(returnURL string, collector browser.Collector, now func() time.Time, seed int64) *Builder {
	return &Builder{
		returnURL: returnURL,
		collector: collector,
		now:       now,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// SplitName splits a full name on whitespace: first token becomes the first
// name, the remaining tokens joined by spaces become the last name. Empty
// parts fall back to the literal placeholders.
func SplitName(fullName string) (firstName, lastName string) {
	parts := strings.Fields(fullName)
	firstName = FallbackFirstName
	lastName = FallbackLastName
	if len(parts) > 0 {
		firstName = parts[0]
	}
	if len(parts) > 1 {
		lastName = strings.Join(parts[1:], " ")
	}
	return firstName, lastName
}

// Build assembles the payment payload for one attempt.
func (b *Builder) Build(desc method.Descriptor, p Params) model.Payload {
	now := b.now()
	firstName, lastName := SplitName(p.FullName)

	currency := p.Currency
	if currency == "" {
		currency = config.DefaultCurrency
	}

	store := p.Store
	if store == nil {
		store = desc.DefaultStore
	}

	item := b.buildItem(desc, store, p.Amount, now)
	items := []model.Item{item}

	customer := desc.Contact
	customer.FirstName = firstName
	customer.LastName = lastName
	customer.Email = p.Email

	var identification *model.Identification
	if desc.Identification != nil {
		id := *desc.Identification
		identification = &id
	}

	return model.Payload{
		Customer:        customer,
		Name:            firstName,
		LastName:        lastName,
		EmailClient:     p.Email,
		PhoneNumber:     desc.Contact.Phone,
		Currency:        currency,
		Cart:            model.Cart{Total: p.Amount, Items: items},
		Items:           items,
		Metadata:        b.buildMetadata(desc, store, p, now),
		OrderReference:  b.orderReference(desc.ReferencePrefix),
		OrderID:         now.Unix(),
		PaymentID:       b.paymentID(),
		BusinessID:      config.BusinessID,
		PaymentMethod:   desc.PaymentMethod,
		ReturnURL:       b.returnURL,
		IDProduct:       "no_id",
		QuantityProduct: 1,
		IDShip:          "0",
		InstanceIDShip:  "0",
		TitleShip:       "shipping",
		Description:     desc.TransactionDescription,
		DeviceSessionID: nil,
		TokenID:         "",
		Source:          "sdk",
		BrowserInfo:     b.collector.Collect(),
		BinaryMode:      desc.BinaryMode,
		Identification:  identification,
		APMConfig:       desc.APMConfig(store),
		Amount:          p.Amount,
	}
}

func (b *Builder) buildItem(desc method.Descriptor, store *method.StoreSelection, amount float64, now time.Time) model.Item {
	name := desc.Item.Name
	if strings.Contains(name, "%s") && store != nil {
		name = fmt.Sprintf(name, store.Name)
	}

	ref := desc.Item.ProductReference
	if ref == "" {
		ref = fmt.Sprintf("cash-%d", now.UnixMilli())
	}

	return model.Item{
		Description:      desc.Item.Description,
		Quantity:         1,
		PriceUnit:        amount,
		Discount:         0,
		Taxes:            0,
		ProductReference: ref,
		Name:             name,
		AmountTotal:      amount,
	}
}

func (b *Builder) buildMetadata(desc method.Descriptor, store *method.StoreSelection, p Params, now time.Time) map[string]string {
	metadata := map[string]string{
		"operation_date": now.UTC().Format(time.RFC3339),
		"customer_email": p.Email,
	}
	if desc.BusinessUser != "" {
		metadata["business_user"] = desc.BusinessUser
	}
	if p.CustomerID != "" {
		metadata["customer_id"] = p.CustomerID
	}
	if desc.DefaultStore != nil && store != nil {
		metadata["payment_method"] = desc.PaymentMethod
		metadata["store_name"] = store.Name
		metadata["bank_id"] = store.BankID
		metadata["channel"] = store.Channel
	}
	return metadata
}

// paymentID draws a 5-digit pseudo-random id. Collisions are accepted as
// negligible at this traffic volume.
func (b *Builder) paymentID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Intn(90000) + 10000
}

// orderReference generates `<PREFIX>-<9-char base36 uppercase>`.
func (b *Builder) orderReference(prefix string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('-')
	for i := 0; i < referenceLength; i++ {
		sb.WriteByte(base36Alphabet[b.rng.Intn(len(base36Alphabet))])
	}
	return sb.String()
}
