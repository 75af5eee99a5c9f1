package model

// BrowserInfo is the ambient client-environment snapshot attached to every
// payment payload.
type BrowserInfo struct {
	JavascriptEnabled bool   `json:"javascript_enabled"`
	TimeZone          int    `json:"time_zone"`
	Language          string `json:"language"`
	ColorDepth        int    `json:"color_depth"`
	ScreenWidth       int    `json:"screen_width"`
	ScreenHeight      int    `json:"screen_height"`
	UserAgent         string `json:"user_agent"`
}

// Customer is the provider-facing customer block. Address fields are
// placeholder contact data configured per method, not captured from the payer.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	PostCode  string `json:"postCode"`
	Phone     string `json:"phone"`
}

// Item is the single synthetic line item carried by every payment.
type Item struct {
	Description      string  `json:"description"`
	Quantity         int     `json:"quantity"`
	PriceUnit        float64 `json:"price_unit"`
	Discount         float64 `json:"discount"`
	Taxes            float64 `json:"taxes"`
	ProductReference string  `json:"product_reference"`
	Name             string  `json:"name"`
	AmountTotal      float64 `json:"amount_total"`
}

// Cart wraps the line items with their total.
type Cart struct {
	Total float64 `json:"total"`
	Items []Item  `json:"items"`
}

// Identification is the optional identity document block some methods require.
type Identification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// Payload is the canonical payment request sent to the checkout SDK. It is
// built fresh per attempt and never mutated afterwards.
type Payload struct {
	Customer        Customer          `json:"customer"`
	Name            string            `json:"name"`
	LastName        string            `json:"last_name"`
	EmailClient     string            `json:"email_client"`
	PhoneNumber     string            `json:"phone_number"`
	Currency        string            `json:"currency"`
	Cart            Cart              `json:"cart"`
	Items           []Item            `json:"items"`
	Metadata        map[string]string `json:"metadata"`
	OrderReference  string            `json:"order_reference"`
	OrderID         int64             `json:"order_id"`
	PaymentID       int               `json:"payment_id"`
	BusinessID      int               `json:"business_id"`
	PaymentMethod   string            `json:"payment_method"`
	ReturnURL       string            `json:"return_url"`
	IDProduct       string            `json:"id_product"`
	QuantityProduct int               `json:"quantity_product"`
	IDShip          string            `json:"id_ship"`
	InstanceIDShip  string            `json:"instance_id_ship"`
	TitleShip       string            `json:"title_ship"`
	Description     string            `json:"description"`
	DeviceSessionID *string           `json:"device_session_id"`
	TokenID         string            `json:"token_id"`
	Source          string            `json:"source"`
	BrowserInfo     BrowserInfo       `json:"browser_info"`
	BinaryMode      bool              `json:"binary_mode,omitempty"`
	Identification  *Identification   `json:"identification,omitempty"`
	APMConfig       map[string]any    `json:"apm_config"`
	Amount          float64           `json:"amount"`
}
