package classify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
)

// Kind identifies the classified outcome variant.
type Kind string

const (
	KindHardError     Kind = "hard_error"
	KindRedirect      Kind = "redirect"
	KindStatusSuccess Kind = "status_success"
	KindStatusPending Kind = "status_pending"
	KindStatusFailure Kind = "status_failure"
	KindStatusUnknown Kind = "status_unknown"
	KindReference     Kind = "reference"
	KindIdentifier    Kind = "identifier"
	KindGeneric       Kind = "generic_success"
)

// Outcome is the classified result of a payment response. Navigation on
// RedirectURL is the caller's decision; classification has no side effects.
type Outcome struct {
	Kind        Kind
	Message     string
	RedirectURL string
}

// Success reports whether the outcome should render as a success state.
func (o Outcome) Success() bool {
	switch o.Kind {
	case KindHardError, KindStatusFailure, KindStatusUnknown:
		return false
	default:
		return true
	}
}

// Messages is the per-method wording catalog. Fields with a %s verb receive
// the value noted next to them.
type Messages struct {
	ProviderError       string // fallback when the response carries no error text
	RedirectCheckout    string
	RedirectNextAction  string
	RedirectPlain       string
	RedirectCheckoutURL string
	RedirectPaymentURL  string
	StatusSuccess       string // %s: transaction id
	StatusPending       string // %s: transaction id
	StatusFailure       string // %s: provider message
	StatusUnknown       string // %s: raw status string
	Reference           string // %s: reference code
	Identifier          string // %s: identifier
	Generic             string
}

// A rule inspects the response and either produces an outcome or passes.
// Rules run in declaration order; the first match wins.
type rule struct {
	name  string
	match func(resp model.Response, msgs Messages) (Outcome, bool)
}

var rules = []rule{
	{"hard_error", matchHardError},
	{"checkout_redirect", matchCheckoutRedirect},
	{"next_action_redirect", matchNextActionRedirect},
	{"plain_redirect", matchPlainRedirect},
	{"checkout_url_redirect", matchCheckoutURLRedirect},
	{"payment_url_redirect", matchPaymentURLRedirect},
	{"transaction_status", matchTransactionStatus},
	{"reference", matchReference},
	{"identifier", matchIdentifier},
}

// Classify maps a provider response to exactly one outcome. It is total:
// no response shape makes it fail, absence of fields is the normal case.
func Classify(resp model.Response, msgs Messages) Outcome {
	for _, r := range rules {
		if out, ok := r.match(resp, msgs); ok {
			return out
		}
	}
	return Outcome{Kind: KindGeneric, Message: msgs.Generic}
}

func matchHardError(resp model.Response, msgs Messages) (Outcome, bool) {
	status, hasStatus := resp.Num("status")
	errText := resp.Str("error")
	if (!hasStatus || status < 500) && errText == "" {
		return Outcome{}, false
	}

	message := resp.Str("message")
	if message == "" {
		message = errText
	}
	if message == "" {
		message = msgs.ProviderError
	}
	return Outcome{Kind: KindHardError, Message: message}, true
}

func matchCheckoutRedirect(resp model.Response, msgs Messages) (Outcome, bool) {
	url := resp.Nested("checkout").Str("redirect_url")
	if url == "" {
		return Outcome{}, false
	}
	return Outcome{Kind: KindRedirect, Message: msgs.RedirectCheckout, RedirectURL: url}, true
}

// matchNextActionRedirect handles both shapes the providers emit:
// next_action.redirect_to_url as a bare string and as {url: ...}.
func matchNextActionRedirect(resp model.Response, msgs Messages) (Outcome, bool) {
	na := resp.Nested("next_action")
	if na == nil {
		return Outcome{}, false
	}
	url := na.Str("redirect_to_url")
	if url == "" {
		url = na.Nested("redirect_to_url").Str("url")
	}
	if url == "" {
		return Outcome{}, false
	}
	return Outcome{Kind: KindRedirect, Message: msgs.RedirectNextAction, RedirectURL: url}, true
}

func matchPlainRedirect(resp model.Response, msgs Messages) (Outcome, bool) {
	url := resp.Str("redirect_url")
	if url == "" {
		return Outcome{}, false
	}
	return Outcome{Kind: KindRedirect, Message: msgs.RedirectPlain, RedirectURL: url}, true
}

func matchCheckoutURLRedirect(resp model.Response, msgs Messages) (Outcome, bool) {
	url := resp.Str("checkout_url")
	if url == "" {
		return Outcome{}, false
	}
	return Outcome{Kind: KindRedirect, Message: msgs.RedirectCheckoutURL, RedirectURL: url}, true
}

func matchPaymentURLRedirect(resp model.Response, msgs Messages) (Outcome, bool) {
	url := resp.Str("payment_url")
	if url == "" {
		return Outcome{}, false
	}
	return Outcome{Kind: KindRedirect, Message: msgs.RedirectPaymentURL, RedirectURL: url}, true
}

func matchTransactionStatus(resp model.Response, msgs Messages) (Outcome, bool) {
	status := resp.Str("transaction_status")
	if status == "" {
		return Outcome{}, false
	}

	id := firstScalar(resp, "transaction_id", "id")
	if id == "" {
		id = "N/A"
	}

	switch strings.ToLower(status) {
	case "success":
		return Outcome{Kind: KindStatusSuccess, Message: fmt.Sprintf(msgs.StatusSuccess, id)}, true
	case "pending":
		return Outcome{Kind: KindStatusPending, Message: fmt.Sprintf(msgs.StatusPending, id)}, true
	case "declined", "failed":
		reason := resp.Str("message")
		if reason == "" {
			reason = "unknown error"
		}
		return Outcome{Kind: KindStatusFailure, Message: fmt.Sprintf(msgs.StatusFailure, reason)}, true
	default:
		return Outcome{Kind: KindStatusUnknown, Message: fmt.Sprintf(msgs.StatusUnknown, status)}, true
	}
}

func matchReference(resp model.Response, msgs Messages) (Outcome, bool) {
	ref, _ := resp.FirstStr("reference", "payment_reference")
	if ref == "" {
		return Outcome{}, false
	}
	return Outcome{Kind: KindReference, Message: fmt.Sprintf(msgs.Reference, ref)}, true
}

func matchIdentifier(resp model.Response, msgs Messages) (Outcome, bool) {
	id := firstScalar(resp, "payment_id", "checkout_id", "id")
	if id == "" {
		return Outcome{}, false
	}
	return Outcome{Kind: KindIdentifier, Message: fmt.Sprintf(msgs.Identifier, id)}, true
}

// firstScalar returns the first identifier-bearing field as text, accepting
// both string and numeric wire forms.
func firstScalar(resp model.Response, keys ...string) string {
	for _, key := range keys {
		if s := resp.Str(key); s != "" {
			return s
		}
		if n, ok := resp.Num(key); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	return ""
}
