package browser

import (
	"github.com/marlonbarreto-git/stratus-checkout-adapter/internal/model"
)

// Collector captures the client-environment snapshot embedded in every
// payment payload. Implementations must return a fresh value per call.
type Collector interface {
	Collect() model.BrowserInfo
}

// StaticCollector returns a fixed snapshot. The adapter runs server side, so
// the browser signals come from configuration rather than a live DOM.
type StaticCollector struct {
	Info model.BrowserInfo
}

// NewStaticCollector creates a collector with sensible es-MX defaults for any
// field left zero.
func NewStaticCollector(info model.BrowserInfo) *StaticCollector {
	info.JavascriptEnabled = true
	if info.Language == "" {
		info.Language = "es-MX"
	}
	if info.ColorDepth == 0 {
		info.ColorDepth = 24
	}
	if info.UserAgent == "" {
		info.UserAgent = "stratus-checkout-adapter/1.0"
	}
	return &StaticCollector{Info: info}
}

func (c *StaticCollector) Collect() model.BrowserInfo {
	return c.Info
}
