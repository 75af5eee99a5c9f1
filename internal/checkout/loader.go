package checkout

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader fetches the external script resources the checkout SDK depends on,
// exactly once per process. Resources load sequentially, each one starting
// only after the previous succeeded.
//
// Known limitation, kept on purpose: the loaded flag is set only after the
// final resource succeeds, so a failure partway leaves the loader unloaded
// and the next call re-fetches every resource, including ones that already
// succeeded.
type Loader struct {
	resources []string
	client    *http.Client

	mu     sync.Mutex
	loaded bool
	group  singleflight.Group
}

// NewLoader creates a loader for the given ordered resource list.
func NewLoader(resources []string, client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{resources: resources, client: client}
}

// EnsureLoaded loads all resources once. Later calls return immediately.
// Concurrent first calls share a single in-flight load.
func (l *Loader) EnsureLoaded(ctx context.Context) error {
	if l.isLoaded() {
		return nil
	}

	_, err, _ := l.group.Do("load", func() (any, error) {
		if l.isLoaded() {
			return nil, nil
		}
		for _, url := range l.resources {
			if err := l.fetch(ctx, url); err != nil {
				slog.Warn("resource_load_failed", "url", url, "error", err)
				return nil, &ResourceLoadError{URL: url, Err: err}
			}
			slog.Info("resource_loaded", "url", url)
		}
		l.mu.Lock()
		l.loaded = true
		l.mu.Unlock()
		return nil, nil
	})
	return err
}

// Loaded reports whether all resources have been loaded.
func (l *Loader) Loaded() bool {
	return l.isLoaded()
}

func (l *Loader) isLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

func (l *Loader) fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	// Drain so the connection can be reused; the bundle content itself is
	// only meaningful to a browser.
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}
