package monitor

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/rs/zerolog"
)

// LinkSource lists the links whose destinations should be checked.
type LinkSource interface {
	GetAllActiveLinks(ctx context.Context) ([]models.Link, error)
}

// UrlMonitor periodically checks that the destinations of active links still
// answer, and logs every change of reachability.
type UrlMonitor struct {
	links       LinkSource
	interval    time.Duration
	knownStates map[string]bool // link ID -> reachable
	mu          sync.Mutex
	httpClient  *http.Client
	log         zerolog.Logger
}

// NewUrlMonitor creates a monitor checking every interval.
func NewUrlMonitor(links LinkSource, interval time.Duration, log zerolog.Logger) *UrlMonitor {
	return &UrlMonitor{
		links:       links,
		interval:    interval,
		knownStates: make(map[string]bool),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			// A redirecting destination is reachable; do not follow it.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: log.With().Str("component", "monitor").Logger(),
	}
}

// Start runs an immediate check and then one per interval until ctx is done.
func (m *UrlMonitor) Start(ctx context.Context) {
	m.log.Info().Dur("interval", m.interval).Msg("starting URL monitor")
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.checkUrls(ctx)
	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("URL monitor stopped")
			return
		case <-ticker.C:
			m.checkUrls(ctx)
		}
	}
}

// State reports the last known reachability of a link.
func (m *UrlMonitor) State(linkID string) (reachable, known bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reachable, known = m.knownStates[linkID]
	return reachable, known
}

func (m *UrlMonitor) checkUrls(ctx context.Context) {
	links, err := m.links.GetAllActiveLinks(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load links for monitoring")
		return
	}

	for _, link := range links {
		if ctx.Err() != nil {
			return
		}

		current, err := m.isUrlAccessible(ctx, link.OriginalURL)
		if err != nil {
			m.log.Debug().Err(err).Str("slug", link.Slug).Msg("destination check failed")
		}

		m.mu.Lock()
		previous, seen := m.knownStates[link.ID]
		m.knownStates[link.ID] = current
		m.mu.Unlock()

		if !seen {
			m.log.Info().
				Str("slug", link.Slug).
				Str("url", link.OriginalURL).
				Str("state", formatState(current)).
				Msg("initial destination state")
			continue
		}

		if current != previous {
			m.log.Warn().
				Str("slug", link.Slug).
				Str("url", link.OriginalURL).
				Str("from", formatState(previous)).
				Str("to", formatState(current)).
				Msg("destination state changed")
		}
	}
}

// isUrlAccessible sends a HEAD request; 2xx and 3xx count as reachable.
func (m *UrlMonitor) isUrlAccessible(ctx context.Context, url string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false, customerrors.ErrURLCheckFailed{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return true, nil
	}
	return false, customerrors.ErrURLCheckFailed{URL: url, Reason: fmt.Sprintf("status %d", resp.StatusCode)}
}

func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}
