package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/photodeck/internal/domain"
)

// DefaultLatency is the artificial delay applied to every response
const DefaultLatency = 500 * time.Millisecond

// Loader fetches a JSON resource and decodes it. Every response is held back
// by a fixed latency before it is decoded. There are no retries.
type Loader struct {
	httpClient *http.Client
	latency    time.Duration
	logger     *slog.Logger
}

// NewLoader creates a loader. A zero timeout leaves the transport default in
// place; a negative latency is treated as none.
func NewLoader(timeout, latency time.Duration, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if latency < 0 {
		latency = 0
	}
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		latency:    latency,
		logger:     logger,
	}
}

// Load issues a GET for url and decodes the JSON body into dest
func (l *Loader) Load(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	l.logger.Debug("loader request", "url", url)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		l.logger.Error("loader request failed", "url", url, "error", err)
		return &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if err := l.wait(ctx); err != nil {
		return &domain.FetchError{URL: url, Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.FetchError{URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.logger.Error("loader request error", "url", url, "status", resp.StatusCode, "body", string(body))
		return &domain.FetchError{URL: url, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		l.logger.Error("loader decode failed", "url", url, "error", err)
		return &domain.FetchError{URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (l *Loader) wait(ctx context.Context) error {
	if l.latency == 0 {
		return nil
	}
	timer := time.NewTimer(l.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
