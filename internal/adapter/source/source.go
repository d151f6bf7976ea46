package source

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/mmcdole/photodeck/internal/adapter"
	"github.com/mmcdole/photodeck/internal/adapter/source/rest"
	"github.com/mmcdole/photodeck/internal/domain"
)

// SourceConfig contains the configuration needed to create a catalog source
type SourceConfig struct {
	BaseURL string
	API     adapter.APIConfig
}

// NewClient creates a CatalogRepository for the configured API
func NewClient(cfg *SourceConfig, logger *slog.Logger) (domain.CatalogRepository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base URL %q", cfg.BaseURL)
	}
	return rest.NewClient(cfg.BaseURL, cfg.API.Timeout, cfg.API.Latency, logger), nil
}

// NewClientFromConfig creates a CatalogRepository from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (domain.CatalogRepository, error) {
	return NewClient(&SourceConfig{BaseURL: cfg.API.BaseURL, API: cfg.API}, logger)
}
