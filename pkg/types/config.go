package types

import (
	"fmt"
	"net"
	"time"
)

// HTTPConfig holds shared HTTP settings used by every outbound client.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the client without one.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paprly/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ArxivConfig holds settings for the arXiv export API client.
type ArxivConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIBase is the query endpoint (default https://export.arxiv.org/api/query).
	APIBase string `json:"api_base" yaml:"api_base"`

	// SearchInterval is the minimum spacing between search requests (default 3s).
	SearchInterval time.Duration `json:"search_interval" yaml:"search_interval"`

	// MaxRetries bounds 429 retries for search requests (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// BackendConfig holds settings for the external search/summarization service.
type BackendConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the service base URL (default http://127.0.0.1:8000). An empty
	// value disables the backend; search then queries arXiv directly.
	URL string `json:"url" yaml:"url"`

	// APIKey is sent as a bearer token when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// StoreConfig holds settings for the SQLite store.
type StoreConfig struct {
	// Path is the database file (default data/paprly.db).
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default :8080).
	Addr string `json:"addr" yaml:"addr"`

	// RateLimit is the per-client request rate, in requests per second, for
	// routes that call arXiv or the backend.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// RateBurst is the burst size for RateLimit.
	RateBurst int `json:"rate_burst" yaml:"rate_burst"`

	// TrustedProxies lists CIDRs whose X-Forwarded-For header is believed
	// when identifying a client. Empty means the peer address is used.
	TrustedProxies []string `json:"trusted_proxies" yaml:"trusted_proxies"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// AppConfig groups every component configuration.
type AppConfig struct {
	Arxiv   ArxivConfig   `json:"arxiv" yaml:"arxiv"`
	Backend BackendConfig `json:"backend" yaml:"backend"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

const DefaultUserAgent = "paprly/0.1"

// DefaultAppConfig returns the configuration used when nothing is overridden.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Arxiv: ArxivConfig{
			HTTPConfig:     HTTPConfig{Timeout: 60 * time.Second, UserAgent: DefaultUserAgent},
			APIBase:        "https://export.arxiv.org/api/query",
			SearchInterval: 3 * time.Second,
			MaxRetries:     3,
		},
		Backend: BackendConfig{
			HTTPConfig: HTTPConfig{Timeout: 120 * time.Second, UserAgent: DefaultUserAgent},
			URL:        "http://127.0.0.1:8000",
		},
		Store: StoreConfig{Path: "data/paprly.db"},
		Server: ServerConfig{
			Addr:            ":8080",
			RateLimit:       2,
			RateBurst:       5,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Validate reports the first setting that cannot work.
func (c AppConfig) Validate() error {
	if c.Arxiv.APIBase == "" {
		return fmt.Errorf("arxiv.api_base is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("server.rate_limit and server.rate_burst must not be negative")
	}
	for _, cidr := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("server.trusted_proxies: %w", err)
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
