// Package config holds the run configuration: the site list and the
// politeness, quality and output tunables of the collector.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"malawi-news/pkg/domain"
)

// Configuration validation errors.
var (
	ErrNoSites             = errors.New("at least one site is required")
	ErrSiteMissingName     = errors.New("site name is required")
	ErrSiteMissingHomepage = errors.New("site homepage_url is required")
	ErrInvalidMaxPerSource = errors.New("max_per_source must be at least 1")
	ErrInvalidTimeout      = errors.New("request_timeout must be positive")
	ErrNegativeDelay       = errors.New("delays must be non-negative")
	ErrInvalidLimits       = errors.New("min_text_length, summary_limit and preview_limit must be positive")
	ErrMissingOutputPath   = errors.New("output_path is required")
	ErrInvalidClientType   = errors.New("client_type must be browser or cloudflare")
)

const (
	DefaultMaxPerSource    = 10
	DefaultRequestTimeout  = 10 * time.Second
	DefaultPolitenessDelay = 3 * time.Second
	DefaultSiteDelay       = 5 * time.Second
	DefaultMinHostInterval = 500 * time.Millisecond
	DefaultMinTextLength   = 120
	DefaultSummaryLimit    = 300
	DefaultPreviewLimit    = 400
	DefaultOutputPath      = "public/malawi_news.json"
	DefaultClientType      = "browser"
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// DefaultSites is the built-in list of Malawian news sites
var DefaultSites = []domain.SiteSpec{
	{Name: "Nyasa Times", HomepageURL: "https://www.nyasatimes.com/", FeedURLs: []string{"https://www.nyasatimes.com/feed/"}},
	{Name: "Malawi 24", HomepageURL: "https://malawi24.com/", FeedURLs: []string{"https://malawi24.com/feed/"}},
	{Name: "Face of Malawi", HomepageURL: "https://www.faceofmalawi.com/", FeedURLs: []string{"https://www.faceofmalawi.com/feed/"}},
	{Name: "Malawi Voice", HomepageURL: "https://www.malawivoice.com/", FeedURLs: []string{"https://www.malawivoice.com/feed/"}},
	{Name: "Maravi Express", HomepageURL: "https://www.maraviexpress.com/", FeedURLs: []string{"https://www.maraviexpress.com/feed/"}},
	{Name: "Times 360 Malawi / Times Group", HomepageURL: "https://times.mw/", FeedURLs: []string{"https://times.mw/feed/"}},
	{Name: "Nation Online (The Nation)", HomepageURL: "https://mwnation.com/", FeedURLs: []string{"https://mwnation.com/feed/"}},
	{Name: "Malawi News Agency (MANA)", HomepageURL: "https://www.manaonline.gov.mw/"},
}

// Config is the complete run configuration
type Config struct {
	Sites []domain.SiteSpec `yaml:"sites"`

	MaxPerSource    int           `yaml:"max_per_source"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	PolitenessDelay time.Duration `yaml:"politeness_delay"`
	SiteDelay       time.Duration `yaml:"site_delay"`
	MinHostInterval time.Duration `yaml:"min_host_interval"`
	UserAgent       string        `yaml:"user_agent"`
	// ClientType selects the request header set: "browser" or "cloudflare" (curl-like)
	ClientType      string        `yaml:"client_type"`

	MinTextLength int `yaml:"min_text_length"`
	SummaryLimit  int `yaml:"summary_limit"`
	PreviewLimit  int `yaml:"preview_limit"`

	OutputPath string `yaml:"output_path"`
}

// Default returns the built-in configuration
func Default() *Config {
	sites := make([]domain.SiteSpec, len(DefaultSites))
	copy(sites, DefaultSites)

	return &Config{
		Sites:           sites,
		MaxPerSource:    DefaultMaxPerSource,
		RequestTimeout:  DefaultRequestTimeout,
		PolitenessDelay: DefaultPolitenessDelay,
		SiteDelay:       DefaultSiteDelay,
		MinHostInterval: DefaultMinHostInterval,
		UserAgent:       DefaultUserAgent,
		ClientType:      DefaultClientType,
		MinTextLength:   DefaultMinTextLength,
		SummaryLimit:    DefaultSummaryLimit,
		PreviewLimit:    DefaultPreviewLimit,
		OutputPath:      DefaultOutputPath,
	}
}

// Load reads a YAML file on top of the defaults.
// Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML bytes on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the collector cannot run with
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return ErrNoSites
	}
	for i, site := range c.Sites {
		if site.Name == "" {
			return fmt.Errorf("sites[%d]: %w", i, ErrSiteMissingName)
		}
		if site.HomepageURL == "" {
			return fmt.Errorf("sites[%d] (%s): %w", i, site.Name, ErrSiteMissingHomepage)
		}
	}

	if c.MaxPerSource < 1 {
		return ErrInvalidMaxPerSource
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.PolitenessDelay < 0 || c.SiteDelay < 0 || c.MinHostInterval < 0 {
		return ErrNegativeDelay
	}
	if c.MinTextLength < 1 || c.SummaryLimit < 1 || c.PreviewLimit < 1 {
		return ErrInvalidLimits
	}
	if c.OutputPath == "" {
		return ErrMissingOutputPath
	}
	if c.ClientType != "browser" && c.ClientType != "cloudflare" {
		return ErrInvalidClientType
	}

	return nil
}
