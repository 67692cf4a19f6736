package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/brogergvhs/storyd/internal/downloader"
	"github.com/brogergvhs/storyd/internal/epub"
	"github.com/brogergvhs/storyd/internal/fetch"
	"github.com/brogergvhs/storyd/internal/providers/literotica"
	"github.com/brogergvhs/storyd/internal/proxy"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Output string `yaml:"output"`
	Debug  bool   `yaml:"debug"`

	DefaultURL     string `yaml:"default_url"`
	DefaultChapter string `yaml:"default_chapter"`
	DefaultRange   string `yaml:"default_range"`
	DefaultList    string `yaml:"default_list"`

	Proxies        []string      `yaml:"proxies"`
	MaxAttempts    int           `yaml:"max_attempts"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Backoff        time.Duration `yaml:"backoff"`
	ChapterDelay   time.Duration `yaml:"chapter_delay"`
	MinBodyLength  int           `yaml:"min_body_length"`

	SeriesSelector   string   `yaml:"series_selector"`
	ContentSelectors []string `yaml:"content_selectors"`
	Language         string   `yaml:"language"`

	Cookie           string `yaml:"cookie"`
	CookieFile       string `yaml:"cookie_file"`
	UserAgent        string `yaml:"user_agent"`
	CloudflareBypass bool   `yaml:"cloudflare_bypass"`
}

type Options struct {
	IgnoreConfig     bool
	Debug            bool
	Output           string
	DefaultURL       string
	DefaultChapter   string
	DefaultRange     string
	DefaultList      string
	Proxies          []string
	MaxAttempts      int
	RequestTimeout   time.Duration
	ChapterDelay     time.Duration
	Cookie           string
	CookieFile       string
	UserAgent        string
	CloudflareBypass bool
}

func DefaultConfig() *Config {
	return &Config{
		Output:           ".",
		Debug:            false,
		DefaultURL:       "",
		DefaultChapter:   "",
		DefaultRange:     "",
		DefaultList:      "",
		Proxies:          append([]string(nil), proxy.DefaultEndpoints...),
		MaxAttempts:      fetch.DefaultMaxAttempts,
		RequestTimeout:   fetch.DefaultTimeout,
		Backoff:          fetch.DefaultBackoff,
		ChapterDelay:     downloader.DefaultChapterDelay,
		MinBodyLength:    fetch.DefaultMinBodyLength,
		SeriesSelector:   literotica.DefaultSeriesSelector,
		ContentSelectors: append([]string(nil), literotica.DefaultContentSelectors...),
		Language:         epub.DefaultLanguage,
		Cookie:           "",
		CookieFile:       "",
		UserAgent:        "",
		CloudflareBypass: false,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// keys missing from the file keep their default values
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `storyd config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Debug {
		c.Debug = true
	}
	if o.DefaultURL != "" {
		c.DefaultURL = o.DefaultURL
	}
	if o.DefaultChapter != "" {
		c.DefaultChapter = o.DefaultChapter
	}
	if o.DefaultRange != "" {
		c.DefaultRange = o.DefaultRange
	}
	if o.DefaultList != "" {
		c.DefaultList = o.DefaultList
	}
	if len(o.Proxies) > 0 {
		c.Proxies = o.Proxies
	}
	if o.MaxAttempts != 0 {
		c.MaxAttempts = o.MaxAttempts
	}
	if o.RequestTimeout != 0 {
		c.RequestTimeout = o.RequestTimeout
	}
	if o.ChapterDelay != 0 {
		c.ChapterDelay = o.ChapterDelay
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.CloudflareBypass {
		c.CloudflareBypass = true
	}
}

// normalizeDefaults fills zero values a hand-edited profile may leave out.
// Backoff and ChapterDelay may legitimately be zero and are left alone.
func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "."
	}
	if len(c.Proxies) == 0 {
		c.Proxies = append([]string(nil), proxy.DefaultEndpoints...)
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = fetch.DefaultMaxAttempts
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = fetch.DefaultTimeout
	}
	if c.MinBodyLength <= 0 {
		c.MinBodyLength = fetch.DefaultMinBodyLength
	}
	if c.SeriesSelector == "" {
		c.SeriesSelector = literotica.DefaultSeriesSelector
	}
	if len(c.ContentSelectors) == 0 {
		c.ContentSelectors = append([]string(nil), literotica.DefaultContentSelectors...)
	}
	if c.Language == "" {
		c.Language = epub.DefaultLanguage
	}
}

func (c *Config) Print() {
	c.Fprint(os.Stdout)
}

func (c *Config) Fprint(w io.Writer) {
	if c.Output != "" {
		fmt.Fprintf(w, " -output: %s\n", c.Output)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.DefaultURL != "" {
		fmt.Fprintf(w, " -url: %s\n", c.DefaultURL)
	}
	if c.DefaultChapter != "" {
		fmt.Fprintf(w, " -chapter: %s\n", c.DefaultChapter)
	}
	if c.DefaultRange != "" {
		fmt.Fprintf(w, " -range: %s\n", c.DefaultRange)
	}
	if c.DefaultList != "" {
		fmt.Fprintf(w, " -list: %s\n", c.DefaultList)
	}
	if len(c.Proxies) > 0 {
		fmt.Fprintf(w, " -proxies: %s\n", strings.Join(c.Proxies, ", "))
	}
	fmt.Fprintf(w, " -max_attempts: %d\n", c.MaxAttempts)
	fmt.Fprintf(w, " -request_timeout: %s\n", c.RequestTimeout)
	fmt.Fprintf(w, " -backoff: %s\n", c.Backoff)
	fmt.Fprintf(w, " -chapter_delay: %s\n", c.ChapterDelay)
	fmt.Fprintf(w, " -min_body_length: %d\n", c.MinBodyLength)
	if c.SeriesSelector != "" {
		fmt.Fprintf(w, " -series_selector: %s\n", c.SeriesSelector)
	}
	if len(c.ContentSelectors) > 0 {
		fmt.Fprintf(w, " -content_selectors: %s\n", strings.Join(c.ContentSelectors, " | "))
	}
	if c.Language != "" {
		fmt.Fprintf(w, " -language: %s\n", c.Language)
	}
	if c.CookieFile != "" {
		fmt.Fprintf(w, " -cookie_file: %s\n", c.CookieFile)
	}
	if c.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.UserAgent)
	}
	if c.CloudflareBypass {
		fmt.Fprintf(w, " -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
}
