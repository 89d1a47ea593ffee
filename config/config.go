// Package config loads paperdoc settings. PAPERDOC_* environment variables
// override the YAML file, which overrides the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ByLCY/paperdoc/layout"
)

// EnvPrefix is prepended to every environment override, e.g.
// PAPERDOC_GEMINI_API_KEY or PAPERDOC_PDF_BACKEND.
const EnvPrefix = "PAPERDOC"

// Config is the full application configuration.
type Config struct {
	PDF    PDFConfig    `mapstructure:"pdf" yaml:"pdf"`
	DOCX   DOCXConfig   `mapstructure:"docx" yaml:"docx"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Gemini GeminiConfig `mapstructure:"gemini" yaml:"gemini"`
}

// PDFConfig selects the paginated backend and page geometry.
type PDFConfig struct {
	// Backend is "canvas" (embedded Latin Modern) or "fpdf" (Helvetica).
	Backend  string   `mapstructure:"backend" yaml:"backend"`
	PageSize string   `mapstructure:"page_size" yaml:"page_size"`
	Margin   string   `mapstructure:"margin" yaml:"margin"`
	Fonts    PDFFonts `mapstructure:"fonts" yaml:"fonts"`
}

// PDFFonts are optional font file paths for the canvas backend. Empty
// entries keep the embedded Latin Modern faces; Fallback supplies glyphs the
// primary faces lack and defaults to Latin Modern Math.
type PDFFonts struct {
	Regular    string `mapstructure:"regular" yaml:"regular"`
	Bold       string `mapstructure:"bold" yaml:"bold"`
	Italic     string `mapstructure:"italic" yaml:"italic"`
	BoldItalic string `mapstructure:"bold_italic" yaml:"bold_italic"`
	Fallback   string `mapstructure:"fallback" yaml:"fallback"`
}

// paths lists the configured entries by their config key.
func (f PDFFonts) paths() map[string]string {
	return map[string]string{
		"regular":     f.Regular,
		"bold":        f.Bold,
		"italic":      f.Italic,
		"bold_italic": f.BoldItalic,
		"fallback":    f.Fallback,
	}
}

// DOCXConfig controls the flow document font. FontSize is in half-points.
type DOCXConfig struct {
	FontFamily string `mapstructure:"font_family" yaml:"font_family"`
	FontSize   int    `mapstructure:"font_size" yaml:"font_size"`
}

type ServerConfig struct {
	Addr           string `mapstructure:"addr" yaml:"addr"`
	UploadDir      string `mapstructure:"upload_dir" yaml:"upload_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

type GeminiConfig struct {
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`
	Model      string        `mapstructure:"model" yaml:"model"`
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pdf.backend", "canvas")
	v.SetDefault("pdf.page_size", "A4")
	v.SetDefault("pdf.margin", "50pt")
	for _, key := range []string{"regular", "bold", "italic", "bold_italic", "fallback"} {
		v.SetDefault("pdf.fonts."+key, "")
	}
	v.SetDefault("docx.font_family", "Calibri")
	v.SetDefault("docx.font_size", 24)
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.max_retries", 3)
	v.SetDefault("gemini.timeout", 2*time.Minute)
}

// New returns a viper instance with defaults, env binding and, when path is
// empty, the standard search path (./paperdoc.yaml, ~/.config/paperdoc/).
func New(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("paperdoc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "paperdoc"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// GEMINI_API_KEY is the name the upstream tooling documents.
	_ = v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY")
	return v
}

// Load reads the configuration. A missing file is fine when path is empty;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	return FromViper(New(path), path != "")
}

// FromViper decodes and validates v. Set required when a config file must be
// present.
func FromViper(v *viper.Viper, required bool) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if required || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail late, at render time.
func (c *Config) Validate() error {
	switch c.PDF.Backend {
	case "canvas", "fpdf":
	default:
		return fmt.Errorf("pdf.backend %q: want canvas or fpdf", c.PDF.Backend)
	}
	if _, err := layout.ResolvePageSize(c.PDF.PageSize); err != nil {
		return fmt.Errorf("pdf.page_size: %w", err)
	}
	if _, err := layout.ParseLength(c.PDF.Margin); err != nil {
		return fmt.Errorf("pdf.margin: %w", err)
	}
	for key, path := range c.PDF.Fonts.paths() {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("pdf.fonts.%s: %w", key, err)
		}
	}
	if c.DOCX.FontSize <= 0 {
		return fmt.Errorf("docx.font_size must be positive, got %d", c.DOCX.FontSize)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}

// PageSize returns the resolved paginated page size.
func (c *Config) PageSize() layout.PageSize {
	size, err := layout.ResolvePageSize(c.PDF.PageSize)
	if err != nil {
		return layout.A4
	}
	return size
}

// MarginPt returns the paginated margin in points.
func (c *Config) MarginPt() float64 {
	l, err := layout.ParseLength(c.PDF.Margin)
	if err != nil {
		return 0
	}
	return l.ToPT()
}
