// Package config loads application configuration from config.yaml and
// COACHSCOUT_-prefixed environment variables.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search       SearchConfig       `yaml:"search" mapstructure:"search"`
	Discovery    DiscoveryConfig    `yaml:"discovery" mapstructure:"discovery"`
	Institutions InstitutionsConfig `yaml:"institutions" mapstructure:"institutions"`
	Profile      ProfileConfig      `yaml:"profile" mapstructure:"profile"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	OCR          OCRConfig          `yaml:"ocr" mapstructure:"ocr"`
	Render       RenderConfig       `yaml:"render" mapstructure:"render"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// SearchConfig holds Custom Search API credentials and pacing.
type SearchConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	CX     string `yaml:"cx" mapstructure:"cx"`
	// DelayMs is the pause between search API calls, the only scheduling
	// control in the pipeline.
	DelayMs int `yaml:"delay_ms" mapstructure:"delay_ms"`
}

// DiscoveryConfig configures the discovery-and-harvest pipeline.
type DiscoveryConfig struct {
	QueriesPerSchool     int    `yaml:"queries_per_school" mapstructure:"queries_per_school"`
	PerQueryMaxPages     int    `yaml:"per_query_max_pages" mapstructure:"per_query_max_pages"`
	MaxResultsPerSchool  int    `yaml:"max_results_per_school" mapstructure:"max_results_per_school"`
	MaxHTMLDocsPerResult int    `yaml:"max_html_docs_per_result" mapstructure:"max_html_docs_per_result"`
	TimeoutSecs          int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	KeywordProbeBytes    int    `yaml:"keyword_probe_bytes" mapstructure:"keyword_probe_bytes"`
	MinKeywordHits       int    `yaml:"min_keyword_hits" mapstructure:"min_keyword_hits"`
	Download             bool   `yaml:"download" mapstructure:"download"`
	OutputDir            string `yaml:"output_dir" mapstructure:"output_dir"`
	DocDir               string `yaml:"doc_dir" mapstructure:"doc_dir"`
	ProbeHTMLForDocs     bool   `yaml:"probe_html_for_docs" mapstructure:"probe_html_for_docs"`
	ProbeCommonPaths     bool   `yaml:"probe_common_paths" mapstructure:"probe_common_paths"`
	DownloadFromFallback bool   `yaml:"download_from_fallback" mapstructure:"download_from_fallback"`
}

// InstitutionsConfig configures the institution source.
type InstitutionsConfig struct {
	Path         string   `yaml:"path" mapstructure:"path"`
	StatesFilter []string `yaml:"states_filter" mapstructure:"states_filter"`
}

// ProfileConfig supplies the per-batch context applied to every mapped
// profile: the directory being processed is assumed single-sport when a line
// matches no sport keyword.
type ProfileConfig struct {
	DefaultSport string `yaml:"default_sport" mapstructure:"default_sport"`
	Location     string `yaml:"location" mapstructure:"location"`
	Organization string `yaml:"organization" mapstructure:"organization"`
	SourceURL    string `yaml:"source_url" mapstructure:"source_url"`
	// SportsTable optionally overrides the built-in keyword→sport table.
	SportsTable string `yaml:"sports_table" mapstructure:"sports_table"`
}

// StoreConfig configures the profile store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OCRConfig configures PDF text extraction.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	MistralKey    string `yaml:"mistral_api_key" mapstructure:"mistral_api_key"`
	MistralModel  string `yaml:"mistral_ocr_model" mapstructure:"mistral_ocr_model"`
}

// RenderConfig configures the HTML-to-PDF render fallback.
type RenderConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COACHSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("search.delay_ms", 250)
	v.SetDefault("discovery.queries_per_school", 6)
	v.SetDefault("discovery.per_query_max_pages", 3)
	v.SetDefault("discovery.max_results_per_school", 5)
	v.SetDefault("discovery.max_html_docs_per_result", 3)
	v.SetDefault("discovery.timeout_secs", 15)
	v.SetDefault("discovery.keyword_probe_bytes", 120000)
	v.SetDefault("discovery.min_keyword_hits", 1)
	v.SetDefault("discovery.output_dir", "output")
	v.SetDefault("discovery.doc_dir", "pdfs")
	v.SetDefault("discovery.probe_html_for_docs", true)
	v.SetDefault("discovery.probe_common_paths", true)
	v.SetDefault("discovery.download_from_fallback", true)
	v.SetDefault("profile.default_sport", "Soccer")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "coach-scout.db")
	v.SetDefault("ocr.provider", "local")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ocr.mistral_ocr_model", "pixtral-large-latest")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
