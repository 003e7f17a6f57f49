// Package config loads sentimentcsv settings from defaults, an optional YAML file,
// a .env file and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
	"gopkg.in/yaml.v3"

	"sentimentcsv/internal/dataset"
	"sentimentcsv/internal/selector"
	"sentimentcsv/internal/sentiment"
)

// Classifier strategy names.
const (
	ClassifierLexicon     = "lexicon"
	ClassifierHuggingFace = "huggingface"
	ClassifierGemini      = "gemini"
)

// ErrInputRequired is returned by Validate when no input file is configured.
var ErrInputRequired = errors.New("input_file is required (set INPUT_FILE in your environment or .env)")

// Config holds all run settings.
type Config struct {
	// Dataset
	InputFile  string   `yaml:"input_file" env:"INPUT_FILE"`
	OutputFile string   `yaml:"output_file" env:"OUTPUT_FILE"`
	InPlace    bool     `yaml:"in_place" env:"IN_PLACE"`
	NAValues   []string `yaml:"na_values" env:"NA_VALUES"`

	// Column selection: keywords win over the exact column when both are set
	TargetColumn   string   `yaml:"target_column" env:"TARGET_COLUMN"`
	ColumnKeywords []string `yaml:"column_keywords" env:"COLUMN_KEYWORDS"`

	// Classification
	Classifier        string  `yaml:"classifier" env:"CLASSIFIER"` // lexicon, huggingface, gemini
	PositiveThreshold float64 `yaml:"positive_threshold" env:"POSITIVE_THRESHOLD"`
	NegativeThreshold float64 `yaml:"negative_threshold" env:"NEGATIVE_THRESHOLD"`
	LexiconFile       string  `yaml:"lexicon_file" env:"LEXICON_FILE"`
	MaxTextLength     int     `yaml:"max_text_length" env:"MAX_TEXT_LENGTH"` // remote classifiers only; 0 disables truncation
	Workers           int     `yaml:"workers" env:"WORKERS"`

	// Hugging Face inference
	HFToken         string `yaml:"hf_api_token" env:"HF_API_TOKEN"`
	HFModel         string `yaml:"hf_model" env:"HF_MODEL"`
	HFFallbackModel string `yaml:"hf_fallback_model" env:"HF_FALLBACK_MODEL"`
	HFBaseURL       string `yaml:"hf_base_url" env:"HF_BASE_URL"`

	// Gemini
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"gemini_model" env:"GEMINI_MODEL"`

	// Remote calls
	RequestTimeout    time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`
	MaxAttempts       int           `yaml:"max_attempts" env:"MAX_ATTEMPTS"`

	// Observability
	MetricsFile string `yaml:"metrics_file" env:"METRICS_FILE"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`   // debug, info, warn, error
	LogFormat   string `yaml:"log_format" env:"LOG_FORMAT"` // console, json
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		OutputFile:        "results_with_sentiment.csv",
		NAValues:          append([]string(nil), dataset.DefaultNAValues...),
		TargetColumn:      "Coffee D - Notes",
		Classifier:        ClassifierLexicon,
		PositiveThreshold: 0.1,
		NegativeThreshold: -0.1,
		MaxTextLength:     sentiment.DefaultMaxTextLength,
		Workers:           1,
		HFModel:           sentiment.DefaultHFModel,
		HFFallbackModel:   sentiment.DefaultHFFallbackModel,
		HFBaseURL:         sentiment.DefaultHFBaseURL,
		GeminiModel:       sentiment.DefaultGeminiModel,
		RequestTimeout:    30 * time.Second,
		RequestsPerSecond: 5,
		MaxAttempts:       3,
		LogLevel:          "info",
		LogFormat:         "console",
	}
}

// Load builds a Config. path is an optional YAML file. envFile names the dotenv file
// to read; when empty ".env" is read if present.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := env.Load(cfg, &env.Options{SliceSep: ","}); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.InputFile = strings.TrimSpace(cfg.InputFile)
	cfg.OutputFile = strings.TrimSpace(cfg.OutputFile)
	return cfg, nil
}

// Validate checks the settings a run depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputFile) == "" {
		return ErrInputRequired
	}
	if !c.InPlace && strings.TrimSpace(c.OutputFile) == "" {
		return errors.New("output_file is required unless in_place is set")
	}
	switch c.Classifier {
	case ClassifierLexicon, ClassifierHuggingFace, ClassifierGemini:
	default:
		return fmt.Errorf("unknown classifier %q (want %s, %s or %s)",
			c.Classifier, ClassifierLexicon, ClassifierHuggingFace, ClassifierGemini)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return err
	}
	if _, err := c.Rule(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.MaxTextLength < 0 {
		return fmt.Errorf("max_text_length must be >= 0, got %d", c.MaxTextLength)
	}
	if c.Classifier == ClassifierGemini && c.GeminiAPIKey == "" {
		return errors.New("gemini_api_key is required for the gemini classifier (set GEMINI_API_KEY)")
	}
	return nil
}

// Thresholds returns the lexicon thresholds.
func (c *Config) Thresholds() sentiment.Thresholds {
	return sentiment.Thresholds{Positive: c.PositiveThreshold, Negative: c.NegativeThreshold}
}

// Rule returns the column selection rule.
func (c *Config) Rule() (selector.Rule, error) {
	if len(c.ColumnKeywords) > 0 {
		return selector.NewKeywordMatch(c.ColumnKeywords...)
	}
	if strings.TrimSpace(c.TargetColumn) == "" {
		return nil, errors.New("either target_column or column_keywords must be set")
	}
	return selector.ExactMatch{Name: c.TargetColumn}, nil
}

// OutputPath is where the result is written: the input itself for in-place runs.
func (c *Config) OutputPath() string {
	if c.InPlace {
		return c.InputFile
	}
	return c.OutputFile
}
