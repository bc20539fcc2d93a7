// Package config loads application settings: built-in defaults, then an
// optional JSON file in the user config directory, then environment
// overrides.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"screen-translator/internal/ocr"
	"screen-translator/internal/resilience"
	"screen-translator/internal/translate"
)

const (
	appDir     = "screen-translator"
	configFile = "config.json"
	envPrefix  = "ST_"
)

// Config holds the application configuration.
type Config struct {
	OCR       OCRConfig       `json:"ocr"`
	Translate TranslateConfig `json:"translate"`
	Pool      PoolConfig      `json:"pool"`
	UI        UIConfig        `json:"ui"`
	Log       LogConfig       `json:"log"`
	// Workspace is the scratch directory; empty means a private temp dir.
	Workspace string `json:"workspace"`
}

// OCRConfig holds engine and filtering settings.
type OCRConfig struct {
	TessdataPrefix string              `json:"tessdata_prefix"`
	Level          string              `json:"level"`
	Primary        [][]string          `json:"primary"`
	Extras         map[string][]string `json:"extras"`
	HighConfidence float64             `json:"high_confidence"`
	ReprocessFloor float64             `json:"reprocess_floor"`
	ShortText      int                 `json:"short_text"`
	ShortMin       float64             `json:"short_min"`
	LongMin        float64             `json:"long_min"`
	FallbackToRaw  bool                `json:"fallback_to_raw"`
}

// TranslateConfig holds translation backend and retry settings.
type TranslateConfig struct {
	Endpoint    string   `json:"endpoint"`
	Timeout     Duration `json:"timeout"`
	ChunkSize   int      `json:"chunk_size"`
	MaxAttempts int      `json:"max_attempts"`
	RetryDelay  Duration `json:"retry_delay"`
	ErrorMarker string   `json:"error_marker"`
}

// PoolConfig sizes the background worker pool.
type PoolConfig struct {
	Workers int `json:"workers"`
}

// UIConfig holds window defaults.
type UIConfig struct {
	SourceLanguage string  `json:"source_language"`
	TargetLanguage string  `json:"target_language"`
	Width          float32 `json:"width"`
	Height         float32 `json:"height"`
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `json:"level"`
}

// Duration is a time.Duration that reads and writes as "1s"-style strings.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// Default returns a configuration with default values.
func Default() *Config {
	th := ocr.DefaultThresholds()
	reg := ocr.DefaultRegistryOptions()
	return &Config{
		OCR: OCRConfig{
			Level:          "line",
			Primary:        reg.Primary,
			Extras:         reg.Extras,
			HighConfidence: th.HighConfidence,
			ReprocessFloor: th.ReprocessFloor,
			ShortText:      th.ShortText,
			ShortMin:       th.ShortMin,
			LongMin:        th.LongMin,
			FallbackToRaw:  th.FallbackToRaw,
		},
		Translate: TranslateConfig{
			Endpoint:    translate.DefaultEndpoint,
			Timeout:     Duration(15 * time.Second),
			ChunkSize:   translate.DefaultChunkSize,
			MaxAttempts: resilience.DefaultMaxAttempts,
			RetryDelay:  Duration(resilience.DefaultDelay),
			ErrorMarker: translate.DefaultErrorMarker,
		},
		Pool: PoolConfig{Workers: 2},
		UI: UIConfig{
			SourceLanguage: translate.Auto,
			TargetLanguage: "ru",
			Width:          900,
			Height:         700,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, appDir, configFile)
}

// Load reads defaults, the file at DefaultPath if it exists, and
// environment overrides, then validates the result.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom is Load with an explicit file path. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a JSON file over the defaults,
// without environment overrides. The file must exist.
func LoadFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	slog.Debug("config file loaded", "path", path)
	return nil
}

// SaveToFile writes the configuration as indented JSON.
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnv() {
	c.OCR.TessdataPrefix = getEnv("TESSDATA_PREFIX", c.OCR.TessdataPrefix)
	c.OCR.Level = getEnv("OCR_LEVEL", c.OCR.Level)
	c.OCR.HighConfidence = getEnvFloat("OCR_HIGH_CONFIDENCE", c.OCR.HighConfidence)
	c.OCR.ReprocessFloor = getEnvFloat("OCR_REPROCESS_FLOOR", c.OCR.ReprocessFloor)
	c.OCR.FallbackToRaw = getEnvBool("OCR_FALLBACK_TO_RAW", c.OCR.FallbackToRaw)
	c.Translate.Endpoint = getEnv("TRANSLATE_ENDPOINT", c.Translate.Endpoint)
	c.Translate.Timeout = Duration(getEnvDuration("TRANSLATE_TIMEOUT", time.Duration(c.Translate.Timeout)))
	c.Translate.ChunkSize = getEnvInt("TRANSLATE_CHUNK_SIZE", c.Translate.ChunkSize)
	c.Translate.MaxAttempts = getEnvInt("TRANSLATE_MAX_ATTEMPTS", c.Translate.MaxAttempts)
	c.Translate.RetryDelay = Duration(getEnvDuration("TRANSLATE_RETRY_DELAY", time.Duration(c.Translate.RetryDelay)))
	c.Pool.Workers = getEnvInt("WORKERS", c.Pool.Workers)
	c.UI.SourceLanguage = getEnv("SOURCE_LANG", c.UI.SourceLanguage)
	c.UI.TargetLanguage = getEnv("TARGET_LANG", c.UI.TargetLanguage)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Workspace = getEnv("WORKSPACE", c.Workspace)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"ocr.high_confidence": c.OCR.HighConfidence,
		"ocr.reprocess_floor": c.OCR.ReprocessFloor,
		"ocr.short_min":       c.OCR.ShortMin,
		"ocr.long_min":        c.OCR.LongMin,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %g", name, v)
		}
	}
	if _, err := ocr.ParseLevel(c.OCR.Level); err != nil {
		return err
	}
	if len(c.OCR.Primary) == 0 {
		return fmt.Errorf("ocr.primary must list at least one language set")
	}
	if c.Translate.ChunkSize <= 0 {
		return fmt.Errorf("translate.chunk_size must be positive, got %d", c.Translate.ChunkSize)
	}
	if c.Translate.MaxAttempts <= 0 {
		return fmt.Errorf("translate.max_attempts must be positive, got %d", c.Translate.MaxAttempts)
	}
	if c.Translate.RetryDelay < 0 {
		return fmt.Errorf("translate.retry_delay must not be negative")
	}
	if _, err := translate.ParseLanguage(c.UI.SourceLanguage); err != nil {
		return fmt.Errorf("ui.source_language: %w", err)
	}
	if translate.IsAuto(c.UI.TargetLanguage) {
		return fmt.Errorf("ui.target_language cannot be %q", translate.Auto)
	}
	if _, err := translate.ParseLanguage(c.UI.TargetLanguage); err != nil {
		return fmt.Errorf("ui.target_language: %w", err)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Thresholds returns the OCR filtering thresholds.
func (c *Config) Thresholds() ocr.Thresholds {
	return ocr.Thresholds{
		HighConfidence: c.OCR.HighConfidence,
		ReprocessFloor: c.OCR.ReprocessFloor,
		ShortText:      c.OCR.ShortText,
		ShortMin:       c.OCR.ShortMin,
		LongMin:        c.OCR.LongMin,
		FallbackToRaw:  c.OCR.FallbackToRaw,
	}
}

// EngineOptions returns the base Tesseract options.
func (c *Config) EngineOptions() ocr.EngineOptions {
	return ocr.EngineOptions{
		TessdataPrefix: c.OCR.TessdataPrefix,
		Level:          c.OCR.Level,
	}
}

// RegistryOptions returns the OCR language groups.
func (c *Config) RegistryOptions() ocr.RegistryOptions {
	return ocr.RegistryOptions{Primary: c.OCR.Primary, Extras: c.OCR.Extras}
}

// TranslateOptions returns chunking and retry settings.
func (c *Config) TranslateOptions() translate.Options {
	policy := resilience.DefaultPolicy()
	policy.MaxAttempts = c.Translate.MaxAttempts
	policy.Delay = time.Duration(c.Translate.RetryDelay)
	return translate.Options{
		ChunkSize:   c.Translate.ChunkSize,
		Policy:      policy,
		ErrorMarker: c.Translate.ErrorMarker,
	}
}

// ParseLogLevel maps a level name to a slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		slog.Warn("ignoring invalid integer env var", "key", envPrefix+key, "value", v)
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(envPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("ignoring invalid float env var", "key", envPrefix+key, "value", v)
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		slog.Warn("ignoring invalid bool env var", "key", envPrefix+key, "value", v)
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(envPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("ignoring invalid duration env var", "key", envPrefix+key, "value", v)
	}
	return def
}
