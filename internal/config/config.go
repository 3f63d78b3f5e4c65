// Package config handles loading and validating the newsvox configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the newsvox daemon.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Transports  TransportsConfig  `mapstructure:"transports"`
	State       StateConfig       `mapstructure:"state"`
	News        NewsConfig        `mapstructure:"news"`
	Translation TranslationConfig `mapstructure:"translation"`
	Speech      SpeechConfig      `mapstructure:"speech"`
	TTS         TTSConfig         `mapstructure:"tts"`
	STT         STTConfig         `mapstructure:"stt"`
	Prefs       PrefsConfig       `mapstructure:"prefs"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	GRPC GRPCConfig `mapstructure:"grpc"`
	HTTP HTTPConfig `mapstructure:"http"`
}

// GRPCConfig configures the gRPC transport.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// StateConfig sets the application state the daemon starts with.
type StateConfig struct {
	Category         string `mapstructure:"category"`
	Country          string `mapstructure:"country"`
	ReadingLanguage  string `mapstructure:"reading_language"`  // ISO-639-1, e.g. "en"
	SpeakingLanguage string `mapstructure:"speaking_language"` // speech locale, e.g. "en-US"
	LoadOnStart      bool   `mapstructure:"load_on_start"`
}

// NewsConfig selects and configures the News Source backend.
type NewsConfig struct {
	Backend string        `mapstructure:"backend"` // "gnews" or "rss"
	GNews   GNewsConfig   `mapstructure:"gnews"`
	RSS     RSSConfig     `mapstructure:"rss"`
	Breaker BreakerConfig `mapstructure:"breaker"`
}

// GNewsConfig holds GNews v4 API settings.
type GNewsConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	FetchMax          int           `mapstructure:"fetch_max"`
	SearchMax         int           `mapstructure:"search_max"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// RSSConfig maps categories to RSS/Atom feed URLs.
type RSSConfig struct {
	Feeds map[string][]string `mapstructure:"feeds"`
	Max   int                 `mapstructure:"max"`
}

// BreakerConfig controls the circuit breaker wrapped around the news backend.
type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// TranslationConfig selects the Translation Service backend.
type TranslationConfig struct {
	Backend string            `mapstructure:"backend"` // "none" or "openai"
	OpenAI  OpenAITransConfig `mapstructure:"openai"`
}

// OpenAITransConfig holds OpenAI settings for article translation.
type OpenAITransConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SpeechConfig configures the Speech Output collaborator.
type SpeechConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Feedback bool   `mapstructure:"feedback"` // speak command responses aloud
	Sink     string `mapstructure:"sink"`     // "buffer" or "exec"
	Player   string `mapstructure:"player"`   // command for the exec sink, e.g. "aplay -q -"
}

// TTSConfig selects and configures the text-to-speech backend.
type TTSConfig struct {
	Backend string      `mapstructure:"backend"` // "piper"
	Piper   PiperConfig `mapstructure:"piper"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
//
// For a single Piper instance that serves all languages, set Endpoint.
// Endpoints maps speech locales or ISO-639-1 codes to per-language Wyoming
// TCP endpoints; when both are set, Endpoints wins and Endpoint is the fallback.
type PiperConfig struct {
	Endpoint  string            `mapstructure:"endpoint"`
	Endpoints map[string]string `mapstructure:"endpoints"`
	Voices    map[string]string `mapstructure:"voices"` // locale or language -> Piper voice model
}

// STTConfig selects the speech-to-text backend used for audio input.
type STTConfig struct {
	Backend string          `mapstructure:"backend"` // "none", "openai" or "local"
	OpenAI  OpenAISTTConfig `mapstructure:"openai"`
	Local   LocalSTTConfig  `mapstructure:"local"`
}

// OpenAISTTConfig holds OpenAI transcription settings.
type OpenAISTTConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// LocalSTTConfig holds self-hosted Whisper settings.
type LocalSTTConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Type      string `mapstructure:"type"` // "openai" (default) or "asr" (ahmetoner/whisper-asr-webservice)
	Model     string `mapstructure:"model"`
	VADFilter bool   `mapstructure:"vad_filter"`
	Language  string `mapstructure:"language"`
}

// PrefsConfig locates the language preference store.
type PrefsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // SQLite file, or ":memory:"
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./newsvox.yaml, ./configs/newsvox.yaml, /etc/newsvox/newsvox.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("newsvox")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/newsvox")
	}

	// Environment variables: NEWSVOX_NEWS_BACKEND, NEWSVOX_NEWS_GNEWS_API_KEY, etc.
	v.SetEnvPrefix("NEWSVOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.News.GNews.APIKey = resolveEnvRef(cfg.News.GNews.APIKey)
	cfg.Translation.OpenAI.APIKey = resolveEnvRef(cfg.Translation.OpenAI.APIKey)
	cfg.STT.OpenAI.APIKey = resolveEnvRef(cfg.STT.OpenAI.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.grpc.enabled", true)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("state.category", "general")
	v.SetDefault("state.country", "us")
	v.SetDefault("state.reading_language", "en")
	v.SetDefault("state.speaking_language", "en-US")
	v.SetDefault("state.load_on_start", true)
	v.SetDefault("news.backend", "gnews")
	v.SetDefault("news.gnews.base_url", "https://gnews.io/api/v4")
	v.SetDefault("news.gnews.fetch_max", 5)
	v.SetDefault("news.gnews.search_max", 20)
	v.SetDefault("news.gnews.requests_per_second", 1.0)
	v.SetDefault("news.gnews.timeout", "15s")
	v.SetDefault("news.rss.max", 20)
	v.SetDefault("news.breaker.enabled", true)
	v.SetDefault("news.breaker.max_failures", 3)
	v.SetDefault("news.breaker.open_timeout", "30s")
	v.SetDefault("translation.backend", "none")
	v.SetDefault("translation.openai.model", "gpt-4o-mini")
	v.SetDefault("speech.enabled", false)
	v.SetDefault("speech.feedback", true)
	v.SetDefault("speech.sink", "buffer")
	v.SetDefault("speech.player", "aplay -q -")
	v.SetDefault("tts.backend", "piper")
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("stt.backend", "none")
	v.SetDefault("stt.openai.model", "whisper-1")
	v.SetDefault("stt.local.endpoint", "http://localhost:8000/v1/audio/transcriptions")
	v.SetDefault("stt.local.type", "openai")
	v.SetDefault("prefs.enabled", true)
	v.SetDefault("prefs.path", "newsvox.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate rejects backend names the daemon does not know how to build.
func (c *Config) Validate() error {
	switch c.News.Backend {
	case "gnews", "rss":
	default:
		return fmt.Errorf("unknown news backend %q", c.News.Backend)
	}
	switch c.Translation.Backend {
	case "none", "openai":
	default:
		return fmt.Errorf("unknown translation backend %q", c.Translation.Backend)
	}
	switch c.STT.Backend {
	case "none", "openai", "local":
	default:
		return fmt.Errorf("unknown stt backend %q", c.STT.Backend)
	}
	switch c.Speech.Sink {
	case "buffer", "exec":
	default:
		return fmt.Errorf("unknown speech sink %q", c.Speech.Sink)
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
