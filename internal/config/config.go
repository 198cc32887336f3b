// Package config provides application configuration with multi-source priority.
//
// Sources (highest to lowest):
//  1. Environment variables (MOVNA_* overrides, secrets)
//  2. Config file (~/.movna/config.yaml or ./config.yaml)
//  3. Defaults
//
// Every retrieval and validation tunable lives here rather than as literals
// in pipeline code: the constants drifted between deployments historically,
// so they are explicit, documented, and validated at startup.
//
// Security: the PostgreSQL password is masked in MarshalJSON/String.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Sentinel errors for configuration validation.
var (
	ErrConfigNil            = errors.New("configuration is nil")
	ErrInvalidModelName     = errors.New("invalid model name")
	ErrInvalidTemperature   = errors.New("invalid temperature")
	ErrInvalidMaxTokens     = errors.New("invalid max tokens")
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")
	ErrInvalidKnowledgePath = errors.New("invalid knowledge path")
	ErrInvalidBackend       = errors.New("invalid knowledge backend")
	ErrInvalidTopK          = errors.New("invalid retrieval top-k")
	ErrInvalidMinScore      = errors.New("invalid retrieval min score")
	ErrInvalidAnswerLength  = errors.New("invalid max answer length")
	ErrInvalidReplyLength   = errors.New("invalid max reply length")
	ErrInvalidHistoryTurns  = errors.New("invalid history max turns")
	ErrInvalidPostgresHost  = errors.New("invalid PostgreSQL host")
	ErrInvalidPostgresPort  = errors.New("invalid PostgreSQL port")
	ErrMissingAPIKey        = errors.New("missing API key")
)

// Knowledge index backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// DefaultEmbedderModel is the default Gemini embedder model. Its 768
// dimensions match the pgvector column in db/migrations.
const DefaultEmbedderModel = "text-embedding-004"

// RetrievalConfig holds the knowledge lookup and filtering tunables.
type RetrievalConfig struct {
	// TopK is the number of knowledge snippets injected into the prompt.
	TopK int `mapstructure:"top_k" json:"top_k"`
	// MinScore discards hits below this similarity score. 0 disables the threshold.
	MinScore float32 `mapstructure:"min_score" json:"min_score"`
	// MaxAnswerLength discards knowledge answers longer than this many characters.
	MaxAnswerLength int `mapstructure:"max_answer_length" json:"max_answer_length"`
	// Overfetch multiplies TopK when querying the index so filtering
	// still has enough candidates after discarding ineligible entries.
	Overfetch int `mapstructure:"overfetch" json:"overfetch"`
}

// ValidationConfig holds the reply validation policy.
type ValidationConfig struct {
	// Enabled turns reply validation on. Disabling it is an explicit
	// operator decision; unvalidated model output is never forwarded silently.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// MaxReplyLength rejects replies longer than this many characters.
	MaxReplyLength int `mapstructure:"max_reply_length" json:"max_reply_length"`
	// StrictScript additionally rejects replies mixing Hebrew and Latin letters.
	StrictScript bool `mapstructure:"strict_script" json:"strict_script"`
}

// HistoryConfig bounds caller-supplied conversation history.
type HistoryConfig struct {
	// MaxTurns caps the history turns sent to the completion engine,
	// dropping oldest first. 0 means unbounded.
	MaxTurns int `mapstructure:"max_turns" json:"max_turns"`
}

// Config stores application configuration.
type Config struct {
	// AI model configuration.
	ModelName     string  `mapstructure:"model_name" json:"model_name"`
	Temperature   float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens" json:"max_tokens"`
	EmbedderModel string  `mapstructure:"embedder_model" json:"embedder_model"`

	// Knowledge base.
	KnowledgePath    string `mapstructure:"knowledge_path" json:"knowledge_path"`
	KnowledgeBackend string `mapstructure:"knowledge_backend" json:"knowledge_backend"`

	Retrieval  RetrievalConfig  `mapstructure:"retrieval" json:"retrieval"`
	Validation ValidationConfig `mapstructure:"validation" json:"validation"`
	History    HistoryConfig    `mapstructure:"history" json:"history"`

	// Completion call pacing (protects upstream quota; not caller rate limiting).
	CompletionRPS   float64 `mapstructure:"completion_rps" json:"completion_rps"`
	CompletionBurst int     `mapstructure:"completion_burst" json:"completion_burst"`

	// PostgreSQL connection (knowledge_backend = "postgres" only).
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// HTTP serving.
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`

	// Observability (optional OTLP trace export).
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	Environment  string `mapstructure:"environment" json:"environment"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".movna")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_tokens", 1024)
	v.SetDefault("embedder_model", DefaultEmbedderModel)

	v.SetDefault("knowledge_path", "knowledge/qa_data.json")
	v.SetDefault("knowledge_backend", BackendMemory)

	v.SetDefault("retrieval.top_k", 3)
	v.SetDefault("retrieval.min_score", 0.0)
	v.SetDefault("retrieval.max_answer_length", 500)
	v.SetDefault("retrieval.overfetch", 2)

	v.SetDefault("validation.enabled", true)
	v.SetDefault("validation.max_reply_length", 2000)
	v.SetDefault("validation.strict_script", false)

	v.SetDefault("history.max_turns", 0)

	v.SetDefault("completion_rps", 10.0)
	v.SetDefault("completion_burst", 30)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "movna")
	v.SetDefault("postgres_db_name", "movna")
	v.SetDefault("postgres_ssl_mode", "disable")

	v.SetDefault("cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("environment", "dev")
}

// bindEnvVariables binds environment overrides explicitly.
// GEMINI_API_KEY is read by the Genkit plugin directly, not via Viper;
// Validate only checks its presence.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "MOVNA_MODEL_NAME")
	mustBind("knowledge_path", "MOVNA_KNOWLEDGE_PATH")
	mustBind("knowledge_backend", "MOVNA_KNOWLEDGE_BACKEND")
	mustBind("postgres_password", "MOVNA_POSTGRES_PASSWORD")
	mustBind("cors_origins", "MOVNA_CORS_ORIGINS")
	mustBind("trust_proxy", "MOVNA_TRUST_PROXY")
	mustBind("otlp_endpoint", "MOVNA_OTLP_ENDPOINT")
}

// PostgresURL returns the postgres:// URL form of the connection settings,
// used by golang-migrate.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   c.PostgresDBName,
	}
	q := u.Query()
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Short secrets are masked
// entirely; longer ones keep two characters on each end for debugging.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
