package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Log       LogConfig
	AI        AIConfig
	Portal    PortalConfig
	Redis     RedisConfig
	Payment   PaymentConfig
	Storage   StorageConfig
	Export    ExportConfig
	Telemetry TelemetryConfig
	Seed      SeedConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	MaxBodySize     int64
	// MaxUploadSize caps multipart uploads (files, receipts, registration documents)
	MaxUploadSize    int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
	// RateLimit is the calls per RateWindow one client IP may make to the
	// portal login and AI routes
	RateLimit  int
	RateWindow time.Duration
}

// AIConfig holds settings of the generative text service.
// Any OpenAI-compatible chat completions endpoint can be used.
type AIConfig struct {
	Enabled     bool
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// PortalConfig holds client portal session settings
type PortalConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
	// RevocationStore keeps logged-out token ids: memory or redis
	RevocationStore string
}

// RedisConfig holds Redis connection settings for the shared revocation store
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// PaymentConfig holds the gateway redirect settings
type PaymentConfig struct {
	PayfastProcessURL string
	YocoSDKURL        string
	// PublicBaseURL is where the front end is served; return and cancel URLs hang off it
	PublicBaseURL string
	// NotifyBaseURL is where the gateway can reach this API
	NotifyBaseURL string
}

// StorageConfig holds object storage settings
type StorageConfig struct {
	Type            string // memory, s3
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// ExportConfig holds report export settings
type ExportConfig struct {
	PDFEnabled    bool
	ChromeTimeout time.Duration
	// ChromeURL is an optional remote DevTools endpoint; empty launches a local browser
	ChromeURL string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool          // Whether to export OTLP metrics and traces
	CollectorEndpoint string        // OTEL Collector endpoint (e.g., "localhost:4317")
	ServiceName       string        // Service name reported with metrics
	ExportInterval    time.Duration // How often metrics are pushed
	SamplingRatio     float64       // Trace sampling ratio (0.0 to 1.0)
	LogsEnabled       bool          // Also ship zap logs to the collector
	Insecure          bool          // Use insecure (non-TLS) connection (development only)
}

// SeedConfig controls the demo data loaded at start-up
type SeedConfig struct {
	Enabled bool
}

// Load loads configuration from a .env file, config.toml and environment variables
// Priority (highest to lowest):
// 1. Environment variables with OUTVOICE_ prefix (e.g., OUTVOICE_AI_API_KEY)
// 2. .env (only fills variables that are not already set)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("OUTVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			MaxUploadSize:    v.GetInt64("http.max_upload_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
			RateLimit:        v.GetInt("http.rate_limit"),
			RateWindow:       v.GetDuration("http.rate_window"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		AI: AIConfig{
			Enabled:     v.GetBool("ai.enabled"),
			APIKey:      v.GetString("ai.api_key"),
			BaseURL:     v.GetString("ai.base_url"),
			Model:       v.GetString("ai.model"),
			VisionModel: v.GetString("ai.vision_model"),
			Timeout:     v.GetDuration("ai.timeout"),
			MaxTokens:   v.GetInt("ai.max_tokens"),
			Temperature: v.GetFloat64("ai.temperature"),
		},
		Portal: PortalConfig{
			JWTSecret: v.GetString("portal.jwt_secret"),
			TokenTTL:  v.GetDuration("portal.token_ttl"),
			Issuer:    v.GetString("portal.issuer"),

			RevocationStore: v.GetString("portal.revocation_store"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Payment: PaymentConfig{
			PayfastProcessURL: v.GetString("payment.payfast_process_url"),
			YocoSDKURL:        v.GetString("payment.yoco_sdk_url"),
			PublicBaseURL:     v.GetString("payment.public_base_url"),
			NotifyBaseURL:     v.GetString("payment.notify_base_url"),
		},
		Storage: StorageConfig{
			Type:            v.GetString("storage.type"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
		},
		Export: ExportConfig{
			PDFEnabled:    v.GetBool("export.pdf_enabled"),
			ChromeTimeout: v.GetDuration("export.chrome_timeout"),
			ChromeURL:     v.GetString("export.chrome_url"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			ServiceName:       v.GetString("telemetry.service_name"),
			ExportInterval:    v.GetDuration("telemetry.export_interval"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
		Seed: SeedConfig{
			Enabled: v.GetBool("seed.enabled"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers defaults for booleans, which cannot be told apart from
// "unset" once read into the struct
func setDefaults(v *viper.Viper) {
	v.SetDefault("seed.enabled", true)
	v.SetDefault("ai.enabled", true)
	v.SetDefault("storage.use_path_style", true)
	v.SetDefault("telemetry.sampling_ratio", 1.0)
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "outvoice"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// AI drafting can take most of a minute
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxUploadSize == 0 {
		cfg.HTTP.MaxUploadSize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimit == 0 {
		cfg.HTTP.RateLimit = 30
	}
	if cfg.HTTP.RateWindow == 0 {
		cfg.HTTP.RateWindow = time.Minute
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if cfg.AI.VisionModel == "" {
		cfg.AI.VisionModel = cfg.AI.Model
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60 * time.Second
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 2048
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.4
	}
	if cfg.Portal.TokenTTL == 0 {
		cfg.Portal.TokenTTL = 12 * time.Hour
	}
	if cfg.Portal.Issuer == "" {
		cfg.Portal.Issuer = "outvoice-portal"
	}
	if cfg.Portal.JWTSecret == "" && cfg.App.Env != "production" {
		cfg.Portal.JWTSecret = "outvoice-development-portal-secret"
	}
	if cfg.Portal.RevocationStore == "" {
		cfg.Portal.RevocationStore = "memory"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Payment.PayfastProcessURL == "" {
		cfg.Payment.PayfastProcessURL = "https://sandbox.payfast.co.za/eng/process"
	}
	if cfg.Payment.YocoSDKURL == "" {
		cfg.Payment.YocoSDKURL = "https://js.yoco.com/sdk/v1/yoco-sdk-web.js"
	}
	if cfg.Payment.PublicBaseURL == "" {
		cfg.Payment.PublicBaseURL = "http://localhost:3000"
	}
	if cfg.Payment.NotifyBaseURL == "" {
		cfg.Payment.NotifyBaseURL = "http://localhost:" + cfg.App.Port
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "memory"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Export.ChromeTimeout == 0 {
		cfg.Export.ChromeTimeout = 30 * time.Second
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %f", c.AI.Temperature)
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0 and 1, got %f", c.Telemetry.SamplingRatio)
	}
	if c.AI.MaxTokens < 0 {
		return fmt.Errorf("ai.max_tokens cannot be negative")
	}

	switch c.Storage.Type {
	case "memory":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when storage.type is s3")
		}
	default:
		return fmt.Errorf("storage.type must be memory or s3, got %q", c.Storage.Type)
	}

	switch c.Portal.RevocationStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("portal.revocation_store must be memory or redis, got %q", c.Portal.RevocationStore)
	}

	if c.App.Env == "production" {
		if len(c.Portal.JWTSecret) < 32 {
			return fmt.Errorf("portal.jwt_secret must be at least 32 characters in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
