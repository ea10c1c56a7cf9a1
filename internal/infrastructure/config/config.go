package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App           AppConfig
	Log           LogConfig
	HTTP          HTTPConfig
	ReportService ReportServiceConfig
	Export        ExportConfig
	Storage       StorageConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Workspace     WorkspaceConfig
	Telemetry     TelemetryConfig
	Profiling     ProfilingConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Version string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// ReportServiceConfig points at the server that computes report payloads
type ReportServiceConfig struct {
	BaseURL          string
	Token            string
	Timeout          time.Duration
	MaxResponseBytes int64
}

// PDF engines
const (
	PDFEngineGofpdf      = "gofpdf"
	PDFEngineChromedp    = "chromedp"
	PDFEngineWkhtmltopdf = "wkhtmltopdf"
)

// ExportConfig holds document and spreadsheet export settings
type ExportConfig struct {
	PDFEngine       string // gofpdf, chromedp, wkhtmltopdf
	ChromeRemoteURL string // empty = launch a local browser
	WkhtmltopdfPath string // empty = look up in PATH
	RenderTimeout   time.Duration
	Timezone        string // IANA name used for filenames and header timestamps
}

// Storage drivers
const (
	StorageDriverNone       = "none"
	StorageDriverFilesystem = "filesystem"
	StorageDriverS3         = "s3"
)

// StorageConfig holds artifact archival settings
type StorageConfig struct {
	Driver            string // none, filesystem, s3
	BasePath          string // filesystem root
	BaseURL           string // public URL prefix for filesystem artifacts
	Bucket            string
	Endpoint          string
	Region            string
	AccessKeyID       string
	SecretAccessKey   string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// CacheConfig holds collaborator payload cache settings
type CacheConfig struct {
	Enabled               bool
	TTL                   time.Duration
	KeyPrefix             string
	AllowInMemoryFallback bool
}

// WorkspaceConfig holds report workspace settings
type WorkspaceConfig struct {
	IdleTTL         time.Duration
	CleanupInterval time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
}

// ProfilingConfig holds Pyroscope continuous profiling configuration
type ProfilingConfig struct {
	Enabled           bool
	ServerAddress     string // e.g. "http://pyroscope:4040"
	BasicAuthUser     string
	BasicAuthPassword string
	ProfileTypes      []string // empty = cpu, allocations and goroutines
	SpanProfiles      bool     // link CPU profiles to trace spans; needs telemetry enabled
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with POSREPORTS_ prefix (e.g., POSREPORTS_REPORT_SERVICE_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("POSREPORTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		ReportService: ReportServiceConfig{
			BaseURL:          v.GetString("report_service.base_url"),
			Token:            v.GetString("report_service.token"),
			Timeout:          v.GetDuration("report_service.timeout"),
			MaxResponseBytes: v.GetInt64("report_service.max_response_bytes"),
		},
		Export: ExportConfig{
			PDFEngine:       strings.ToLower(v.GetString("export.pdf_engine")),
			ChromeRemoteURL: v.GetString("export.chrome_remote_url"),
			WkhtmltopdfPath: v.GetString("export.wkhtmltopdf_path"),
			RenderTimeout:   v.GetDuration("export.render_timeout"),
			Timezone:        v.GetString("export.timezone"),
		},
		Storage: StorageConfig{
			Driver:            strings.ToLower(v.GetString("storage.driver")),
			BasePath:          v.GetString("storage.base_path"),
			BaseURL:           v.GetString("storage.base_url"),
			Bucket:            v.GetString("storage.bucket"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			AccessKeyID:       v.GetString("storage.access_key"),
			SecretAccessKey:   v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Enabled:               v.GetBool("cache.enabled"),
			TTL:                   v.GetDuration("cache.ttl"),
			KeyPrefix:             v.GetString("cache.key_prefix"),
			AllowInMemoryFallback: v.GetBool("cache.allow_in_memory_fallback"),
		},
		Workspace: WorkspaceConfig{
			IdleTTL:         v.GetDuration("workspace.idle_ttl"),
			CleanupInterval: v.GetDuration("workspace.cleanup_interval"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
		Profiling: ProfilingConfig{
			Enabled:           v.GetBool("profiling.enabled"),
			ServerAddress:     v.GetString("profiling.server_address"),
			BasicAuthUser:     v.GetString("profiling.basic_auth_user"),
			BasicAuthPassword: v.GetString("profiling.basic_auth_password"),
			ProfileTypes:      v.GetStringSlice("profiling.profile_types"),
			SpanProfiles:      v.GetBool("profiling.span_profiles"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "pos-reports"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "dev"
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
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Exports can take a while on large reports
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.ReportService.BaseURL == "" {
		cfg.ReportService.BaseURL = "http://localhost:3000/api"
	}
	if cfg.ReportService.Timeout == 0 {
		cfg.ReportService.Timeout = 30 * time.Second
	}
	if cfg.ReportService.MaxResponseBytes == 0 {
		cfg.ReportService.MaxResponseBytes = 32 << 20 // 32MB
	}
	if cfg.Export.PDFEngine == "" {
		cfg.Export.PDFEngine = PDFEngineGofpdf
	}
	if cfg.Export.RenderTimeout == 0 {
		cfg.Export.RenderTimeout = 30 * time.Second
	}
	if cfg.Export.Timezone == "" {
		cfg.Export.Timezone = "UTC"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageDriverNone
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./storage/reports"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Minute
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "posreports:payload:"
	}
	if cfg.Workspace.IdleTTL == 0 {
		cfg.Workspace.IdleTTL = 30 * time.Minute
	}
	if cfg.Workspace.CleanupInterval == 0 {
		cfg.Workspace.CleanupInterval = 5 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	u, err := url.Parse(c.ReportService.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("report_service.base_url must be an absolute URL, got %q", c.ReportService.BaseURL)
	}
	if c.ReportService.MaxResponseBytes < 0 {
		return fmt.Errorf("report_service.max_response_bytes cannot be negative")
	}

	engines := []string{PDFEngineGofpdf, PDFEngineChromedp, PDFEngineWkhtmltopdf}
	if !slices.Contains(engines, c.Export.PDFEngine) {
		return fmt.Errorf("export.pdf_engine must be one of %s, got %q", strings.Join(engines, ", "), c.Export.PDFEngine)
	}
	if _, err := time.LoadLocation(c.Export.Timezone); err != nil {
		return fmt.Errorf("export.timezone %q is not a valid IANA zone: %w", c.Export.Timezone, err)
	}

	switch c.Storage.Driver {
	case StorageDriverNone, StorageDriverFilesystem:
	case StorageDriverS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
		if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
			return fmt.Errorf("storage.access_key and storage.secret_key are required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver must be one of none, filesystem, s3, got %q", c.Storage.Driver)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl cannot be negative")
	}
	if c.Workspace.IdleTTL < 0 {
		return fmt.Errorf("workspace.idle_ttl cannot be negative")
	}

	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Cache.Enabled && c.Cache.AllowInMemoryFallback {
			return fmt.Errorf("cache.allow_in_memory_fallback must be false in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.Profiling.Enabled && c.Profiling.ServerAddress == "" {
		return fmt.Errorf("profiling.server_address is required when profiling is enabled")
	}

	return nil
}

// Location returns the export timezone. Load has already validated it.
func (e ExportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
