package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvKeys = []string{
	"POSREPORTS_APP_NAME",
	"POSREPORTS_APP_ENV",
	"POSREPORTS_APP_PORT",
	"POSREPORTS_REPORT_SERVICE_BASE_URL",
	"POSREPORTS_REPORT_SERVICE_TOKEN",
	"POSREPORTS_REPORT_SERVICE_TIMEOUT",
	"POSREPORTS_EXPORT_PDF_ENGINE",
	"POSREPORTS_EXPORT_TIMEZONE",
	"POSREPORTS_STORAGE_DRIVER",
	"POSREPORTS_STORAGE_BUCKET",
	"POSREPORTS_STORAGE_ACCESS_KEY",
	"POSREPORTS_STORAGE_SECRET_KEY",
	"POSREPORTS_CACHE_ENABLED",
	"POSREPORTS_CACHE_TTL",
	"POSREPORTS_CACHE_ALLOW_IN_MEMORY_FALLBACK",
	"POSREPORTS_WORKSPACE_IDLE_TTL",
	"POSREPORTS_HTTP_CORS_ALLOW_ORIGINS",
	"POSREPORTS_TELEMETRY_SAMPLING_RATIO",
	"POSREPORTS_PROFILING_ENABLED",
	"POSREPORTS_PROFILING_SERVER_ADDRESS",
}

// clearEnv unsets every key the tests touch and restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range testEnvKeys {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pos-reports", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "http://localhost:3000/api", cfg.ReportService.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.ReportService.Timeout)
		assert.Equal(t, int64(32<<20), cfg.ReportService.MaxResponseBytes)
		assert.Equal(t, PDFEngineGofpdf, cfg.Export.PDFEngine)
		assert.Equal(t, "UTC", cfg.Export.Timezone)
		assert.Equal(t, StorageDriverNone, cfg.Storage.Driver)
		assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiration)
		assert.False(t, cfg.Cache.Enabled)
		assert.Equal(t, time.Minute, cfg.Cache.TTL)
		assert.Equal(t, 30*time.Minute, cfg.Workspace.IdleTTL)
		assert.Equal(t, "pos-reports", cfg.Telemetry.ServiceName)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	})

	t.Run("loads values from environment variables with POSREPORTS prefix", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_APP_NAME", "reports-test")
		os.Setenv("POSREPORTS_APP_PORT", "9000")
		os.Setenv("POSREPORTS_REPORT_SERVICE_BASE_URL", "https://pos.example.com/api")
		os.Setenv("POSREPORTS_REPORT_SERVICE_TOKEN", "secret-token")
		os.Setenv("POSREPORTS_REPORT_SERVICE_TIMEOUT", "5s")
		os.Setenv("POSREPORTS_EXPORT_PDF_ENGINE", "CHROMEDP")
		os.Setenv("POSREPORTS_EXPORT_TIMEZONE", "America/La_Paz")
		os.Setenv("POSREPORTS_CACHE_ENABLED", "true")
		os.Setenv("POSREPORTS_CACHE_TTL", "2m")
		os.Setenv("POSREPORTS_WORKSPACE_IDLE_TTL", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "reports-test", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "https://pos.example.com/api", cfg.ReportService.BaseURL)
		assert.Equal(t, "secret-token", cfg.ReportService.Token)
		assert.Equal(t, 5*time.Second, cfg.ReportService.Timeout)
		assert.Equal(t, PDFEngineChromedp, cfg.Export.PDFEngine)
		assert.Equal(t, "America/La_Paz", cfg.Export.Location().String())
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, time.Hour, cfg.Workspace.IdleTTL)
		assert.Equal(t, "reports-test", cfg.Telemetry.ServiceName)
	})

	t.Run("rejects a relative report service URL", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_REPORT_SERVICE_BASE_URL", "/api")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report_service.base_url")
	})

	t.Run("rejects an unknown pdf engine", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_EXPORT_PDF_ENGINE", "prince")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "export.pdf_engine")
	})

	t.Run("rejects an unknown timezone", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_EXPORT_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "export.timezone")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.sampling_ratio")
	})

	t.Run("profiling needs a server address", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_PROFILING_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiling.server_address")

		os.Setenv("POSREPORTS_PROFILING_SERVER_ADDRESS", "http://pyroscope:4040")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Profiling.Enabled)
		assert.Equal(t, "http://pyroscope:4040", cfg.Profiling.ServerAddress)
	})
}

func TestLoad_StorageValidation(t *testing.T) {
	t.Run("s3 requires a bucket", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_STORAGE_DRIVER", "s3")
		os.Setenv("POSREPORTS_STORAGE_ACCESS_KEY", "key")
		os.Setenv("POSREPORTS_STORAGE_SECRET_KEY", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("s3 requires credentials", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_STORAGE_DRIVER", "s3")
		os.Setenv("POSREPORTS_STORAGE_BUCKET", "reports")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")
	})

	t.Run("s3 with bucket and credentials is valid", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_STORAGE_DRIVER", "s3")
		os.Setenv("POSREPORTS_STORAGE_BUCKET", "reports")
		os.Setenv("POSREPORTS_STORAGE_ACCESS_KEY", "key")
		os.Setenv("POSREPORTS_STORAGE_SECRET_KEY", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "reports", cfg.Storage.Bucket)
	})

	t.Run("rejects an unknown driver", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_STORAGE_DRIVER", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.driver")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_APP_ENV", "production")
		os.Setenv("POSREPORTS_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("rejects in-memory cache fallback in production", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_APP_ENV", "production")
		os.Setenv("POSREPORTS_CACHE_ENABLED", "true")
		os.Setenv("POSREPORTS_CACHE_ALLOW_IN_MEMORY_FALLBACK", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allow_in_memory_fallback")
	})

	t.Run("accepts a valid production config", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("POSREPORTS_APP_ENV", "production")
		os.Setenv("POSREPORTS_HTTP_CORS_ALLOW_ORIGINS", "https://pos.example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://pos.example.com"}, cfg.HTTP.CORSAllowOrigins)
	})
}
