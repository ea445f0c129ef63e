package config

import (
	"log/slog"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_ADDR",
	"DB_DRIVER", "DB_DSN", "SQLITE_PATH",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
}

// clearEnv resets every variable LoadFromEnv reads so tests see defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":8080")
	}
	if got.Driver != "sqlite3" {
		t.Errorf("Driver = %q, want %q", got.Driver, "sqlite3")
	}
	if got.Path != "hawaii.sqlite" {
		t.Errorf("Path = %q, want %q", got.Path, "hawaii.sqlite")
	}
	if !got.ReadOnly {
		t.Error("ReadOnly = false, want true")
	}
	if got.MaxOpenConns != 4 || got.MaxIdleConns != 2 {
		t.Errorf("pool = %d/%d, want 4/2", got.MaxOpenConns, got.MaxIdleConns)
	}
	if got.ConnMaxLifetime != 0 {
		t.Errorf("ConnMaxLifetime = %v, want 0", got.ConnMaxLifetime)
	}
	if got.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", got.RedisAddr)
	}
	if got.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", got.CacheTTL)
	}
}

func TestLoadFromEnv_AppEnv_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		appEnv string
	}{
		{name: "staging", appEnv: "staging"},
		{name: "uppercase", appEnv: "DEV"},
		{name: "random", appEnv: "whatever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)

			_, err := LoadFromEnv()
			if err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestLoadFromEnv_Database(t *testing.T) {
	t.Run("postgres with dsn", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DB_DSN", "postgres://climate@localhost/hawaii?sslmode=disable")

		got, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v, want nil", err)
		}
		if got.Driver != "postgres" {
			t.Errorf("Driver = %q, want postgres", got.Driver)
		}
		if got.DSN != "postgres://climate@localhost/hawaii?sslmode=disable" {
			t.Errorf("DSN = %q", got.DSN)
		}
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_DRIVER", "postgres")

		if _, err := LoadFromEnv(); err == nil {
			t.Fatal("LoadFromEnv() error = nil, want non-nil")
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DB_DRIVER", "mysql")

		if _, err := LoadFromEnv(); err == nil {
			t.Fatal("LoadFromEnv() error = nil, want non-nil")
		}
	})

	t.Run("pool settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SQLITE_PATH", " /data/hawaii.sqlite ")
		t.Setenv("DB_MAX_OPEN_CONNS", "8")
		t.Setenv("DB_MAX_IDLE_CONNS", "3")
		t.Setenv("DB_CONN_MAX_LIFETIME", "5m")

		got, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v, want nil", err)
		}
		if got.Path != "/data/hawaii.sqlite" {
			t.Errorf("Path = %q, want /data/hawaii.sqlite", got.Path)
		}
		if got.MaxOpenConns != 8 || got.MaxIdleConns != 3 {
			t.Errorf("pool = %d/%d, want 8/3", got.MaxOpenConns, got.MaxIdleConns)
		}
		if got.ConnMaxLifetime != 5*time.Minute {
			t.Errorf("ConnMaxLifetime = %v, want 5m", got.ConnMaxLifetime)
		}
	})

	invalid := []struct {
		key   string
		value string
	}{
		{key: "DB_MAX_OPEN_CONNS", value: "many"},
		{key: "DB_MAX_IDLE_CONNS", value: "1.5"},
		{key: "DB_CONN_MAX_LIFETIME", value: "forever"},
	}
	for _, tt := range invalid {
		t.Run("invalid "+tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() with %s=%q error = nil, want non-nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoadFromEnv_Cache(t *testing.T) {
	t.Run("redis settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("REDIS_PASSWORD", "secret")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("CACHE_TTL", "30s")

		got, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v, want nil", err)
		}
		if got.RedisAddr != "localhost:6379" || got.RedisPassword != "secret" || got.RedisDB != 2 {
			t.Errorf("redis = %q/%q/%d", got.RedisAddr, got.RedisPassword, got.RedisDB)
		}
		if got.CacheTTL != 30*time.Second {
			t.Errorf("CacheTTL = %v, want 30s", got.CacheTTL)
		}
	})

	for _, ttl := range []string{"0s", "-1m", "soon"} {
		t.Run("invalid CACHE_TTL "+ttl, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CACHE_TTL", ttl)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() with CACHE_TTL=%q error = nil, want non-nil", ttl)
			}
		})
	}
}

func TestParseLogLevel_Valid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want slog.Level
	}{
		{name: "debug", in: "debug", want: slog.LevelDebug},
		{name: "info", in: "info", want: slog.LevelInfo},
		{name: "warn", in: "warn", want: slog.LevelWarn},
		{name: "warning", in: "warning", want: slog.LevelWarn},
		{name: "error", in: "error", want: slog.LevelError},
		{name: "case insensitive", in: "DeBuG", want: slog.LevelDebug},
		{name: "trims whitespace", in: "  warn \n", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if err != nil {
				t.Fatalf("parseLogLevel(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel_Invalid(t *testing.T) {
	for _, in := range []string{"", "nope", "warns", "1"} {
		t.Run(in, func(t *testing.T) {
			got, err := parseLogLevel(in)
			if err == nil {
				t.Fatalf("parseLogLevel(%q) error = nil, want non-nil", in)
			}
			if got != slog.LevelInfo {
				t.Errorf("parseLogLevel(%q) = %v, want %v on error", in, got, slog.LevelInfo)
			}
		})
	}
}
