package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("SessionTTL = %v, want 168h", cfg.SessionTTL)
	}
	if cfg.AuthProvider != AuthProviderSession {
		t.Errorf("AuthProvider = %s", cfg.AuthProvider)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.StorageDriver != StorageDriverMemory {
		t.Errorf("StorageDriver = %s", cfg.StorageDriver)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		return Config{
			StorageDriver: StorageDriverPostgres,
			AuthProvider:  AuthProviderSession,
			FileStore:     FileStoreLocal,
			SessionTTL:    time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown storage", mutate: func(c *Config) { c.StorageDriver = "sqlite" }, wantErr: true},
		{name: "casdoor without endpoint", mutate: func(c *Config) { c.AuthProvider = AuthProviderCasdoor }, wantErr: true},
		{
			name: "casdoor on memory storage",
			mutate: func(c *Config) {
				c.AuthProvider = AuthProviderCasdoor
				c.Casdoor = CasdoorConfig{Endpoint: "http://casdoor", ClientID: "id"}
				c.StorageDriver = StorageDriverMemory
			},
			wantErr: true,
		},
		{name: "minio without endpoint", mutate: func(c *Config) { c.FileStore = FileStoreMinio }, wantErr: true},
		{name: "zero session ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: 5432, DBUser: "u", DBPassword: "p", DBName: "edu", DBSSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=edu sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}

	cfg.DatabaseURL = "postgres://x"
	if got := cfg.DSN(); got != "postgres://x" {
		t.Errorf("DSN() with DATABASE_URL = %q", got)
	}
}
