package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	AuthProviderSession = "session"
	AuthProviderCasdoor = "casdoor"

	FileStoreMinio = "minio"
	FileStoreLocal = "local"
)

type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	StorageDriver string
	DatabaseURL   string
	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string

	RedisURL string

	AuthProvider string
	SessionTTL   time.Duration
	Casdoor      CasdoorConfig

	Kafka KafkaConfig
	MinIO MinIOConfig

	FileStore string
	UploadDir string

	SeedSampleData     bool
	CORSAllowedOrigins []string
}

type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Certificate  string
	Organization string
	Application  string
}

type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LoadConfig reads configuration from the environment, after loading an optional .env file.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set variables directly
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	level, err := parseLogLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		LogLevel:    level,

		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetInt("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSSLMode:     v.GetString("DB_SSLMODE"),

		RedisURL: v.GetString("REDIS_URL"),

		AuthProvider: strings.ToLower(v.GetString("AUTH_PROVIDER")),
		SessionTTL:   v.GetDuration("SESSION_TTL"),
		Casdoor: CasdoorConfig{
			Endpoint:     v.GetString("CASDOOR_ENDPOINT"),
			ClientID:     v.GetString("CASDOOR_CLIENT_ID"),
			ClientSecret: v.GetString("CASDOOR_CLIENT_SECRET"),
			Certificate:  v.GetString("CASDOOR_CERTIFICATE"),
			Organization: v.GetString("CASDOOR_ORGANIZATION"),
			Application:  v.GetString("CASDOOR_APPLICATION"),
		},

		Kafka: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			TopicPrefix: v.GetString("KAFKA_TOPIC_PREFIX"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},

		FileStore: strings.ToLower(v.GetString("FILE_STORE")),
		UploadDir: v.GetString("UPLOAD_DIR"),

		SeedSampleData:     v.GetBool("SEED_SAMPLE_DATA"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "educonnect")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("AUTH_PROVIDER", AuthProviderSession)
	v.SetDefault("SESSION_TTL", "168h")

	v.SetDefault("KAFKA_TOPIC_PREFIX", "educonnect")

	v.SetDefault("MINIO_BUCKET", "submissions")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("FILE_STORE", FileStoreLocal)
	v.SetDefault("UPLOAD_DIR", "uploads")

	v.SetDefault("SEED_SAMPLE_DATA", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// Validate checks that the selected drivers are known and have what they need.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.AuthProvider {
	case AuthProviderSession:
	case AuthProviderCasdoor:
		if c.Casdoor.Endpoint == "" || c.Casdoor.ClientID == "" {
			return fmt.Errorf("AUTH_PROVIDER=casdoor requires CASDOOR_ENDPOINT and CASDOOR_CLIENT_ID")
		}
		if c.StorageDriver == StorageDriverMemory {
			return fmt.Errorf("AUTH_PROVIDER=casdoor requires STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	switch c.FileStore {
	case FileStoreLocal:
	case FileStoreMinio:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("FILE_STORE=minio requires MINIO_ENDPOINT")
		}
	default:
		return fmt.Errorf("unknown FILE_STORE %q", c.FileStore)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
