package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Data     DataConfig
	Admin    AdminConfig
	JWT      JWTConfig
	Notify   NotifyConfig
	Redis    RedisConfig
	Audit    AuditConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
}

// DataConfig locates the flat-file data plane: classroom ledgers, the
// settings blob and the refresh marker all live under Dir.
type DataConfig struct {
	Dir          string
	SettingsFile string
	MarkerFile   string
}

// AdminConfig carries the out-of-band administrator credentials. When
// PasswordHash is set it takes precedence over the plain Password and is
// compared with bcrypt.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// NotifyConfig tunes the settings-change broadcast: how often the marker
// file is polled and how long a long-poll request may park.
type NotifyConfig struct {
	PollInterval    time.Duration
	LongPollTimeout time.Duration
	RedisEnabled    bool
	RedisChannel    string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuditConfig gates the optional Postgres audit trail for admin actions.
type AuditConfig struct {
	Enabled bool
	Workers int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Data = DataConfig{
		Dir:          v.GetString("DATA_DIR"),
		SettingsFile: v.GetString("SETTINGS_FILE"),
		MarkerFile:   v.GetString("MARKER_FILE"),
	}

	cfg.Admin = AdminConfig{
		Username:     v.GetString("ADMIN_USERNAME"),
		Password:     v.GetString("ADMIN_PASSWORD"),
		PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Notify = NotifyConfig{
		PollInterval:    parseDuration(v.GetString("NOTIFY_POLL_INTERVAL"), 500*time.Millisecond),
		LongPollTimeout: parseDuration(v.GetString("NOTIFY_LONGPOLL_TIMEOUT"), 25*time.Second),
		RedisEnabled:    v.GetBool("ENABLE_REDIS_NOTIFY"),
		RedisChannel:    v.GetString("NOTIFY_REDIS_CHANNEL"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Audit = AuditConfig{
		Enabled: v.GetBool("ENABLE_AUDIT_LOG"),
		Workers: v.GetInt("AUDIT_WORKERS"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("SETTINGS_FILE", "portal_settings.json")
	v.SetDefault("MARKER_FILE", "refresh_trigger.txt")

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "attendance-api")

	v.SetDefault("NOTIFY_POLL_INTERVAL", "500ms")
	v.SetDefault("NOTIFY_LONGPOLL_TIMEOUT", "25s")
	v.SetDefault("ENABLE_REDIS_NOTIFY", false)
	v.SetDefault("NOTIFY_REDIS_CHANNEL", "portal:settings")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_AUDIT_LOG", false)
	v.SetDefault("AUDIT_WORKERS", 1)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "attendance_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
