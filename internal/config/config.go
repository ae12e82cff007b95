package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Sync backend selectors. The chosen backend is the remote side of the
// attendance mirror; "none" runs with the local cache only.
const (
	SyncBackendSheets   = "sheets"
	SyncBackendProxy    = "proxy"
	SyncBackendSupabase = "supabase"
	SyncBackendPostgres = "postgres"
	SyncBackendNone     = "none"
)

type Config struct {
	App          AppConfig
	JWT          JWTConfig
	Sync         SyncConfig
	Database     DatabaseConfig
	Cache        CacheConfig
	Geo          GeoConfig
	OAuth2Google OAuth2GoogleConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	AccessExpiration  string
	RefreshExpiration string
}

type SyncConfig struct {
	Backend         string
	SheetsAPIURL    string
	ProxyAPIURL     string
	SupabaseURL     string
	SupabaseAnonKey string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type CacheConfig struct {
	// Dir is where the local cache files live. Empty means in-memory only
	// (nothing survives a restart).
	Dir string
}

type GeoConfig struct {
	LocatorURL  string
	GeocoderURL string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may be set by the deployment.
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
	}

	config.Sync = SyncConfig{
		Backend:         getEnv("SYNC_BACKEND", SyncBackendNone),
		SheetsAPIURL:    getEnv("SHEETS_API_URL", ""),
		ProxyAPIURL:     getEnv("PROXY_API_URL", ""),
		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "tronxlabs_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.Cache = CacheConfig{
		Dir: getEnv("CACHE_DIR", ""),
	}

	config.Geo = GeoConfig{
		LocatorURL:  getEnv("LOCATOR_URL", ""),
		GeocoderURL: getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
	}

	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	switch c.Sync.Backend {
	case SyncBackendSheets:
		// The sheets variant tolerates a missing URL: it degrades to the
		// local mirror, matching the demo behaviour of the dashboards.
	case SyncBackendProxy:
		if c.Sync.ProxyAPIURL == "" {
			return fmt.Errorf("PROXY_API_URL is required when SYNC_BACKEND=proxy")
		}
	case SyncBackendSupabase:
		if c.Sync.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required when SYNC_BACKEND=supabase")
		}
		if c.Sync.SupabaseAnonKey == "" {
			return fmt.Errorf("SUPABASE_ANON_KEY is required when SYNC_BACKEND=supabase")
		}
	case SyncBackendPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when SYNC_BACKEND=postgres")
		}
	case SyncBackendNone:
	default:
		return fmt.Errorf("unsupported SYNC_BACKEND: %s", c.Sync.Backend)
	}

	if c.GoogleLoginEnabled() {
		if c.OAuth2Google.ClientSecret == "" {
			return fmt.Errorf("CLIENT_SECRET is required when CLIENT_ID is set")
		}
		if c.OAuth2Google.RedirectURL == "" {
			return fmt.Errorf("REDIRECT_URL is required when CLIENT_ID is set")
		}
		if len(c.OAuth2Google.Scopes) == 0 {
			return fmt.Errorf("SCOPES is required when CLIENT_ID is set")
		}
	}

	return nil
}

// GoogleLoginEnabled reports whether the optional Google login is configured.
func (c *Config) GoogleLoginEnabled() bool {
	return c.OAuth2Google.ClientID != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
