package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// The announcement store URL has no default and must be provided via the
// config file or the environment.
type AppConfig struct {
	AppPort string

	// Remote announcement store
	StoreBaseURL        string
	StoreTimeoutSeconds int

	RateLimitPerMinute int
	AllowedOrigins     []string

	// Gin framework configuration
	GinMode string
	GinPath string

	// Static tab content (optional JSON override for built-in fixtures)
	ContentPath string

	// Portal identity shown in the header/footer
	PortalName    string
	PortalTagline string
	PortalAddress string
	PortalPhone   string
	PortalEmail   string

	// Notice bar configuration
	NoticeTitle string
	NoticeHTML  string

	// Redis for caching and page-view counters
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during
// boot. Precedence: config/config.json -> defaults -> environment overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Optional .env for local development; the environment always wins.
	_ = godotenv.Load()

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.StoreBaseURL == "" {
		log.Fatal("ANNOUNCEMENTS_URL must be set in config or environment")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// SetForTesting replaces the cached configuration. Test helper only.
func SetForTesting(c AppConfig) {
	cfg = c
	loaded = true
}

// loadJSONConfig reads a flat JSON file into out if present. Returns an error
// only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil // silently ignore missing file
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	getString := func(key string) string {
		if s, ok := raw[key].(string); ok {
			return s
		}
		return ""
	}
	getInt := func(key string) int {
		if f, ok := raw[key].(float64); ok {
			return int(f)
		}
		return 0
	}
	getBool := func(key string) bool {
		b, _ := raw[key].(bool)
		return b
	}

	out.AppPort = getString("app_port")
	out.StoreBaseURL = getString("announcements_url")
	out.StoreTimeoutSeconds = getInt("store_timeout_seconds")
	out.RateLimitPerMinute = getInt("rate_limit_per_minute")
	if s := getString("allowed_origins"); s != "" {
		out.AllowedOrigins = splitAndTrim(s)
	}
	out.GinMode = getString("gin_mode")
	out.GinPath = getString("gin_path")
	out.ContentPath = getString("content_path")
	out.PortalName = getString("portal_name")
	out.PortalTagline = getString("portal_tagline")
	out.PortalAddress = getString("portal_address")
	out.PortalPhone = getString("portal_phone")
	out.PortalEmail = getString("portal_email")
	out.NoticeTitle = getString("notice_title")
	out.NoticeHTML = getString("notice_html")
	out.RedisHost = getString("redis_host")
	out.RedisPort = getInt("redis_port")
	out.RedisDB = getInt("redis_db")
	out.RedisPassword = getString("redis_password")
	out.LogLevel = getString("log_level")
	out.LogPath = getString("log_path")
	out.LogMaxSizeMB = getInt("log_max_size_mb")
	out.LogMaxBackups = getInt("log_max_backups")
	out.LogMaxAgeDays = getInt("log_max_age_days")
	out.LogCompress = getBool("log_compress")
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.StoreTimeoutSeconds <= 0 {
		c.StoreTimeoutSeconds = 10
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = 10
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.PortalName == "" {
		c.PortalName = "ЖК Ботанический"
	}
	if c.PortalTagline == "" {
		c.PortalTagline = "Новостной портал района"
	}
	if c.PortalAddress == "" {
		c.PortalAddress = "г. Самара, ул. Ботаническая"
	}
	if c.PortalPhone == "" {
		c.PortalPhone = "+7 (846) 000-00-00"
	}
	if c.PortalEmail == "" {
		c.PortalEmail = "info@botanicheskiy.ru"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/portal.log"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.StoreBaseURL = getEnv("ANNOUNCEMENTS_URL", c.StoreBaseURL)
	if v := os.Getenv("STORE_TIMEOUT_SECONDS"); v != "" {
		c.StoreTimeoutSeconds = mustParseInt(v)
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.GinPath = getEnv("GIN_PATH", c.GinPath)
	c.ContentPath = getEnv("CONTENT_PATH", c.ContentPath)
	c.PortalName = getEnv("PORTAL_NAME", c.PortalName)
	c.PortalTagline = getEnv("PORTAL_TAGLINE", c.PortalTagline)
	c.PortalAddress = getEnv("PORTAL_ADDRESS", c.PortalAddress)
	c.PortalPhone = getEnv("PORTAL_PHONE", c.PortalPhone)
	c.PortalEmail = getEnv("PORTAL_EMAIL", c.PortalEmail)
	c.NoticeTitle = getEnv("NOTICE_TITLE", c.NoticeTitle)
	c.NoticeHTML = getEnv("NOTICE_HTML", c.NoticeHTML)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)
	if v := os.Getenv("LOG_MAX_SIZE_MB"); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := os.Getenv("LOG_MAX_BACKUPS"); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := os.Getenv("LOG_MAX_AGE_DAYS"); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := os.Getenv("LOG_COMPRESS"); v != "" {
		c.LogCompress = v == "1" || strings.EqualFold(v, "true")
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func mustParseInt(val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer config value %q: %v", val, err)
	}
	return n
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
