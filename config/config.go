package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Secrets never have defaults inside code and must come from config.json, a .env file or the environment.
type AppConfig struct {
	AppPort            string
	Locale             string
	JWTSecret          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// RemoteTimeoutSec bounds every call to the data source.
	RemoteTimeoutSec int
	// Gin framework configuration
	GinMode string
	GinPath string
	// Admin gate
	AdminUsername        string
	AdminPasswordHash    string
	AdminTokenTTLMinutes int
	// Database: postgres, mysql or memory
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	// Redis for the admin session and token revocation
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
	// S3 compatible storage for media posts; uploads are disabled when S3Bucket is empty
	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UseSSL       bool
	S3PublicURL    string
	UploadMaxBytes int64
}

var cfg AppConfig
var loaded bool

// ErrMissingJWTSecret is returned by Parse when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// Load loads the application configuration once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}
	// .env is optional
	_ = godotenv.Load()

	c, err := Parse(filepath.Join("config", "config.json"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg = c
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

// Parse applies, in order: the JSON file at path, defaults for zero values and
// environment variable overrides.
func Parse(path string) (AppConfig, error) {
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		return c, err
	}
	applyDefaults(&c)
	applyEnvOverrides(&c)
	if c.JWTSecret == "" {
		return c, ErrMissingJWTSecret
	}
	return c, nil
}

func (c AppConfig) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSec) * time.Second
}

func (c AppConfig) AdminTokenTTL() time.Duration {
	return time.Duration(c.AdminTokenTTLMinutes) * time.Minute
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads the grouped JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.Locale = getString(app, "Locale")
		out.JWTSecret = getString(app, "JWTSecret")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		out.RemoteTimeoutSec = getInt(app, "RemoteTimeoutSec")
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		out.GinMode = getString(g, "Mode")
		out.GinPath = getString(g, "LogPath")
	}

	if adm, ok := raw["admin"].(map[string]any); ok {
		out.AdminUsername = getString(adm, "Username")
		out.AdminPasswordHash = getString(adm, "PasswordHash")
		out.AdminTokenTTLMinutes = getInt(adm, "TokenTTLMinutes")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DBDriver = getString(dbs, "Driver")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
		out.DBSSLMode = getString(dbs, "DBSSLMode")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	if s3, ok := raw["s3"].(map[string]any); ok {
		out.S3Endpoint = getString(s3, "Endpoint")
		out.S3Region = getString(s3, "Region")
		out.S3Bucket = getString(s3, "Bucket")
		out.S3AccessKey = getString(s3, "AccessKey")
		out.S3SecretKey = getString(s3, "SecretKey")
		out.S3UseSSL = getBool(s3, "UseSSL")
		out.S3PublicURL = getString(s3, "PublicURL")
		out.UploadMaxBytes = int64(getInt(s3, "UploadMaxMB")) << 20
	}

	// flat keys for backward compatibility
	if v, ok := raw["AppPort"].(string); ok && out.AppPort == "" {
		out.AppPort = v
	}
	if v, ok := raw["JWTSecret"].(string); ok && out.JWTSecret == "" {
		out.JWTSecret = v
	}
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.Locale == "" {
		c.Locale = "ar"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if c.RemoteTimeoutSec == 0 {
		c.RemoteTimeoutSec = 10
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.AdminTokenTTLMinutes == 0 {
		c.AdminTokenTTLMinutes = 24 * 60
	}
	if c.DBDriver == "" {
		c.DBDriver = "postgres"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		if c.DBDriver == "mysql" {
			c.DBPort = "3306"
		} else {
			c.DBPort = "5432"
		}
	}
	if c.DBUser == "" {
		c.DBUser = "postgres"
	}
	if c.DBName == "" {
		c.DBName = "riqqa"
	}
	if c.DBSSLMode == "" {
		c.DBSSLMode = "disable"
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
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.S3Region == "" {
		c.S3Region = "us-east-1"
	}
	if c.UploadMaxBytes == 0 {
		c.UploadMaxBytes = 50 << 20
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	strs := map[string]*string{
		"APP_PORT":              &c.AppPort,
		"APP_LOCALE":            &c.Locale,
		"JWT_SECRET":            &c.JWTSecret,
		"GIN_MODE":              &c.GinMode,
		"GIN_PATH":              &c.GinPath,
		"ADMIN_USERNAME":        &c.AdminUsername,
		"ADMIN_PASSWORD_HASH":   &c.AdminPasswordHash,
		"DB_DRIVER":             &c.DBDriver,
		"DATABASE_URI":          &c.DatabaseURI,
		"DB_HOST":               &c.DBHost,
		"DB_PORT":               &c.DBPort,
		"DB_USER":               &c.DBUser,
		"DB_PASSWORD":           &c.DBPassword,
		"DB_NAME":               &c.DBName,
		"DB_SSLMODE":            &c.DBSSLMode,
		"REDIS_HOST":            &c.RedisHost,
		"REDIS_PASSWORD":        &c.RedisPassword,
		"LOG_LEVEL":             &c.LogLevel,
		"LOG_PATH":              &c.LogPath,
		"S3_ENDPOINT":           &c.S3Endpoint,
		"AWS_REGION":            &c.S3Region,
		"S3_BUCKET_NAME":        &c.S3Bucket,
		"AWS_ACCESS_KEY_ID":     &c.S3AccessKey,
		"AWS_SECRET_ACCESS_KEY": &c.S3SecretKey,
		"S3_PUBLIC_URL":         &c.S3PublicURL,
	}
	for key, dst := range strs {
		if v := getEnv(key, ""); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"RATE_LIMIT_PER_MINUTE":   &c.RateLimitPerMinute,
		"REMOTE_TIMEOUT_SEC":      &c.RemoteTimeoutSec,
		"ADMIN_TOKEN_TTL_MINUTES": &c.AdminTokenTTLMinutes,
		"REDIS_PORT":              &c.RedisPort,
		"REDIS_DB":                &c.RedisDB,
	}
	for key, dst := range ints {
		if v := getEnv(key, ""); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	if v := getEnv("ALLOWED_ORIGINS", ""); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		c.AllowedOrigins = origins
	}
	if v := getEnv("S3_USE_SSL", ""); v != "" {
		c.S3UseSSL = v == "true" || v == "1"
	}
}
