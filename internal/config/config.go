package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	BillAPI   BillAPIConfig
	Store     StoreConfig
	Receipt   ReceiptConfig
	List      ListConfig
	Auth      AuthConfig
	Session   SessionConfig
	State     StateConfig
	Printer   PrinterConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// BillAPIConfig points at the billing backend. A zero Timeout means no
// client timeout.
type BillAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StoreConfig struct {
	Name    string
	Address string
	Phone   string
}

type ReceiptConfig struct {
	Overflow  string
	Timezone  string
	Filename  string
	WidthInch float64
	LengthMM  float64
}

type ListConfig struct {
	PageSize int
}

type AuthConfig struct {
	JWTSecret string
	AdminRole string
}

type SessionConfig struct {
	Name   string
	Secret string
	MaxAge int
	Secure bool
}

type StateConfig struct {
	Driver   string
	RedisURL string
	TTL      time.Duration
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	CharWidth int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Secrets used when JWT_SECRET or SESSION_SECRET are not set.
const (
	DefaultJWTSecret     = "change-this-secret-in-production"
	DefaultSessionSecret = "change-this-session-secret"
)

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Validate rejects a production configuration that still signs tokens or
// sessions with the built-in secrets.
func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Session.Secret == "" || c.Session.Secret == DefaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}
	return nil
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "sg-store")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("BILL_API_URL", "http://localhost:4000")
	viper.SetDefault("BILL_API_TIMEOUT", "15s")
	viper.SetDefault("STORE_NAME", "SG Store")
	viper.SetDefault("STORE_ADDRESS", "SG Store , near industrail Arear , Hisar")
	viper.SetDefault("STORE_PHONE", "7015659124")
	viper.SetDefault("RECEIPT_OVERFLOW", "split")
	viper.SetDefault("RECEIPT_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("RECEIPT_FILENAME", "bill.pdf")
	viper.SetDefault("RECEIPT_WIDTH_INCH", 2)
	viper.SetDefault("RECEIPT_LENGTH_MM", 250)
	viper.SetDefault("LIST_PAGE_SIZE", 20)
	viper.SetDefault("JWT_SECRET", DefaultJWTSecret)
	viper.SetDefault("ADMIN_ROLE", "admin")
	viper.SetDefault("SESSION_NAME", "sg_store_session")
	viper.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	viper.SetDefault("SESSION_MAX_AGE", 86400)
	viper.SetDefault("SESSION_SECURE", false)
	viper.SetDefault("STATE_DRIVER", "memory")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("STATE_TTL", "24h")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS")
	viper.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Authorization")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 30)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("LOG_MAX_SIZE_MB", 64)
	viper.SetDefault("LOG_MAX_BACKUPS", 7)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 7)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		BillAPI: BillAPIConfig{
			BaseURL: viper.GetString("BILL_API_URL"),
			Timeout: viper.GetDuration("BILL_API_TIMEOUT"),
		},
		Store: StoreConfig{
			Name:    viper.GetString("STORE_NAME"),
			Address: viper.GetString("STORE_ADDRESS"),
			Phone:   viper.GetString("STORE_PHONE"),
		},
		Receipt: ReceiptConfig{
			Overflow:  viper.GetString("RECEIPT_OVERFLOW"),
			Timezone:  viper.GetString("RECEIPT_TIMEZONE"),
			Filename:  viper.GetString("RECEIPT_FILENAME"),
			WidthInch: viper.GetFloat64("RECEIPT_WIDTH_INCH"),
			LengthMM:  viper.GetFloat64("RECEIPT_LENGTH_MM"),
		},
		List: ListConfig{
			PageSize: viper.GetInt("LIST_PAGE_SIZE"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
			AdminRole: viper.GetString("ADMIN_ROLE"),
		},
		Session: SessionConfig{
			Name:   viper.GetString("SESSION_NAME"),
			Secret: viper.GetString("SESSION_SECRET"),
			MaxAge: viper.GetInt("SESSION_MAX_AGE"),
			Secure: viper.GetBool("SESSION_SECURE"),
		},
		State: StateConfig{
			Driver:   viper.GetString("STATE_DRIVER"),
			RedisURL: viper.GetString("REDIS_URL"),
			TTL:      viper.GetDuration("STATE_TTL"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			Format:     viper.GetString("LOG_FORMAT"),
			File:       viper.GetString("LOG_FILE"),
			MaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
		},
	}
}

// splitList reads a comma separated environment value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
