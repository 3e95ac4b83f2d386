package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Durable store (MongoDB).
	DatabaseURL   string        `mapstructure:"DATABASE_URL"`
	DatabaseName  string        `mapstructure:"DATABASE_NAME"`
	RemoteTimeout time.Duration `mapstructure:"REMOTE_TIMEOUT"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`
	CachePrefix    string `mapstructure:"CACHE_PREFIX"`

	// Optional YAML catalog replacing the built-in seed packages.
	SeedCatalogFile string `mapstructure:"SEED_CATALOG_FILE"`

	// Pricing and booking policy.
	PricingChildRatio  float64 `mapstructure:"PRICING_CHILD_RATIO"`
	PricingBabyRatio   float64 `mapstructure:"PRICING_BABY_RATIO"`
	AllowDeferredProof bool    `mapstructure:"ALLOW_DEFERRED_PROOF"`
	WalletMinTopUp     int64   `mapstructure:"WALLET_MIN_TOPUP"`
	HashPasswords      bool    `mapstructure:"HASH_PASSWORDS"`

	// Flight provider.
	FlightAPIURL       string  `mapstructure:"FLIGHT_API_URL"`
	FlightAPIKey       string  `mapstructure:"FLIGHT_API_KEY"`
	FlightExchangeRate float64 `mapstructure:"FLIGHT_EXCHANGE_RATE"`
	FlightMarkup       int64   `mapstructure:"FLIGHT_MARKUP"`

	// Third-party credentials.
	GeminiAPIKey        string `mapstructure:"GEMINI_API_KEY"`
	SendGridAPIKey      string `mapstructure:"SENDGRID_API_KEY"`
	MailFrom            string `mapstructure:"MAIL_FROM"`
	MailFromName        string `mapstructure:"MAIL_FROM_NAME"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	PassportEncryptKey  string `mapstructure:"PASSPORT_ENCRYPTION_KEY"`
	FirebaseCredentials string `mapstructure:"FIREBASE_CREDENTIALS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)

	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "travelagency")
	viper.SetDefault("REMOTE_TIMEOUT", "8s")

	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("CACHE_PREFIX", "travel:")
	viper.SetDefault("SEED_CATALOG_FILE", "")

	viper.SetDefault("PRICING_CHILD_RATIO", 0.7)
	viper.SetDefault("PRICING_BABY_RATIO", 0.3)
	viper.SetDefault("ALLOW_DEFERRED_PROOF", false)
	viper.SetDefault("WALLET_MIN_TOPUP", 10000)
	viper.SetDefault("HASH_PASSWORDS", false)

	viper.SetDefault("FLIGHT_API_URL", "")
	viper.SetDefault("FLIGHT_API_KEY", "")
	viper.SetDefault("FLIGHT_EXCHANGE_RATE", 250.0)
	viper.SetDefault("FLIGHT_MARKUP", 2000)

	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("MAIL_FROM", "contact@travelagency.local")
	viper.SetDefault("MAIL_FROM_NAME", "Travel Agency")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("PASSPORT_ENCRYPTION_KEY", "")
	viper.SetDefault("FIREBASE_CREDENTIALS", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
