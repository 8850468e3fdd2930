package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	OTPStoreDatabase = "db"
	OTPStoreMemory   = "memory"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	JWT       JWTConfig
	Security  SecurityConfig
	OTP       OTPConfig
	SMTP      SMTPConfig
	Events    EventsConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	ClientURL   string
}

type StorageConfig struct {
	Driver   string // postgres or mongo
	OTPStore string // db or memory
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type MongoConfig struct {
	URI      string
	Database string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type SecurityConfig struct {
	SaltRounds int
}

type OTPConfig struct {
	TTLMinutes           int
	Length               int
	PurgeIntervalMinutes int
}

type SMTPConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	From           string
	FromName       string
	TimeoutSeconds int
}

type EventsConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "4000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")

	v.SetDefault("STORAGE_DRIVER", DriverPostgres)
	v.SetDefault("OTP_STORE", OTPStoreDatabase)

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "people")

	v.SetDefault("JWT_EXPIRY_HOURS", 48)
	v.SetDefault("SALT_ROUNDS", 10)

	v.SetDefault("OTP_TTL_MINUTES", 5)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_PURGE_INTERVAL_MINUTES", 1)

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "People API")
	v.SetDefault("SMTP_TIMEOUT_SECONDS", 15)

	v.SetDefault("MQTT_CLIENT_ID", "people-graphql-api")
	v.SetDefault("MQTT_TOPIC_PREFIX", "people")

	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 20.0)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)

	v.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})
	v.SetDefault("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"})
	v.SetDefault("CORS_ALLOW_CREDENTIALS", true)
	v.SetDefault("CORS_MAX_AGE", 43200)
}

// Load reads configuration from an optional .env file and the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	clientURL := v.GetString("CLIENT_URL")
	origins := stringSlice(v, "CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 && clientURL != "" {
		origins = []string{clientURL}
	}

	return &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Host:        v.GetString("SERVER_HOST"),
			Environment: v.GetString("ENVIRONMENT"),
			ClientURL:   clientURL,
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
			OTPStore: strings.ToLower(v.GetString("OTP_STORE")),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Security: SecurityConfig{
			SaltRounds: v.GetInt("SALT_ROUNDS"),
		},
		OTP: OTPConfig{
			TTLMinutes:           v.GetInt("OTP_TTL_MINUTES"),
			Length:               v.GetInt("OTP_LENGTH"),
			PurgeIntervalMinutes: v.GetInt("OTP_PURGE_INTERVAL_MINUTES"),
		},
		SMTP: SMTPConfig{
			Host:           v.GetString("SMTP_HOST"),
			Port:           v.GetInt("SMTP_PORT"),
			User:           v.GetString("SMTP_USER"),
			Password:       v.GetString("SMTP_PASSWORD"),
			From:           v.GetString("SMTP_FROM"),
			FromName:       v.GetString("SMTP_FROM_NAME"),
			TimeoutSeconds: v.GetInt("SMTP_TIMEOUT_SECONDS"),
		},
		Events: EventsConfig{
			Broker:      v.GetString("MQTT_BROKER"),
			ClientID:    v.GetString("MQTT_CLIENT_ID"),
			Username:    v.GetString("MQTT_USERNAME"),
			Password:    v.GetString("MQTT_PASSWORD"),
			TopicPrefix: v.GetString("MQTT_TOPIC_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: v.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   origins,
			AllowedMethods:   stringSlice(v, "CORS_ALLOWED_METHODS"),
			AllowedHeaders:   stringSlice(v, "CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   stringSlice(v, "CORS_EXPOSED_HEADERS"),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
	}
}

// stringSlice accepts both list defaults and comma-separated environment values.
func stringSlice(v *viper.Viper, key string) []string {
	raw, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key)
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports configuration that would prevent the service from starting.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.ExpiryHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY_HOURS must be positive"))
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for the postgres driver"))
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DATABASE are required for the mongo driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	if c.Storage.OTPStore != OTPStoreDatabase && c.Storage.OTPStore != OTPStoreMemory {
		errs = append(errs, fmt.Errorf("unknown OTP_STORE %q", c.Storage.OTPStore))
	}
	if c.OTP.TTLMinutes <= 0 {
		errs = append(errs, errors.New("OTP_TTL_MINUTES must be positive"))
	}

	return errors.Join(errs...)
}

func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
