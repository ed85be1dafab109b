package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ServicePort      string
	MetricsPort      string
	PostgreSQLConfig PostgreSQLConfig
	JWTConfig        JWTConfig
	AuthConfig       AuthConfig
	SalesOrderConfig SalesOrderConfig
	RateLimitConfig  RateLimitConfig
	KafkaConfig      KafkaConfig
	TracingConfig    TracingConfig
}

// JWTConfig is read once at startup and treated as immutable afterwards.
type JWTConfig struct {
	Issuer            string
	Audience          string
	Key               string
	DurationInMinutes int
	RefreshTokenTTL   time.Duration
}

// Validate reports the first setting that would make every issued token
// unverifiable.
func (c JWTConfig) Validate() error {
	switch {
	case c.Key == "":
		return errors.New("JWT_KEY must be set")
	case c.Issuer == "":
		return errors.New("JWT_ISSUER must be set")
	case c.Audience == "":
		return errors.New("JWT_AUDIENCE must be set")
	}
	return nil
}

type AuthConfig struct {
	BcryptCost             int
	MaxFailedLoginAttempts int
	LockoutDuration        time.Duration
	SessionSweepInterval   time.Duration
}

type SalesOrderConfig struct {
	StrictTransitions bool
	ApproverRoles     []string
}

type RateLimitConfig struct {
	Enabled        bool
	RequestsPerSec float64
	Burst          int
	ExpiresIn      time.Duration
}

type TracingConfig struct {
	CollectorHost string
	ServiceName   string
}

func CreateNewConfig() *Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Debug().Str("component", "CreateNewConfig").Msg("no .env file found, using process environment")
	}

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "8081"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     getEnv("DB_PORT", "5432"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
		},
		JWTConfig: JWTConfig{
			Issuer:            os.Getenv("JWT_ISSUER"),
			Audience:          os.Getenv("JWT_AUDIENCE"),
			Key:               os.Getenv("JWT_KEY"),
			DurationInMinutes: getEnvInt("JWT_DURATION_IN_MINUTES", 60),
			RefreshTokenTTL:   getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		AuthConfig: AuthConfig{
			BcryptCost:             getEnvInt("BCRYPT_COST", 10),
			MaxFailedLoginAttempts: getEnvInt("MAX_FAILED_LOGIN_ATTEMPTS", 0),
			LockoutDuration:        getEnvDuration("LOCKOUT_DURATION", 15*time.Minute),
			SessionSweepInterval:   getEnvDuration("SESSION_SWEEP_INTERVAL", time.Hour),
		},
		SalesOrderConfig: SalesOrderConfig{
			StrictTransitions: getEnvBool("STRICT_SALES_ORDER_TRANSITIONS", false),
			ApproverRoles:     getEnvList("SALES_ORDER_APPROVER_ROLES", []string{"Admin", "SalesManager"}),
		},
		RateLimitConfig: RateLimitConfig{
			Enabled:        getEnvBool("AUTH_RATE_LIMIT_ENABLED", true),
			RequestsPerSec: getEnvFloat("AUTH_RATE_LIMIT_RPS", 5),
			Burst:          getEnvInt("AUTH_RATE_LIMIT_BURST", 10),
			ExpiresIn:      getEnvDuration("AUTH_RATE_LIMIT_EXPIRES_IN", 3*time.Minute),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "erp-events"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("OTEL_COLLECTOR_HOST"),
			ServiceName:   getEnv("OTEL_SERVICE_NAME", "erp-webservice"),
		},
	}

	return &conf
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

// getEnvList returns def only when key is unset. A key set to an empty value
// yields an empty list.
func getEnvList(key string, def []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	res := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
