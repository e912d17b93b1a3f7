package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSRegion      string

	JWTPublicKeyPath  string
	JWTPrivateKeyPath string
	JWTExpiryDays     int

	// Service-account JSON used for both the FCM HTTP v1 API and the
	// identity-provider admin API.
	GoogleCredentialsPath string

	APNSKeyPath    string
	APNSKeyID      string
	APNSTeamID     string
	APNSTopic      string
	APNSProduction bool

	// ResolveConcurrency caps concurrent per-mobile lookups during token
	// resolution.
	ResolveConcurrency int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each collection.
type DynamoTables struct {
	Users   string
	Repairs string
}

// JWTExpiry returns the bearer token lifetime.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryDays) * 24 * time.Hour
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:   getEnv("DYNAMO_TABLE_USERS", "users"),
			Repairs: getEnv("DYNAMO_TABLE_REPAIRS", "repairs"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "repairtrack-images"),
		SNSRegion:    getEnv("SNS_REGION", "us-east-1"),

		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTExpiryDays:     getEnvInt("JWT_EXPIRY_DAYS", 7),

		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", "./service_account.json"),

		APNSKeyPath:    getEnv("APNS_KEY_PATH", "./apns_key.p8"),
		APNSKeyID:      getEnv("APNS_KEY_ID", ""),
		APNSTeamID:     getEnv("APNS_TEAM_ID", ""),
		APNSTopic:      getEnv("APNS_TOPIC", "com.repairtrack.app"),
		APNSProduction: getEnvBool("APNS_PRODUCTION", true),

		ResolveConcurrency: getEnvInt("RESOLVE_CONCURRENCY", 8),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
