package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server configuration
	Environment string
	BaseURL     string

	// Event metadata stamped into outgoing emails
	EventTitle string
	EventDate  string
	EventVenue string

	// Redis configuration
	RedisURL string

	// Paystack configuration
	PaystackBaseURL   string
	PaystackSecretKey string
	// PaymentCallbackURL is where the gateway sends the buyer after
	// checkout.
	PaymentCallbackURL string

	// Resend configuration
	ResendAPIKey    string
	ResendDomain    string
	ResendFromName  string
	AdminRecipients []string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubUserID       string
	PubNubAdminChannel string

	// Admin authentication
	AdminKeyHash string

	// Rate limiting
	RateLimit       int
	RateLimitWindow time.Duration
}

func LoadConfig() *Config {
	baseURL := getEnv("BASE_URL", "http://localhost:8090")

	return &Config{
		// Server
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     baseURL,

		// Event
		EventTitle: getEnv("EVENT_TITLE", "MIDNIGHT MADNESS III"),
		EventDate:  getEnv("EVENT_DATE", "December 31, 2025"),
		EventVenue: getEnv("EVENT_VENUE", "Accra, Ghana"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "localhost:6379"),

		// Paystack
		PaystackBaseURL:    getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		PaystackSecretKey:  getEnv("PAYSTACK_SECRET_KEY", ""),
		PaymentCallbackURL: getEnv("PAYMENT_CALLBACK_URL", baseURL+"/payment/callback"),

		// Resend
		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		ResendDomain:    getEnv("RESEND_DOMAIN", ""),
		ResendFromName:  getEnv("RESEND_FROM_NAME", "Midnight Madness"),
		AdminRecipients: getEnvAsSlice("ADMIN_EMAILS"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubUserID:       getEnv("PUBNUB_USER_ID", "mm-tickets-server"),
		PubNubAdminChannel: getEnv("PUBNUB_ADMIN_CHANNEL", "admin-manual-payments"),

		// Admin
		AdminKeyHash: getEnv("ADMIN_KEY_HASH", ""),

		// Rate limiting
		RateLimit:       getEnvAsInt("RATE_LIMIT", 30),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}

	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
