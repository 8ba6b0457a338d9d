package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL     string
	WSBaseURL      string
	RequestTimeout time.Duration

	// Session monitor
	MonitorInterval time.Duration
	WarnBefore      time.Duration

	// Request cache retention
	StatsTTL      time.Duration
	ListTTL       time.Duration
	DetailTTL     time.Duration
	SweepInterval time.Duration

	CredentialsFile string

	// Feature flags, read once at startup
	OTPLoginEnabled         bool
	ActivationStreamEnabled bool
}

func LoadConfig() *Config {
	apiURL := GetEnv("LICADMIN_API_URL", "https://licensing.posguard.io")
	wsURL := GetEnv("LICADMIN_WS_URL", "wss://licensing.posguard.io")

	requestTimeoutSec := GetEnvAsInt("LICADMIN_REQUEST_TIMEOUT_SECONDS", 30)

	monitorIntervalSec := GetEnvAsInt("SESSION_CHECK_INTERVAL_SECONDS", 30)
	warnMinutes := GetEnvAsInt("SESSION_WARN_MINUTES", 5)

	statsTTLSec := GetEnvAsInt("CACHE_STATS_TTL_SECONDS", 60)
	listTTLSec := GetEnvAsInt("CACHE_LIST_TTL_SECONDS", 300)
	detailTTLSec := GetEnvAsInt("CACHE_DETAIL_TTL_SECONDS", 600)
	sweepIntervalSec := GetEnvAsInt("CACHE_SWEEP_INTERVAL_SECONDS", 30)

	credsFile := GetEnv("LICADMIN_CREDENTIALS_FILE", "")
	if credsFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			credsFile = filepath.Join(home, ".licadmin", "credentials.json")
		} else {
			credsFile = ".licadmin-credentials.json"
		}
	}

	return &Config{
		APIBaseURL:              apiURL,
		WSBaseURL:               wsURL,
		RequestTimeout:          time.Duration(requestTimeoutSec) * time.Second,
		MonitorInterval:         time.Duration(monitorIntervalSec) * time.Second,
		WarnBefore:              time.Duration(warnMinutes) * time.Minute,
		StatsTTL:                time.Duration(statsTTLSec) * time.Second,
		ListTTL:                 time.Duration(listTTLSec) * time.Second,
		DetailTTL:               time.Duration(detailTTLSec) * time.Second,
		SweepInterval:           time.Duration(sweepIntervalSec) * time.Second,
		CredentialsFile:         credsFile,
		OTPLoginEnabled:         GetEnvAsBool("FEATURE_OTP_LOGIN", true),
		ActivationStreamEnabled: GetEnvAsBool("FEATURE_ACTIVATION_STREAM", true),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
