package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL       string
	Port              string
	StaffPhone        string
	StaffEmail        string
	PurgePendingAfter time.Duration
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	purgeDays := getEnvAsIntOrDefault("PURGE_PENDING_AFTER_DAYS", 30)

	return &Config{
		DatabaseURL:       dbURL,
		Port:              getEnvOrDefault("PORT", "8080"),
		StaffPhone:        os.Getenv("STAFF_PHONE"),
		StaffEmail:        os.Getenv("STAFF_EMAIL"),
		PurgePendingAfter: time.Duration(purgeDays) * 24 * time.Hour,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	log.Printf("Environment variable %s is not set, using default value", key)
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	log.Printf("Environment variable %s is not set, using default value", key)
	return defaultValue
}
