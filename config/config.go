package config

import (
	"os"
	"strconv"
	"time"
)

var (
	PORT         = getEnv("PORT", "80")
	DATA_DB_URL  = getEnv("DATA_DB_URL", "127.0.0.1:3306")
	DATA_DB_NAME = getEnv("DATA_DB_NAME", "contestbk")
	DATA_DB_USER = getEnv("DATA_DB_USER", "root")
	TX_DB_URL    = getEnv("TX_DB_URL", "127.0.0.1:3003")

	// MIN_WITHDRAWAL_BALANCE gates preview creation; accounts below it are ineligible.
	MIN_WITHDRAWAL_BALANCE = getFloatEnv("MIN_WITHDRAWAL_BALANCE", 1)

	// COUNTDOWN_DURATION is how long an account's withdrawal window stays open
	// once credited.
	COUNTDOWN_DURATION = getDurationEnv("COUNTDOWN_DURATION", 72*time.Hour)
)

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
