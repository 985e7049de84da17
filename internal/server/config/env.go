package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/connectlink/internal/timex"
	"github.com/joho/godotenv"
)

// parseEnv loads dotenvPath (if it exists) into the process environment and
// then overlays recognised variables onto config. Variables already set in
// the environment win over the .env file, as godotenv never overrides them.
//
// Recognised variables:
//
//	PORT, HTTP_ADDR, API_PREFIX, STORAGE, DATABASE_DSN, DATABASE_URL,
//	JWT_SECRET, JWT_EXPIRES_IN, CLIENT_URL, REQUEST_TIMEOUT, REDIS_ADDR,
//	REDIS_PASSWORD, S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION,
//	S3_BASE_ENDPOINT, LOG_BACKEND, LOG_LEVEL
//
// Malformed duration values panic.
func parseEnv(config *Config, dotenvPath string) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if port, ok := lookup("PORT"); ok {
		config.HTTPAddr = ":" + strings.TrimPrefix(port, ":")
	}
	envString(&config.HTTPAddr, "HTTP_ADDR")
	envString(&config.APIPrefix, "API_PREFIX")
	envString(&config.Storage, "STORAGE")
	envString(&config.DatabaseDSN, "DATABASE_URL")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "JWT_SECRET")
	envDuration(&config.TokenValidityDuration, "JWT_EXPIRES_IN")
	envString(&config.ClientURL, "CLIENT_URL")
	envDuration(&config.RequestTimeout, "REQUEST_TIMEOUT")
	envString(&config.RedisAddr, "REDIS_ADDR")
	envString(&config.RedisPassword, "REDIS_PASSWORD")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.LogBackend, "LOG_BACKEND")
	envString(&config.LogLevel, "LOG_LEVEL")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
