package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/connectlink/internal/flagx"
	"github.com/dmitrijs2005/connectlink/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for unmarshalling from a JSON or YAML file.
// Durations accept "15m"/"7d" strings or integer nanoseconds. Only fields
// present in the file override the running configuration.
type FileConfig struct {
	HTTPAddr              string         `json:"http_addr" yaml:"http_addr"`
	APIPrefix             string         `json:"api_prefix" yaml:"api_prefix"`
	Storage               string         `json:"storage" yaml:"storage"`
	DatabaseDSN           string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey             string         `json:"secret_key" yaml:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration" yaml:"token_validity_duration"`
	ClientURL             string         `json:"client_url" yaml:"client_url"`
	RequestTimeout        timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	BodyLimitBytes        int64          `json:"body_limit_bytes" yaml:"body_limit_bytes"`
	RedisAddr             string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword         string         `json:"redis_password" yaml:"redis_password"`
	AuthRateLimit         float64        `json:"auth_rate_limit" yaml:"auth_rate_limit"`
	AuthRateBurst         float64        `json:"auth_rate_burst" yaml:"auth_rate_burst"`
	S3RootUser            string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region              string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	LogBackend            string         `json:"log_backend" yaml:"log_backend"`
	LogLevel              string         `json:"log_level" yaml:"log_level"`
}

// parseFile loads the file named by -c/-config, if any, into config.
// A file that cannot be read or decoded panics, like a bad flag does.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.APIPrefix, fc.APIPrefix)
	setString(&c.Storage, fc.Storage)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	if fc.TokenValidityDuration.Duration != 0 {
		c.TokenValidityDuration = fc.TokenValidityDuration.Duration
	}
	setString(&c.ClientURL, fc.ClientURL)
	if fc.RequestTimeout.Duration != 0 {
		c.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.BodyLimitBytes != 0 {
		c.BodyLimitBytes = fc.BodyLimitBytes
	}
	setString(&c.RedisAddr, fc.RedisAddr)
	setString(&c.RedisPassword, fc.RedisPassword)
	if fc.AuthRateLimit != 0 {
		c.AuthRateLimit = fc.AuthRateLimit
	}
	if fc.AuthRateBurst != 0 {
		c.AuthRateBurst = fc.AuthRateBurst
	}
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.LogBackend, fc.LogBackend)
	setString(&c.LogLevel, fc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
