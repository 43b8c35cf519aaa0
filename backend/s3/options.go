package s3

import (
	"errors"
	"os"
	"strconv"
)

// Errors specific to the S3 store.
var (
	ErrIncompleteCredentials = errors.New("s3: access key id and secret access key must be set together")
)

// Config holds configuration for the S3 store.
// Buckets are chosen per call, so Config carries only the session settings.
type Config struct {
	// Region is the AWS region (e.g., "us-east-1").
	// If empty, uses AWS_REGION or AWS_DEFAULT_REGION environment variable.
	Region string

	// Endpoint is a custom endpoint URL for S3-compatible services.
	// Examples:
	//   - MinIO: "http://localhost:9000"
	//   - Cloudflare R2: "https://<account_id>.r2.cloudflarestorage.com"
	// Leave empty for AWS S3.
	Endpoint string

	// AccessKeyID is the AWS access key ID.
	// If empty, the default credential chain is used (env, shared config, IAM role).
	AccessKeyID string

	// SecretAccessKey is the AWS secret access key.
	SecretAccessKey string

	// SessionToken is an optional session token for temporary credentials.
	SessionToken string

	// UsePathStyle forces path-style addressing instead of virtual-hosted-style.
	// Required for MinIO and some older S3-compatible services.
	UsePathStyle bool

	// PartSize is the byte range fetched per ranged GET when downloading.
	// Default: 5MB.
	PartSize int64

	// Concurrency is the number of ranged GETs issued in parallel per object.
	// Default: 5.
	Concurrency int

	// MaxKeys is the page size requested from ListObjectsV2.
	// 0 uses the service default (1000).
	MaxKeys int32
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		PartSize:    5 * 1024 * 1024, // 5MB
		Concurrency: 5,
	}
}

// ConfigFromEnv creates a Config from environment variables.
// Environment variables:
//   - OMNITABLE_S3_REGION or AWS_REGION or AWS_DEFAULT_REGION: region
//   - OMNITABLE_S3_ENDPOINT: custom endpoint
//   - AWS_ACCESS_KEY_ID: access key
//   - AWS_SECRET_ACCESS_KEY: secret key
//   - AWS_SESSION_TOKEN: session token
//   - OMNITABLE_S3_USE_PATH_STYLE: "true" for path-style addressing
//   - OMNITABLE_S3_PART_SIZE: download part size in bytes
//   - OMNITABLE_S3_CONCURRENCY: ranged GETs per object
func ConfigFromEnv() Config {
	config := DefaultConfig()

	// Region
	if v := os.Getenv("OMNITABLE_S3_REGION"); v != "" {
		config.Region = v
	} else if v := os.Getenv("AWS_REGION"); v != "" {
		config.Region = v
	} else if v := os.Getenv("AWS_DEFAULT_REGION"); v != "" {
		config.Region = v
	}

	if v := os.Getenv("OMNITABLE_S3_ENDPOINT"); v != "" {
		config.Endpoint = v
	}

	// Credentials from environment (AWS SDK will also pick these up)
	config.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	config.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	config.SessionToken = os.Getenv("AWS_SESSION_TOKEN")

	if v := os.Getenv("OMNITABLE_S3_USE_PATH_STYLE"); v == "true" || v == "1" {
		config.UsePathStyle = true
	}
	if v := os.Getenv("OMNITABLE_S3_PART_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil && size > 0 {
			config.PartSize = size
		}
	}
	if v := os.Getenv("OMNITABLE_S3_CONCURRENCY"); v != "" {
		if c, err := strconv.Atoi(v); err == nil && c > 0 {
			config.Concurrency = c
		}
	}

	return config
}

// ConfigFromMap creates a Config from a string map.
// Supported keys:
//   - region: AWS region
//   - endpoint: custom endpoint URL
//   - access_key_id: AWS access key
//   - secret_access_key: AWS secret key
//   - session_token: session token
//   - use_path_style: "true" for path-style addressing
//   - part_size: download part size in bytes
//   - concurrency: ranged GETs per object
//   - max_keys: list page size
func ConfigFromMap(m map[string]string) Config {
	config := DefaultConfig()

	if v, ok := m["region"]; ok {
		config.Region = v
	}
	if v, ok := m["endpoint"]; ok {
		config.Endpoint = v
	}
	if v, ok := m["access_key_id"]; ok {
		config.AccessKeyID = v
	}
	if v, ok := m["secret_access_key"]; ok {
		config.SecretAccessKey = v
	}
	if v, ok := m["session_token"]; ok {
		config.SessionToken = v
	}
	if v, ok := m["use_path_style"]; ok && (v == "true" || v == "1") {
		config.UsePathStyle = true
	}
	if v, ok := m["part_size"]; ok {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil && size > 0 {
			config.PartSize = size
		}
	}
	if v, ok := m["concurrency"]; ok {
		if c, err := strconv.Atoi(v); err == nil && c > 0 {
			config.Concurrency = c
		}
	}
	if v, ok := m["max_keys"]; ok {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			config.MaxKeys = int32(n)
		}
	}

	return config
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return ErrIncompleteCredentials
	}
	return nil
}
