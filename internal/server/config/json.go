package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/flatfinder/internal/flagx"
	"github.com/dmitrijs2005/flatfinder/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept strings such
// as "15m" or integer nanoseconds. Omitted fields leave the current value
// untouched.
type JsonConfig struct {
	EndpointAddrHTTP      string          `json:"endpoint_addr_http"`
	StorageBackend        string          `json:"storage_backend"`
	DatabaseDSN           string          `json:"database_dsn"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	BcryptCost            int             `json:"bcrypt_cost"`
	RequestTimeout        *timex.Duration `json:"request_timeout"`
	CORSOrigins           []string        `json:"cors_origins"`
	CascadeFlatMessages   *bool           `json:"cascade_flat_messages"`
	CascadeUserContent    *bool           `json:"cascade_user_content"`
	S3AccessKey           string          `json:"s3_access_key"`
	S3SecretKey           string          `json:"s3_secret_key"`
	S3Bucket              string          `json:"s3_bucket"`
	S3Region              string          `json:"s3_region"`
	S3BaseEndpoint        string          `json:"s3_base_endpoint"`
	PhotoURLValidity      *timex.Duration `json:"photo_url_validity"`
	LogLevel              string          `json:"log_level"`
}

// parseJson loads the JSON file named by -c or -config into config. Without
// the flag nothing is loaded. An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	str := func(src string, dst *string) {
		if src != "" {
			*dst = src
		}
	}

	str(c.EndpointAddrHTTP, &config.EndpointAddrHTTP)
	str(c.StorageBackend, &config.StorageBackend)
	str(c.DatabaseDSN, &config.DatabaseDSN)
	str(c.SecretKey, &config.SecretKey)
	str(c.S3AccessKey, &config.S3AccessKey)
	str(c.S3SecretKey, &config.S3SecretKey)
	str(c.S3Bucket, &config.S3Bucket)
	str(c.S3Region, &config.S3Region)
	str(c.S3BaseEndpoint, &config.S3BaseEndpoint)
	str(c.LogLevel, &config.LogLevel)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.PhotoURLValidity != nil {
		config.PhotoURLValidity = c.PhotoURLValidity.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.CascadeFlatMessages != nil {
		config.CascadeFlatMessages = *c.CascadeFlatMessages
	}
	if c.CascadeUserContent != nil {
		config.CascadeUserContent = *c.CascadeUserContent
	}
}
