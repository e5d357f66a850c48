package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// loadEnvFile loads the file named by -env, or ./.env when present.
// Variables already set in the process environment win.
func loadEnvFile() {
	path := flagx.EnvFileFlags()
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return
		}
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overlays values from environment variables. Malformed numbers,
// booleans and durations panic, like the other sources.
func parseEnv(config *Config) {
	loadEnvFile()

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			*dst = d
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			*dst = b
		}
	}

	str("ADDRESS", &config.EndpointAddrHTTP)
	str("STORAGE_BACKEND", &config.StorageBackend)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("JWT_SECRET", &config.SecretKey)
	dur("TOKEN_VALIDITY", &config.TokenValidityDuration)
	dur("REQUEST_TIMEOUT", &config.RequestTimeout)
	boolean("CASCADE_FLAT_MESSAGES", &config.CascadeFlatMessages)
	boolean("CASCADE_USER_CONTENT", &config.CascadeUserContent)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_ENDPOINT", &config.S3BaseEndpoint)
	dur("PHOTO_URL_VALIDITY", &config.PhotoURLValidity)
	str("LOG_LEVEL", &config.LogLevel)

	if v, ok := os.LookupEnv("BCRYPT_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("BCRYPT_COST: %w", err))
		}
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok && v != "" {
		config.CORSOrigins = splitList(v)
	}
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var res []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
