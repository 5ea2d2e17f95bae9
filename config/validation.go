package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the configuration is complete enough for the
// current environment. Development and test runs tolerate missing
// credentials; production does not.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, "server port is required")
	}
	if cfg.JWTSecret == "" && (IsProduction() || GetEnvironment() == CI) {
		errs = append(errs, "jwt_secret is required")
	}
	if IsProduction() {
		if cfg.DBPassword == "" {
			errs = append(errs, "db_password is required in production")
		}
		if cfg.DBSSLMode == "" {
			errs = append(errs, "db_ssl_mode is required in production")
		}
	}
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errs = append(errs, "AWS_REGION is required when S3_BUCKET_NAME is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
