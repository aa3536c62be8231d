// internal/pkg/config/validators.go
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validator checks a loaded configuration
type Validator interface {
	Validate(cfg *Config) error
}

// BasicValidator performs basic configuration validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	if err := validateRequiredFields(cfg); err != nil {
		return err
	}

	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}
	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive")
	}
	if cfg.Catalog.SessionTTL <= 0 {
		return fmt.Errorf("catalog session_ttl must be positive")
	}
	if cfg.Catalog.HTTPRatePerSec < 0 {
		return fmt.Errorf("catalog http rate must not be negative")
	}

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" || cfg.Database.Name == "" {
			return fmt.Errorf("%w: database host and name", ErrMissingRequiredConfig)
		}
		if cfg.Database.MaxConnections < cfg.Database.MinConnections {
			return fmt.Errorf("database max_connections must be >= min_connections")
		}
	}
	if cfg.AWS.S3Enabled && cfg.AWS.S3Bucket == "" {
		return fmt.Errorf("%w: s3 bucket", ErrMissingRequiredConfig)
	}

	for name, spec := range map[string]string{
		"refresh": cfg.Catalog.RefreshSpec,
		"prune":   cfg.Catalog.PruneSpec,
	} {
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid catalog %s spec %q: %w", name, spec, err)
		}
	}

	if cfg.Catalog.ExportRetention < 0 {
		return fmt.Errorf("catalog export retention must not be negative")
	}

	return validateDomains(cfg)
}

// validateDomains runs each domain's own validation on a copy so that the
// stored configs stay as loaded.
func validateDomains(cfg *Config) error {
	if len(cfg.Catalog.Domains) == 0 {
		return fmt.Errorf("%w: at least one catalog domain", ErrMissingRequiredConfig)
	}
	seen := make(map[string]bool, len(cfg.Catalog.Domains))
	for _, d := range cfg.Catalog.Domains {
		c := d.Clone()
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Name] {
			return fmt.Errorf("catalog domain %q configured twice", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	if cfg.Database.Enabled {
		if strings.Contains(cfg.Database.Password, "MISSING_") || cfg.Database.Password == "storefront_dev" {
			return fmt.Errorf("%w: database password", ErrMissingRequiredConfig)
		}
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("database SSL must be enabled in production")
		}
	}

	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}

	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin (*) not allowed in production")
		}
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed origins must be configured in production")
	}

	if cfg.Server.TLSEnabled {
		if cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "" {
			return fmt.Errorf("TLS cert and key files must be provided when TLS is enabled")
		}
	}

	return nil
}

// validateRequiredFields uses reflection to check required struct tags
func validateRequiredFields(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return validateStruct(v, "")
}

func validateStruct(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		fieldName := fieldType.Name

		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}

		if required := fieldType.Tag.Get("required"); required == "true" {
			if isZeroValue(field) {
				return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, fieldName)
			}
		}

		if field.Kind() == reflect.Struct && fieldType.PkgPath == "" && fieldType.Type.PkgPath() == t.PkgPath() {
			if err := validateStruct(field, fieldName); err != nil {
				return err
			}
		}
	}

	return nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == "" || strings.HasPrefix(v.String(), "MISSING_")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
