package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is stripped from environment variable names to form config keys.
	EnvPrefix = "MERGINGTON_"
	// EnvConfigFile names the YAML config file.
	EnvConfigFile = EnvPrefix + "CONFIG"
	// EnvDotenvFile overrides the .env path.
	EnvDotenvFile = EnvPrefix + "ENV_FILE"

	defaultDotenvFile = ".env"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Load builds a Config by layering defaults, a .env file, an optional YAML
// file and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. .env file (MERGINGTON_ENV_FILE or ./.env), skipped when absent
//  3. file (YAML) if MERGINGTON_CONFIG is set
//  4. env (prefix MERGINGTON_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if err := loadDotenv(k); err != nil {
		return nil, err
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MERGINGTON_ENFORCE_CAPACITY -> enforce_capacity. Underscores are kept
	// so keys match the flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints on c.
func Validate(c *Config) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// loadDotenv reads prefixed keys from the .env file without touching the
// process environment, so real env vars keep the highest precedence.
func loadDotenv(k *koanf.Koanf) error {
	path := os.Getenv(EnvDotenvFile)
	if path == "" {
		path = defaultDotenvFile
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, path, err)
	}
	for name, value := range values {
		if !strings.HasPrefix(name, EnvPrefix) || name == EnvConfigFile || name == EnvDotenvFile {
			continue
		}
		if err := k.Set(envKey(name), value); err != nil {
			return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, name, err)
		}
	}
	return nil
}

func envKey(s string) string {
	return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
}
