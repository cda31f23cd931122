package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Load reads the server configuration. Values come from env-default tags,
// then the YAML file named by CONFIG_PATH (default ./config.yaml), then the
// environment.
func Load() (*Config, error) {
	return load[Config]("CONFIG_PATH", "./config.yaml")
}

// LoadClient reads the commentctl configuration from COMMENTCTL_CONFIG
// (default ./commentctl.yaml) and the environment. Flag overrides are the
// caller's job.
func LoadClient() (*ClientConfig, error) {
	return load[ClientConfig]("COMMENTCTL_CONFIG", "./commentctl.yaml")
}

type validator interface {
	Validate() error
}

func load[T any, PT interface {
	*T
	validator
}](pathEnv, fallback string) (*T, error) {
	cfg := new(T)

	path, err := locate(pathEnv, fallback)
	switch {
	case err != nil:
		return nil, err
	case path == "":
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	default:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := PT(cfg).Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// locate returns the config file to read, or "" when only the environment
// applies. A missing file is an error only when pathEnv named it.
func locate(pathEnv, fallback string) (string, error) {
	path, explicit := os.LookupEnv(pathEnv)
	if !explicit || path == "" {
		path, explicit = fallback, false
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		return path, nil
	case explicit:
		return "", fmt.Errorf("config: file %s: %w", path, err)
	case errors.Is(err, fs.ErrNotExist):
		return "", nil
	default:
		return "", fmt.Errorf("config: file %s: %w", path, err)
	}
}
