package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Comments.validate(); err != nil {
		return fmt.Errorf("comments: %w", err)
	}

	if c.RateLimit.PublicPerMinute <= 0 {
		return fmt.Errorf("rate_limit.public_per_minute must be > 0 (got %d)", c.RateLimit.PublicPerMinute)
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be > 0 (got %d)", c.RateLimit.Burst)
	}

	return nil
}

func (c *CommentsConfig) validate() error {
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("max_content_length must be > 0 (got %d)", c.MaxContentLength)
	}
	if c.MaxAuthorLength <= 0 {
		return fmt.Errorf("max_author_length must be > 0 (got %d)", c.MaxAuthorLength)
	}
	if c.MaxCountEntities <= 0 {
		return fmt.Errorf("max_count_entities must be > 0 (got %d)", c.MaxCountEntities)
	}
	return nil
}

// Validate checks the client configuration.
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL (got %q)", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", c.Timeout)
	}
	if c.Tour.AutoPlayInterval <= 0 {
		return fmt.Errorf("tour.autoplay_interval must be > 0 (got %v)", c.Tour.AutoPlayInterval)
	}
	return nil
}
