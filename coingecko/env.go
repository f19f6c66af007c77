package coingecko

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lgc202/coingecko-kit/config"
)

// EnvPrefix namespaces the environment variables: COINGECKO_API_KEY,
// COINGECKO_TIMEOUT and COINGECKO_USER_AGENT.
const EnvPrefix = "COINGECKO"

// Settings is the externally supplied part of Config.
type Settings struct {
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Config converts s into a Config for NewClient.
func (s Settings) Config() Config {
	return Config{
		APIKey:    s.APIKey,
		Timeout:   s.Timeout,
		UserAgent: s.UserAgent,
	}
}

// LoadSettings reads Settings from the environment. When file is not empty it
// is read first (YAML, JSON or TOML) and the environment overrides it.
// dotenv files are loaded into the environment beforehand; missing ones are
// skipped.
func LoadSettings(file string, dotenv ...string) (Settings, error) {
	opts := []config.Option[Settings]{
		config.WithEnv[Settings](EnvPrefix),
		config.WithBindings[Settings]("api_key", "timeout", "user_agent"),
		config.WithDotEnv[Settings](dotenv...),
	}

	var (
		cfg *config.Config[Settings]
		err error
	)
	if strings.TrimSpace(file) != "" {
		cfg, err = config.Load[Settings](file, opts...)
	} else {
		cfg, err = config.LoadEnv[Settings](opts...)
	}
	if err != nil {
		return Settings{}, configError(err, "coingecko: load settings")
	}
	return cfg.Get(), nil
}

// NewClientFromEnv is LoadSettings followed by NewClient.
func NewClientFromEnv(file string, dotenv ...string) (*Client, error) {
	s, err := LoadSettings(file, dotenv...)
	if err != nil {
		return nil, err
	}
	c, err := NewClient(s.Config())
	if err != nil {
		return nil, errors.Wrap(err, "coingecko: client from environment")
	}
	return c, nil
}
