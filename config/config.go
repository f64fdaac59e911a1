package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultConfigFile is read from the working directory when no --config is given.
const DefaultConfigFile = "rssz.yaml"

// EnvPrefix prefixes environment overrides, e.g. RSSZ_FUSEKI_URL -> fuseki.url.
const EnvPrefix = "RSSZ_"

type Config struct {
	Port       string        `koanf:"port"`
	Verbose    bool          `koanf:"verbose"`
	DBPath     string        `koanf:"db_path"`
	ResultsDir string        `koanf:"results_dir"`
	Fuseki     FusekiConfig  `koanf:"fuseki"`
	Session    SessionConfig `koanf:"session"`
	Proxy      ProxyConfig   `koanf:"proxy"`
}

type FusekiConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`

	// MaxResponseBytes bounds a response body; larger responses are an error.
	MaxResponseBytes int64 `koanf:"max_response_bytes"`
}

type SessionConfig struct {
	Secret  string        `koanf:"secret"`
	IdleTTL time.Duration `koanf:"idle_ttl"`
}

type ProxyConfig struct {
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":                      "3000",
		"verbose":                   false,
		"db_path":                   "./data/badger",
		"results_dir":               "./results",
		"fuseki.url":                "http://localhost:3030/rssz/sparql",
		"fuseki.timeout":            "30s",
		"fuseki.max_response_bytes": 32 << 20,
		"session.secret":            "rssz-development-secret",
		"session.idle_ttl":          "30m",
		"proxy.rate_per_second":     10.0,
		"proxy.burst":               20,
	}
}

// Load builds the configuration. Precedence, highest first: flags, RSSZ_ env
// vars, the config file, defaults. cfgFile may be empty.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// RSSZ_FUSEKI_URL -> fuseki.url, RSSZ_DB_PATH -> db_path
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var flagKeys = map[string]string{
	"port":        "port",
	"verbose":     "verbose",
	"db-path":     "db_path",
	"results-dir": "results_dir",
	"fuseki-url":  "fuseki.url",
}

var envSections = []string{"fuseki", "session", "proxy"}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range envSections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Fuseki.URL == "" {
		return fmt.Errorf("fuseki.url must be set")
	}
	if c.Fuseki.Timeout <= 0 {
		return fmt.Errorf("fuseki.timeout must be positive")
	}
	if c.Fuseki.MaxResponseBytes <= 0 {
		return fmt.Errorf("fuseki.max_response_bytes must be positive")
	}
	// Display state of a session must outlive any query it is waiting for.
	if c.Session.IdleTTL <= c.Fuseki.Timeout {
		return fmt.Errorf("session.idle_ttl (%s) must be longer than fuseki.timeout (%s)", c.Session.IdleTTL, c.Fuseki.Timeout)
	}
	if c.Port == "" {
		return fmt.Errorf("port must be set")
	}
	if c.Proxy.RatePerSecond <= 0 || c.Proxy.Burst <= 0 {
		return fmt.Errorf("proxy.rate_per_second and proxy.burst must be positive")
	}
	return nil
}
