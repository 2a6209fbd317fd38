// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, metrics, and logging.
type App struct {
	Name        string `yaml:"name"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Alarm toggles the audible cues played while a liquidation runs.
type Alarm struct {
	Enabled bool `yaml:"enabled"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App         App         `yaml:"app"`
	Dex         Dex         `yaml:"dex"`
	Wallet      Wallet      `yaml:"wallet"`
	Liquidation Liquidation `yaml:"liquidation"`
	Alarm       Alarm       `yaml:"alarm"`
}

// Default returns a Config populated with production endpoints and defaults.
func Default() *Config {
	cfg := &Config{Alarm: Alarm{Enabled: true}}
	cfg.Liquidation.Requote = true
	cfg.Normalize()
	return cfg
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.Normalize()
	return config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.App.Name == "" {
		c.App.Name = "panicsell"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	c.Dex.normalize()
	c.Liquidation.normalize()
}

// ApplyEnv overrides file values with environment variables when they are set.
// Call godotenv.Load beforehand to pick up a local .env file.
func (c *Config) ApplyEnv() {
	setString(&c.Dex.RpcURL, "SOLANA_RPC_URL")
	setString(&c.Dex.JupiterBase, "JUPITER_BASE_URL")
	setString(&c.Dex.Commitment, "SOLANA_COMMITMENT")
	setString(&c.Dex.HeliusRpcURL, "HELIUS_RPC_URL")
	setString(&c.Wallet.PrivateKeyBase58, "SOLANA_PRIVATE_KEY_BASE58")
	setString(&c.App.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("PANICSELL_DUMP_SOL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Liquidation.IncludeNative = b
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
