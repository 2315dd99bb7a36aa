package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cwallet/pkg/wallet"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = ".cwallet.yaml"

// ServerConfig holds the API server listen settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config holds the application configuration.
type Config struct {
	RPCURLs             []string            `yaml:"rpc_urls"`
	DataDir             string              `yaml:"data_dir"`
	PollIntervalSeconds int                 `yaml:"poll_interval_seconds"`
	WalletLinks         []wallet.WalletLink `yaml:"wallet_links"`
	InstallURL          string              `yaml:"install_url"`
	Server              ServerConfig        `yaml:"server"`
}

// GetConfigPath resolves the config file location: an explicit path wins,
// otherwise the file lives in the user's home directory.
func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

func defaults() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		RPCURLs:             []string{"https://eth.llamarpc.com"},
		DataDir:             filepath.Join(home, ".cwallet", "data"),
		PollIntervalSeconds: 30,
		WalletLinks:         wallet.DefaultWalletLinks,
		InstallURL:          wallet.DefaultInstallURL,
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// Load reads the YAML config file and applies environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.loadEnv()

	if len(cfg.RPCURLs) == 0 {
		return nil, fmt.Errorf("configuration has no RPC URLs")
	}
	return cfg, nil
}

func (c *Config) loadEnv() {
	if url := os.Getenv("CWALLET_RPC_URL"); url != "" {
		c.RPCURLs = []string{url}
	}
	if dir := os.Getenv("CWALLET_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if host := os.Getenv("CWALLET_SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("CWALLET_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if interval := os.Getenv("CWALLET_POLL_INTERVAL"); interval != "" {
		if i, err := strconv.Atoi(interval); err == nil && i > 0 {
			c.PollIntervalSeconds = i
		}
	}
}
