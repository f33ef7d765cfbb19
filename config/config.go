package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config carries the node-level settings of the launch service. Field names
// mirror the TOML keys one to one.
type Config struct {
	ListenAddress  string `toml:"ListenAddress"`
	DataDir        string `toml:"DataDir"`
	NetworkName    string `toml:"NetworkName"`
	LogFile        string `toml:"LogFile"`
	AuthSecret     string `toml:"AuthSecret"`
	RaiseFeeBps    uint32 `toml:"RaiseFeeBps"`
	MinDeposit     int64  `toml:"MinDeposit"`
	StakingEnabled bool   `toml:"StakingEnabled"`
	BackerShareBps uint32 `toml:"BackerShareBps"`
	RateLimit      int    `toml:"RateLimit"`
	RateBurst      int    `toml:"RateBurst"`
}

const bpsDenominator = 10_000

func defaultConfig() *Config {
	return &Config{
		ListenAddress:  "0.0.0.0:8645",
		DataDir:        "./launch-data",
		NetworkName:    "launch-local",
		RaiseFeeBps:    250,
		MinDeposit:     1,
		BackerShareBps: 8_000,
		RateLimit:      50,
		RateBurst:      100,
	}
}

// Load loads the configuration from the given path. A missing file is created
// with defaults so a fresh checkout boots without manual setup.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	base := defaultConfig()
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = base.ListenAddress
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = base.DataDir
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = base.NetworkName
	}
	if cfg.MinDeposit <= 0 {
		cfg.MinDeposit = base.MinDeposit
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = base.RateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = base.RateBurst
	}
	if cfg.BackerShareBps == 0 {
		cfg.BackerShareBps = base.BackerShareBps
	}
}

// Validate rejects settings the engines would refuse at runtime.
func (c *Config) Validate() error {
	if c.RaiseFeeBps > bpsDenominator {
		return fmt.Errorf("config: RaiseFeeBps %d exceeds %d", c.RaiseFeeBps, bpsDenominator)
	}
	if c.BackerShareBps > bpsDenominator {
		return fmt.Errorf("config: BackerShareBps %d exceeds %d", c.BackerShareBps, bpsDenominator)
	}
	if c.MinDeposit <= 0 {
		return fmt.Errorf("config: MinDeposit must be positive")
	}
	if strings.TrimSpace(c.ListenAddress) == "" {
		return fmt.Errorf("config: ListenAddress required")
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := defaultConfig()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
