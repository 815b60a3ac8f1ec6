package config

import (
	"fmt"

	tmcfg "github.com/tendermint/tendermint/config"
)

type Config struct {
	*tmcfg.Config
	Vesting *VestingConfig `mapstructure:"vesting"`
}

// VestingConfig is the [vesting] section of config.toml.
type VestingConfig struct {
	ChainID string `mapstructure:"chain_id"`
	// LedgerCacheSize is the node cache size of the iavl tree.
	LedgerCacheSize int `mapstructure:"ledger_cache_size"`
}

func DefaultVestingConfig() *VestingConfig {
	return &VestingConfig{
		ChainID:         "vesting-local",
		LedgerCacheSize: 2048,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Config:  tmcfg.DefaultConfig(),
		Vesting: DefaultVestingConfig(),
	}
}

func DefaultConfigWith(cfg *tmcfg.Config) *Config {
	return &Config{
		Config:  cfg,
		Vesting: DefaultVestingConfig(),
	}
}

func (c *Config) SetRoot(root string) *Config {
	c.Config.SetRoot(root)
	return c
}

func (c *Config) ValidateBasic() error {
	if c.Vesting == nil {
		return fmt.Errorf("missing [vesting] section")
	}
	if c.Vesting.LedgerCacheSize <= 0 {
		return fmt.Errorf("vesting.ledger_cache_size must be positive: %d", c.Vesting.LedgerCacheSize)
	}
	return nil
}
