package config

import (
	"errors"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
)

const (
	DefaultIbcVersion    = "mesh-security-v0.1"
	DefaultPacketTimeout = 10 * time.Minute

	// rates up to 2^64 keep converted rewards within LegacyDec range
	maxExchangeRateBitLen = 64 + sdkmath.LegacyDecimalPrecisionBits
)

// ProviderConfig holds the parameters fixed at instantiation of the provider.
type ProviderConfig struct {
	// Port and connection the consumer contract is bound to.
	ConsumerPortID       string `mapstructure:"consumer-port-id"`
	ConsumerConnectionID string `mapstructure:"consumer-connection-id"`
	// Local port the provider packets are sent from.
	PortID                    string        `mapstructure:"port-id"`
	IbcVersion                string        `mapstructure:"ibc-version"`
	RemoteToLocalExchangeRate string        `mapstructure:"remote-to-local-exchange-rate"`
	LockupAddress             string        `mapstructure:"lockup-address"`
	SlasherAddress            string        `mapstructure:"slasher-address"`
	UnbondingPeriod           time.Duration `mapstructure:"unbonding-period"`
	PacketTimeout             time.Duration `mapstructure:"packet-timeout"`
	RewardDenom               string        `mapstructure:"reward-denom"`

	exchangeRate sdkmath.LegacyDec
}

func (cfg *ProviderConfig) Validate() error {
	if cfg.ConsumerConnectionID == "" {
		return errors.New("missing consumer connection id")
	}

	if cfg.ConsumerPortID == "" {
		return errors.New("missing consumer port id")
	}

	if cfg.LockupAddress == "" {
		return errors.New("missing lockup address")
	}

	if cfg.SlasherAddress == "" {
		return errors.New("missing slasher address")
	}

	if cfg.RewardDenom == "" {
		return errors.New("missing reward denom")
	}

	// A zero unbonding period is valid, claims mature in the same block.
	if cfg.UnbondingPeriod < 0 {
		return errors.New("unbonding period cannot be negative")
	}

	if cfg.PacketTimeout == 0 {
		cfg.PacketTimeout = DefaultPacketTimeout
	}
	if cfg.PacketTimeout < 0 {
		return errors.New("packet timeout must be positive")
	}

	if cfg.IbcVersion == "" {
		cfg.IbcVersion = DefaultIbcVersion
	}

	rate, err := sdkmath.LegacyNewDecFromStr(cfg.RemoteToLocalExchangeRate)
	if err != nil {
		return fmt.Errorf("invalid remote to local exchange rate: %w", err)
	}
	if !rate.IsPositive() {
		return errors.New("remote to local exchange rate must be positive")
	}
	if rate.BigInt().BitLen() > maxExchangeRateBitLen {
		return errors.New("remote to local exchange rate is too large")
	}
	cfg.exchangeRate = rate

	return nil
}

// ExchangeRate returns the parsed remote-to-local exchange rate. Validate
// must have been called first.
func (cfg *ProviderConfig) ExchangeRate() sdkmath.LegacyDec {
	if cfg.exchangeRate.IsNil() {
		return sdkmath.LegacyMustNewDecFromStr(cfg.RemoteToLocalExchangeRate)
	}
	return cfg.exchangeRate
}
