package web3

import (
	"fmt"
	"strings"
)

// Mode is the execution mode of the host application.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// ProviderConfig points a host-environment provider at a JSON-RPC endpoint.
type ProviderConfig struct {
	// Address is the JSON-RPC endpoint of the provider.
	Address string `yaml:"address"`
	// Headers are sent with every request to the provider.
	Headers map[string]string `yaml:"headers"`
}

func (c *ProviderConfig) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("address is required")
	}

	return nil
}

type Config struct {
	// NetworkID selects the remote endpoint when no local provider is available.
	// Falls back to <envPrefix>NETWORK_ID, then mainnet.
	NetworkID *int `yaml:"networkID"`
	// Mode is either development or production.
	Mode Mode `yaml:"mode" default:"production"`
	// RemoteHost is the hosted node service used for remote endpoints.
	RemoteHost string `yaml:"remoteHost" default:"infura.io"`
	// LocalEndpoint is dialed in development mode when no provider is present.
	LocalEndpoint string `yaml:"localEndpoint" default:"http://localhost:8545"`
	// EnvPrefix is prepended to INFURA_TOKEN and NETWORK_ID environment lookups.
	EnvPrefix string `yaml:"envPrefix" default:"REACT_APP_"`
	// DisableFallback stops resolution when neither provider is present.
	DisableFallback bool `yaml:"disableFallback"`
	// Injected configures the authorization-gated wallet provider.
	Injected *ProviderConfig `yaml:"injected"`
	// Legacy configures the provider with always-exposed accounts.
	Legacy *ProviderConfig `yaml:"legacy"`
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	if c.Injected != nil {
		if err := c.Injected.Validate(); err != nil {
			return fmt.Errorf("invalid injected provider configuration: %w", err)
		}
	}

	if c.Legacy != nil {
		if err := c.Legacy.Validate(); err != nil {
			return fmt.Errorf("invalid legacy provider configuration: %w", err)
		}
	}

	return nil
}
