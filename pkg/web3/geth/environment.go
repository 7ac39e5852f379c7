package geth

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/web3-connect/pkg/web3"
)

// Compile-time check that Environment implements web3.Environment.
var _ web3.Environment = (*Environment)(nil)

// Environment exposes the providers configured for this host. A provider
// without configuration is reported as absent.
type Environment struct {
	injected *InjectedProvider
	legacy   *Provider
}

// NewEnvironment dials the injected and legacy providers named in config.
func NewEnvironment(ctx context.Context, log logrus.FieldLogger, config *web3.Config, dialer *Dialer) (*Environment, error) {
	log = log.WithField("module", "web3/geth/environment")

	env := &Environment{}

	if config.Injected != nil {
		transport, err := dialer.DialWithHeaders(ctx, config.Injected.Address, config.Injected.Headers)
		if err != nil {
			return nil, fmt.Errorf("failed to dial injected provider: %w", err)
		}

		env.injected = NewInjectedProvider(config.Injected.Address, transport)

		log.Info("Injected provider configured")
	}

	if config.Legacy != nil {
		transport, err := dialer.DialWithHeaders(ctx, config.Legacy.Address, config.Legacy.Headers)
		if err != nil {
			env.Close()

			return nil, fmt.Errorf("failed to dial legacy provider: %w", err)
		}

		env.legacy = NewProvider(config.Legacy.Address, transport)

		log.Info("Legacy provider configured")
	}

	return env, nil
}

func (e *Environment) Injected() web3.InjectedProvider {
	if e.injected == nil {
		return nil
	}

	return e.injected
}

func (e *Environment) Legacy() web3.Provider {
	if e.legacy == nil {
		return nil
	}

	return e.legacy
}

// Close releases the provider transports.
func (e *Environment) Close() {
	if e.injected != nil {
		e.injected.transport.Close()
	}

	if e.legacy != nil {
		e.legacy.transport.Close()
	}
}
