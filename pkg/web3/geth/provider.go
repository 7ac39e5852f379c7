package geth

import (
	"context"

	"github.com/ethpandaops/web3-connect/pkg/web3"
)

// Compile-time interface checks.
var (
	_ web3.Provider         = (*Provider)(nil)
	_ web3.InjectedProvider = (*InjectedProvider)(nil)
)

// Provider is a host provider reached over JSON-RPC whose accounts are
// always exposed.
type Provider struct {
	target    string
	transport *Transport
}

func NewProvider(target string, transport *Transport) *Provider {
	return &Provider{
		target:    target,
		transport: transport,
	}
}

func (p *Provider) Transport() web3.Transport {
	return p.transport
}

func (p *Provider) Target() string {
	return p.target
}

// InjectedProvider is a wallet reached over JSON-RPC that requires an
// eth_requestAccounts grant before exposing accounts.
type InjectedProvider struct {
	Provider
}

func NewInjectedProvider(target string, transport *Transport) *InjectedProvider {
	return &InjectedProvider{
		Provider: Provider{
			target:    target,
			transport: transport,
		},
	}
}

// Enable asks the wallet for account access. Any RPC error, including a user
// rejection, is returned as is.
func (p *InjectedProvider) Enable(ctx context.Context) error {
	_, err := p.transport.RequestAccounts(ctx)

	return err
}
