package web3

import "context"

// Transport is the JSON-RPC channel a handle sends its requests through.
// *rpc.Client from go-ethereum satisfies it.
type Transport interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

// AccountLister is implemented by transports that list accounts themselves
// instead of relying on a raw eth_accounts call.
type AccountLister interface {
	Accounts(ctx context.Context) ([]string, error)
}

// Provider is a connectivity object found in the host environment.
type Provider interface {
	// Transport returns the provider's underlying transport.
	Transport() Transport
	// Target describes where the transport is connected.
	Target() string
}

// InjectedProvider is a wallet-supplied provider that gates account access
// behind a user authorization grant.
type InjectedProvider interface {
	Provider
	// Enable requests account access. It returns an error if access is denied.
	Enable(ctx context.Context) error
}

// Environment reports which providers the host makes available.
// A nil return means the capability is absent.
type Environment interface {
	Injected() InjectedProvider
	Legacy() Provider
}

// Dialer builds transports for fallback endpoints.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Transport, error)
}
