package web3

import (
	"context"
	"net/url"
)

// Source identifies where a handle's transport came from.
type Source string

const (
	SourceInjected Source = "injected"
	SourceLegacy   Source = "legacy"
	SourceRemote   Source = "remote"
	SourceLocal    Source = "local"
)

// Handle is the resolved connectivity object. It is immutable once built;
// a new resolution produces a new Handle.
type Handle struct {
	source    Source
	target    string
	transport Transport
}

func NewHandle(source Source, target string, transport Transport) *Handle {
	return &Handle{
		source:    source,
		target:    target,
		transport: transport,
	}
}

// Source returns where the handle's transport came from.
func (h *Handle) Source() Source {
	return h.source
}

// Target returns the endpoint or provider description the handle is bound to.
// Remote targets include the access token.
func (h *Handle) Target() string {
	return h.target
}

// Transport returns the underlying transport.
func (h *Handle) Transport() Transport {
	return h.transport
}

// IsFallback reports whether the handle was built from a fallback endpoint
// rather than adopted from a host provider.
func (h *Handle) IsFallback() bool {
	return h.source == SourceRemote || h.source == SourceLocal
}

// Accounts lists the accounts exposed by the handle's transport.
func (h *Handle) Accounts(ctx context.Context) ([]string, error) {
	if lister, ok := h.transport.(AccountLister); ok {
		return lister.Accounts(ctx)
	}

	var accounts []string

	if err := h.transport.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}

	return accounts, nil
}

// Close releases the underlying transport.
func (h *Handle) Close() {
	if h.transport != nil {
		h.transport.Close()
	}
}

// String returns the target with any path secret masked.
func (h *Handle) String() string {
	return string(h.source) + ":" + redact(h.target)
}

func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return target
	}

	if u.Path != "" && u.Path != "/" {
		u.Path = "/redacted"
	}

	u.User = nil
	u.RawQuery = ""

	return u.String()
}
