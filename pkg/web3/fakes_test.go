package web3_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ethpandaops/web3-connect/pkg/web3"
)

type fakeTransport struct {
	accounts []string
	err      error
	calls    []string
	closed   bool
	mu       sync.Mutex
}

func (t *fakeTransport) CallContext(_ context.Context, result interface{}, method string, _ ...interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls = append(t.calls, method)

	if t.err != nil {
		return t.err
	}

	if method != "eth_accounts" {
		return errors.New("method not supported")
	}

	out, ok := result.(*[]string)
	if !ok {
		return errors.New("unexpected result type")
	}

	*out = append([]string{}, t.accounts...)

	return nil
}

func (t *fakeTransport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
}

type fakeProvider struct {
	target    string
	transport *fakeTransport
}

func (p *fakeProvider) Transport() web3.Transport { return p.transport }
func (p *fakeProvider) Target() string            { return p.target }

type fakeInjected struct {
	fakeProvider
	enableErr error
	enabled   int
}

func (p *fakeInjected) Enable(_ context.Context) error {
	p.enabled++

	return p.enableErr
}

type fakeEnvironment struct {
	injected    *fakeInjected
	legacy      *fakeProvider
	legacyCalls int
}

func (e *fakeEnvironment) Injected() web3.InjectedProvider {
	if e.injected == nil {
		return nil
	}

	return e.injected
}

func (e *fakeEnvironment) Legacy() web3.Provider {
	e.legacyCalls++

	if e.legacy == nil {
		return nil
	}

	return e.legacy
}

type fakeDialer struct {
	accounts  []string
	err       error
	endpoints []string
	mu        sync.Mutex
}

func (d *fakeDialer) Dial(_ context.Context, endpoint string) (web3.Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.endpoints = append(d.endpoints, endpoint)

	if d.err != nil {
		return nil, d.err
	}

	return &fakeTransport{accounts: d.accounts}, nil
}

func (d *fakeDialer) dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string{}, d.endpoints...)
}

func lookupEnv(vars map[string]string) web3.LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]

		return v, ok
	}
}
