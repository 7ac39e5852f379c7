package geth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/web3-connect/pkg/web3"
	"github.com/ethpandaops/web3-connect/pkg/web3/geth"
)

const (
	addrA = "0x00000000000000000000000000000000000000aa"
	addrB = "0x00000000000000000000000000000000000000bb"
)

type ethService struct {
	accounts []string
	deny     bool
}

func (s *ethService) Accounts() []string {
	return s.accounts
}

func (s *ethService) RequestAccounts() ([]string, error) {
	if s.deny {
		return nil, errors.New("user rejected the request")
	}

	return s.accounts, nil
}

type node struct {
	url string

	mu      sync.Mutex
	headers []http.Header
}

func (n *node) seenHeaders() []http.Header {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]http.Header{}, n.headers...)
}

func newNode(t *testing.T, service *ethService) *node {
	t.Helper()

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", service))

	n := &node{}

	httpServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.mu.Lock()
		n.headers = append(n.headers, r.Header.Clone())
		n.mu.Unlock()

		server.ServeHTTP(w, r)
	}))

	t.Cleanup(func() {
		httpServer.Close()
		server.Stop()
	})

	n.url = httpServer.URL

	return n
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

func TestTransport_Accounts(t *testing.T) {
	n := newNode(t, &ethService{accounts: []string{addrA, addrB}})

	transport, err := geth.NewDialer(newLogger()).DialWithHeaders(context.Background(), n.url, map[string]string{"X-Api-Key": "k"})
	require.NoError(t, err)

	defer transport.Close()

	accounts, err := transport.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{addrA, addrB}, accounts)

	headers := n.seenHeaders()
	require.NotEmpty(t, headers)
	assert.Equal(t, "k", headers[0].Get("X-Api-Key"))
}

func TestTransport_AccountsRejectsInvalidAddress(t *testing.T) {
	n := newNode(t, &ethService{accounts: []string{addrA, "not-an-address"}})

	transport, err := geth.NewDialer(newLogger()).DialWithHeaders(context.Background(), n.url, nil)
	require.NoError(t, err)

	defer transport.Close()

	_, err = transport.Accounts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address")
}

func TestDialer_UnsupportedScheme(t *testing.T) {
	_, err := geth.NewDialer(newLogger()).Dial(context.Background(), "ftp://localhost:8545")
	assert.Error(t, err)
}

func TestEnvironment_Absent(t *testing.T) {
	config := &web3.Config{}

	env, err := geth.NewEnvironment(context.Background(), newLogger(), config, geth.NewDialer(newLogger()))
	require.NoError(t, err)

	defer env.Close()

	assert.Nil(t, env.Injected())
	assert.Nil(t, env.Legacy())
}

func TestInjectedProvider_Enable(t *testing.T) {
	granted := newNode(t, &ethService{accounts: []string{addrA}})
	denied := newNode(t, &ethService{deny: true})

	dialer := geth.NewDialer(newLogger())

	grantedTransport, err := dialer.DialWithHeaders(context.Background(), granted.url, nil)
	require.NoError(t, err)

	deniedTransport, err := dialer.DialWithHeaders(context.Background(), denied.url, nil)
	require.NoError(t, err)

	assert.NoError(t, geth.NewInjectedProvider(granted.url, grantedTransport).Enable(context.Background()))

	err = geth.NewInjectedProvider(denied.url, deniedTransport).Enable(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user rejected")
}

func resolve(t *testing.T, config *web3.Config) (*web3.Resolver, *web3.Handle) {
	t.Helper()

	log := newLogger()
	dialer := geth.NewDialer(log)

	env, err := geth.NewEnvironment(context.Background(), log, config, dialer)
	require.NoError(t, err)

	t.Cleanup(env.Close)

	resolver := web3.NewResolver(log, "geth_test", config, env, dialer, web3.NewState(),
		web3.WithLookupEnv(func(string) (string, bool) { return "", false }))

	var handle *web3.Handle

	done := resolver.Resolve(context.Background(), func(h *web3.Handle, _ bool) {
		handle = h
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("resolution did not settle")
	}

	return resolver, handle
}

func TestResolve_InjectedOverRPC(t *testing.T) {
	wallet := newNode(t, &ethService{accounts: []string{addrA, addrB}})
	legacy := newNode(t, &ethService{accounts: []string{addrB}})

	config := &web3.Config{
		Mode:     web3.ModeProduction,
		Injected: &web3.ProviderConfig{Address: wallet.url},
		Legacy:   &web3.ProviderConfig{Address: legacy.url},
	}

	resolver, handle := resolve(t, config)

	require.NotNil(t, handle)
	assert.Equal(t, web3.SourceInjected, handle.Source())
	assert.Equal(t, wallet.url, handle.Target())
	assert.Equal(t, addrA, resolver.State().ActiveAddress())
	assert.Equal(t, []string{addrA, addrB}, resolver.State().Accounts())
	assert.Empty(t, legacy.seenHeaders())
}

func TestResolve_InjectedDeniedOverRPC(t *testing.T) {
	wallet := newNode(t, &ethService{deny: true})
	legacy := newNode(t, &ethService{accounts: []string{addrB}})

	config := &web3.Config{
		Mode:     web3.ModeProduction,
		Injected: &web3.ProviderConfig{Address: wallet.url},
		Legacy:   &web3.ProviderConfig{Address: legacy.url},
	}

	resolver, handle := resolve(t, config)

	assert.Nil(t, handle)
	assert.Nil(t, resolver.State().Handle())
	assert.ErrorIs(t, resolver.State().Err(), web3.ErrAuthorizationDenied)
	assert.Empty(t, legacy.seenHeaders())
}

func TestResolve_LocalEndpointOverRPC(t *testing.T) {
	local := newNode(t, &ethService{accounts: []string{addrB}})

	config := &web3.Config{
		Mode:          web3.ModeDevelopment,
		LocalEndpoint: local.url,
	}

	resolver, handle := resolve(t, config)

	require.NotNil(t, handle)
	assert.Equal(t, web3.SourceLocal, handle.Source())
	assert.True(t, handle.IsFallback())
	assert.Equal(t, addrB, resolver.State().ActiveAddress())
}
