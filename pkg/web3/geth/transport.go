package geth

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/ethpandaops/web3-connect/pkg/web3"
)

// Compile-time interface checks.
var (
	_ web3.Transport     = (*Transport)(nil)
	_ web3.AccountLister = (*Transport)(nil)
)

// Transport adapts a go-ethereum RPC client to web3.Transport.
type Transport struct {
	client *rpc.Client
}

func NewTransport(client *rpc.Client) *Transport {
	return &Transport{client: client}
}

// Client returns the underlying RPC client.
func (t *Transport) Client() *rpc.Client {
	return t.client
}

func (t *Transport) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return t.client.CallContext(ctx, result, method, args...)
}

func (t *Transport) Close() {
	t.client.Close()
}

// Accounts calls eth_accounts and rejects any entry that is not a hex address.
func (t *Transport) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string

	if err := t.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if !common.IsHexAddress(account) {
			return nil, fmt.Errorf("provider returned invalid address %q", account)
		}
	}

	return accounts, nil
}

// RequestAccounts calls eth_requestAccounts, the authorization grant of
// injected wallets.
func (t *Transport) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string

	if err := t.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}

	return accounts, nil
}
