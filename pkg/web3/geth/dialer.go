// Package geth provides go-ethereum backed transports and providers for the
// web3 resolver.
package geth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/web3-connect/pkg/web3"
)

// Compile-time check that Dialer implements web3.Dialer.
var _ web3.Dialer = (*Dialer)(nil)

// headerTransport adds custom headers to requests and respects context cancellation.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	if req.Context().Err() != nil {
		return nil, req.Context().Err()
	}

	return t.base.RoundTrip(req)
}

// Dialer opens JSON-RPC connections over HTTP.
type Dialer struct {
	log logrus.FieldLogger
}

func NewDialer(log logrus.FieldLogger) *Dialer {
	return &Dialer{
		log: log.WithField("module", "web3/geth/dialer"),
	}
}

// Dial opens a transport to endpoint without extra headers.
func (d *Dialer) Dial(ctx context.Context, endpoint string) (web3.Transport, error) {
	return d.DialWithHeaders(ctx, endpoint, nil)
}

// DialWithHeaders opens a transport to endpoint that sends headers with every request.
func (d *Dialer) DialWithHeaders(ctx context.Context, endpoint string, headers map[string]string) (*Transport, error) {
	// No client timeout, request lifetime is controlled by the caller's context.
	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: headers,
			base: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}

	client, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}

	d.log.WithField("headers", len(headers)).Debug("Opened RPC transport")

	return NewTransport(client), nil
}
