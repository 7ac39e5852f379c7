package web3

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	defaultNetworkID = 1

	tokenEnvVar     = "INFURA_TOKEN"
	networkIDEnvVar = "NETWORK_ID"
)

// sourceNone labels resolutions that never got as far as choosing a source.
const sourceNone Source = "none"

// ResolvedFunc is invoked once a handle has been built and published.
type ResolvedFunc func(handle *Handle, isFallback bool)

// LookupEnvFunc reads an environment variable.
type LookupEnvFunc func(key string) (string, bool)

type Option func(*Resolver)

// WithLookupEnv replaces os.LookupEnv for token and network ID lookups.
func WithLookupEnv(fn LookupEnvFunc) Option {
	return func(r *Resolver) {
		r.lookupEnv = fn
	}
}

type resolveOptions struct {
	networkID *int
}

type ResolveOption func(*resolveOptions)

// WithNetworkID overrides the configured network ID for a single resolution.
func WithNetworkID(networkID int) ResolveOption {
	return func(o *resolveOptions) {
		o.networkID = &networkID
	}
}

// Resolver picks a provider from the environment, builds a handle for it and
// publishes the handle and its accounts to a State.
type Resolver struct {
	log       logrus.FieldLogger
	config    *Config
	env       Environment
	dialer    Dialer
	state     *State
	metrics   *Metrics
	lookupEnv LookupEnvFunc
}

// NewResolver creates a resolver. namespace prefixes the resolver metrics
// ("_web3" is appended).
func NewResolver(
	log logrus.FieldLogger,
	namespace string,
	config *Config,
	env Environment,
	dialer Dialer,
	state *State,
	opts ...Option,
) *Resolver {
	if config == nil {
		config = &Config{}
	}

	r := &Resolver{
		log:       log.WithField("module", "web3/resolver"),
		config:    config,
		env:       env,
		dialer:    dialer,
		state:     state,
		metrics:   GetMetricsInstance(fmt.Sprintf("%s_web3", namespace)),
		lookupEnv: os.LookupEnv,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// State returns the state the resolver publishes to.
func (r *Resolver) State() *State {
	return r.state
}

// Resolve runs one resolution attempt in the background. The returned channel
// is closed once the attempt has settled, including the account fetch.
//
// There is no timeout on the authorization grant or the account fetch other
// than ctx. If either never returns, the state is never updated.
func (r *Resolver) Resolve(ctx context.Context, onResolved ResolvedFunc, opts ...ResolveOption) <-chan struct{} {
	done := make(chan struct{})

	r.state.SetStatus(StatusUnresolved)

	go func() {
		defer close(done)

		r.resolve(ctx, onResolved, opts...)
	}()

	return done
}

func (r *Resolver) resolve(ctx context.Context, onResolved ResolvedFunc, opts ...ResolveOption) {
	var provider Provider

	if injected := r.env.Injected(); injected != nil {
		r.log.WithField("target", injected.Target()).Info("Injected provider detected, requesting account access")

		r.state.SetStatus(StatusAwaitingAuthorization)

		// No further fallback once an injected provider exists.
		if err := injected.Enable(ctx); err != nil {
			r.log.WithError(err).Warn("User denied account access")

			r.fail(SourceInjected, fmt.Errorf("%w: %w", ErrAuthorizationDenied, err))

			return
		}

		provider = injected
	} else if legacy := r.env.Legacy(); legacy != nil {
		r.log.WithField("target", legacy.Target()).Info("Legacy provider detected")

		provider = legacy
	} else {
		r.log.Warn("No local web3 provider detected")

		if r.config.DisableFallback {
			r.fail(sourceNone, ErrNoProviderAvailable)

			return
		}
	}

	handle, err := r.BuildHandle(ctx, provider, onResolved, opts...)
	if err != nil {
		r.log.WithError(err).Error("Failed to build web3 handle")

		return
	}

	r.fetchAccounts(ctx, handle)
}

// BuildHandle builds and publishes a handle. With a nil provider it dials the
// fallback endpoint for the selected network; otherwise it wraps the
// provider's transport in a new handle. onResolved may be nil.
func (r *Resolver) BuildHandle(
	ctx context.Context,
	provider Provider,
	onResolved ResolvedFunc,
	opts ...ResolveOption,
) (*Handle, error) {
	var handle *Handle

	if provider == nil {
		o := &resolveOptions{}
		for _, opt := range opts {
			opt(o)
		}

		source, endpoint := r.fallbackEndpoint(o.networkID)

		transport, err := r.dialer.Dial(ctx, endpoint)
		if err != nil {
			err = fmt.Errorf("%w: failed to dial %s endpoint: %w", ErrNoProviderAvailable, source, err)

			r.fail(source, err)

			return nil, err
		}

		handle = NewHandle(source, endpoint, transport)
	} else {
		source := SourceLegacy
		if _, ok := provider.(InjectedProvider); ok {
			source = SourceInjected
		}

		// Never reuse the provider object itself, only its transport.
		handle = NewHandle(source, provider.Target(), provider.Transport())
	}

	r.state.SetHandle(handle)
	r.metrics.ObserveResolution(handle.Source(), StatusResolved)

	r.log.WithFields(logrus.Fields{
		"source":   handle.Source(),
		"target":   redact(handle.Target()),
		"fallback": handle.IsFallback(),
	}).Info("Web3 handle resolved")

	if onResolved != nil {
		onResolved(handle, handle.IsFallback())
	}

	return handle, nil
}

// NetworkID returns the network ID used to pick a remote endpoint: the
// override if given, then the configured value, then the environment default.
func (r *Resolver) NetworkID(override *int) int {
	if override != nil {
		return *override
	}

	if r.config.NetworkID != nil {
		return *r.config.NetworkID
	}

	raw, ok := r.lookupEnv(r.config.EnvPrefix + networkIDEnvVar)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultNetworkID
	}

	networkID, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		r.log.WithField("value", raw).Warn("Invalid network ID in environment, using mainnet")

		return defaultNetworkID
	}

	return networkID
}

// EndpointFor returns the remote endpoint for chain using the access token
// from the environment. A missing token is not detected.
func (r *Resolver) EndpointFor(chain string) string {
	token, _ := r.lookupEnv(r.config.EnvPrefix + tokenEnvVar)

	return EndpointFor(chain, r.config.RemoteHost, token)
}

// EndpointFor builds https://{chain}.{host}/{token}.
func EndpointFor(chain, host, token string) string {
	return fmt.Sprintf("https://%s.%s/%s", chain, host, token)
}

func (r *Resolver) fallbackEndpoint(override *int) (Source, string) {
	if r.config.Mode == ModeDevelopment {
		return SourceLocal, r.config.LocalEndpoint
	}

	networkID := r.NetworkID(override)
	chain := ChainNameForNetwork(networkID)

	r.log.WithFields(logrus.Fields{
		"network_id": networkID,
		"chain":      chain,
	}).Info("Using remote fallback endpoint")

	return SourceRemote, r.EndpointFor(chain)
}

func (r *Resolver) fetchAccounts(ctx context.Context, handle *Handle) {
	accounts, err := handle.Accounts(ctx)

	r.metrics.ObserveAccountFetch(len(accounts), err)

	if err != nil {
		r.log.WithError(fmt.Errorf("%w: %w", ErrAccountFetch, err)).Error("Error trying to get accounts")

		return
	}

	if !r.state.PublishAccounts(handle, accounts) {
		r.log.Debug("Discarding accounts fetched for a superseded handle")

		return
	}

	r.log.WithField("accounts", len(accounts)).Info("Accounts published")
}

func (r *Resolver) fail(source Source, err error) {
	r.state.SetUnavailable(err)
	r.metrics.ObserveResolution(source, StatusUnavailable)
}
