package web3

import "errors"

// Sentinel errors for provider resolution.
var (
	// ErrAuthorizationDenied indicates the injected provider refused account access.
	ErrAuthorizationDenied = errors.New("account access denied by injected provider")

	// ErrNoProviderAvailable indicates no provider was detected and no fallback could be built.
	ErrNoProviderAvailable = errors.New("no web3 provider available")

	// ErrAccountFetch indicates the account list could not be retrieved from the handle.
	ErrAccountFetch = errors.New("failed to fetch accounts")

	// ErrInvalidMode indicates an unknown execution mode was configured.
	ErrInvalidMode = errors.New("invalid execution mode")
)
