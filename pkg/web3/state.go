package web3

import (
	"sync"
)

// Status is the resolution lifecycle state.
type Status string

const (
	StatusUnresolved            Status = "unresolved"
	StatusAwaitingAuthorization Status = "awaiting_authorization"
	StatusResolved              Status = "resolved"
	StatusUnavailable           Status = "unavailable"
)

// Snapshot is a point-in-time copy of the observable state.
type Snapshot struct {
	Status        Status   `json:"status"`
	Source        Source   `json:"source,omitempty"`
	Target        string   `json:"target,omitempty"`
	IsFallback    bool     `json:"is_fallback"`
	ActiveAddress string   `json:"active_address,omitempty"`
	Accounts      []string `json:"accounts"`
	Error         string   `json:"error,omitempty"`
}

// State holds the resolved handle and account data for consumers.
// Only the resolver should mutate it; everything else reads.
type State struct {
	mu sync.RWMutex

	handle        *Handle
	activeAddress string
	accounts      []string
	status        Status
	err           error

	changed chan struct{}
}

func NewState() *State {
	return &State{
		status:   StatusUnresolved,
		accounts: []string{},
		changed:  make(chan struct{}),
	}
}

// Changed returns a channel that is closed on the next mutation.
func (s *State) Changed() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.changed
}

// notify must be called with the write lock held.
func (s *State) notify() {
	close(s.changed)
	s.changed = make(chan struct{})
}

func (s *State) Handle() *Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.handle
}

func (s *State) ActiveAddress() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.activeAddress
}

func (s *State) Accounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.accounts))
	copy(out, s.accounts)

	return out
}

func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.status
}

// Err returns the error that ended the last resolution, if any.
func (s *State) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.err
}

// SetHandle publishes a new handle and marks resolution as complete.
// Account data belonging to the previous handle is cleared.
func (s *State) SetHandle(handle *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handle = handle
	s.activeAddress = ""
	s.accounts = []string{}
	s.status = StatusResolved
	s.err = nil

	s.notify()
}

func (s *State) SetActiveAddress(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeAddress = address

	s.notify()
}

func (s *State) SetAccounts(accounts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = append([]string{}, accounts...)

	s.notify()
}

// SetStatus moves the lifecycle without touching handle or accounts.
func (s *State) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status

	s.notify()
}

// SetUnavailable drops any published handle and records why resolution ended.
func (s *State) SetUnavailable(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handle = nil
	s.activeAddress = ""
	s.accounts = []string{}
	s.status = StatusUnavailable
	s.err = err

	s.notify()
}

// PublishAccounts stores accounts fetched from handle. The first account
// becomes the active address. It returns false and leaves the state untouched
// if handle is no longer the published one.
func (s *State) PublishAccounts(handle *Handle, accounts []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if handle == nil || s.handle != handle {
		return false
	}

	s.accounts = append([]string{}, accounts...)

	if len(accounts) > 0 {
		s.activeAddress = accounts[0]
	}

	s.notify()

	return true
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Status:        s.status,
		ActiveAddress: s.activeAddress,
		Accounts:      append([]string{}, s.accounts...),
	}

	if s.handle != nil {
		snap.Source = s.handle.Source()
		snap.Target = redact(s.handle.Target())
		snap.IsFallback = s.handle.IsFallback()
	}

	if s.err != nil {
		snap.Error = s.err.Error()
	}

	return snap
}
