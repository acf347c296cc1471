package service

import (
	"sync"

	"github.com/avitali/borsellino/models"
)

// AuthState enumerates the session states. Exactly one holds at any time.
type AuthState int

const (
	// StateAnonymous: no token, no profile.
	StateAnonymous AuthState = iota
	// StateLoading: a stored token exists and profile verification is in
	// flight.
	StateLoading
	// StateAuthenticated: the last profile fetch with the current token
	// succeeded and the profile is loaded.
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// AccountState is the locally cached view of the authenticated user: session
// state, profile with balance, and transaction history (newest first). It is
// a cache over server truth with one reconciliation rule: confirmed
// transaction deltas are applied locally without a refetch.
//
// Mutation is restricted to the auth and wallet services (single-writer
// discipline); everything else observes through the read accessors and
// Subscribe. Committed auth transitions bump an internal generation counter
// so that a stale in-flight result (e.g. a delayed bootstrap completing
// after an explicit logout) can be detected and discarded.
type AccountState struct {
	mu         sync.RWMutex
	state      AuthState
	profile    *models.User
	history    []models.Transaction
	generation uint64
	subs       []chan struct{}
}

func NewAccountState() *AccountState {
	return &AccountState{state: StateAnonymous}
}

// State returns the current session state.
func (a *AccountState) State() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Profile returns a copy of the cached profile and whether one is loaded.
// The boolean is true exactly when the state is [StateAuthenticated].
func (a *AccountState) Profile() (models.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.profile == nil {
		return models.User{}, false
	}
	return *a.profile, true
}

// Balance returns the cached balance, or zero when no profile is loaded.
func (a *AccountState) Balance() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.profile == nil {
		return 0
	}
	return a.profile.Balance
}

// History returns a copy of the cached transaction history, newest first.
func (a *AccountState) History() []models.Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.Transaction, len(a.history))
	copy(out, a.history)
	return out
}

// Generation returns the current auth generation. Callers snapshot it before
// a network round trip and pass it back to the conditional mutators, which
// reject the result when a committed transition happened in between.
func (a *AccountState) Generation() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.generation
}

// Subscribe registers a change listener. The returned channel receives a
// coalesced signal (buffer of one) after every committed mutation; consumers
// re-read the accessors on receipt.
func (a *AccountState) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	a.mu.Lock()
	a.subs = append(a.subs, ch)
	a.mu.Unlock()
	return ch
}

func (a *AccountState) notify() {
	a.mu.RLock()
	subs := a.subs
	a.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// setLoading marks profile verification as in flight. It is not a committed
// transition and does not bump the generation.
func (a *AccountState) setLoading() {
	a.mu.Lock()
	a.state = StateLoading
	a.mu.Unlock()
	a.notify()
}

// setAnonymous resets to the anonymous state, dropping profile and history,
// and bumps the generation so in-flight results issued under the previous
// session are discarded.
func (a *AccountState) setAnonymous() {
	a.mu.Lock()
	a.state = StateAnonymous
	a.profile = nil
	a.history = nil
	a.generation++
	a.mu.Unlock()
	a.notify()
}

// setAuthenticated commits an authenticated session with user loaded. State
// and profile change under one lock so no observer ever sees an
// authenticated session without a profile.
func (a *AccountState) setAuthenticated(user models.User) {
	a.mu.Lock()
	a.state = StateAuthenticated
	a.profile = &user
	a.generation++
	a.mu.Unlock()
	a.notify()
}

// setAuthenticatedIf is the generation-guarded variant used by bootstrap:
// the commit is dropped when a transition happened while the profile fetch
// was in flight. Reports whether the commit was applied.
func (a *AccountState) setAuthenticatedIf(gen uint64, user models.User) bool {
	a.mu.Lock()
	if a.generation != gen {
		a.mu.Unlock()
		return false
	}
	a.state = StateAuthenticated
	a.profile = &user
	a.mu.Unlock()
	a.notify()
	return true
}

// replaceProfileIf swaps the whole profile snapshot (profile refresh) unless
// the session moved on. Reports whether the replacement was applied.
func (a *AccountState) replaceProfileIf(gen uint64, user models.User) bool {
	a.mu.Lock()
	if a.generation != gen || a.state != StateAuthenticated {
		a.mu.Unlock()
		return false
	}
	a.profile = &user
	a.mu.Unlock()
	a.notify()
	return true
}

// setHistoryIf replaces the cached history wholesale (full refetch). Reports
// whether the replacement was applied.
func (a *AccountState) setHistoryIf(gen uint64, txs []models.Transaction) bool {
	a.mu.Lock()
	if a.generation != gen || a.state != StateAuthenticated {
		a.mu.Unlock()
		return false
	}
	a.history = txs
	a.mu.Unlock()
	a.notify()
	return true
}

// applyTransactionIf applies the optimistic reconciliation rule after a
// confirmed money movement: adjust the cached balance by delta and prepend
// tx to the history. Dropped when the session moved on while the request was
// in flight. Reports whether the delta was applied.
func (a *AccountState) applyTransactionIf(gen uint64, delta float64, tx models.Transaction) bool {
	a.mu.Lock()
	if a.generation != gen || a.state != StateAuthenticated || a.profile == nil {
		a.mu.Unlock()
		return false
	}
	a.profile.Balance += delta
	a.history = append([]models.Transaction{tx}, a.history...)
	a.mu.Unlock()
	a.notify()
	return true
}
