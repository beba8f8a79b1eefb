package keys

import (
	"strings"
	"sync"
)

// AuthState tracks whether the active key has been proven to work.
type AuthState int

const (
	AuthMissing AuthState = iota
	// AuthPending means a key is selected but no call has succeeded with it yet.
	AuthPending
	AuthConfirmed
)

func (s AuthState) String() string {
	switch s {
	case AuthPending:
		return "pending"
	case AuthConfirmed:
		return "confirmed"
	default:
		return "missing"
	}
}

// Auth holds the active key and its state. It is safe for concurrent use and
// its Key method satisfies provider.KeySource.
type Auth struct {
	mu     sync.Mutex
	store  *Store
	state  AuthState
	key    string
	source string
}

// NewAuth resolves the initial key. A resolved key starts out pending.
func NewAuth(store *Store, explicit string, getenv func(string) string) *Auth {
	a := &Auth{store: store}
	if key, source, err := Resolve(explicit, getenv, store); err == nil {
		a.key = key
		a.source = source
		a.state = AuthPending
	}
	return a
}

// Key returns the active key. It reports false once the key was invalidated.
func (a *Auth) Key() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == AuthMissing || a.key == "" {
		return "", false
	}
	return a.key, true
}

func (a *Auth) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Source describes where the active key came from.
func (a *Auth) Source() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.source
}

// Set persists a new key and makes it active in the pending state.
func (a *Auth) Set(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	if a.store != nil {
		if err := a.store.Save(key); err != nil {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.key = key
	a.source = "entered key"
	a.state = AuthPending
	return nil
}

// Confirm records a successful call. Only a pending key can be confirmed.
func (a *Auth) Confirm() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == AuthPending {
		a.state = AuthConfirmed
	}
}

// Invalidate drops the active key and clears the stored one.
func (a *Auth) Invalidate() error {
	a.mu.Lock()
	a.key = ""
	a.source = ""
	a.state = AuthMissing
	a.mu.Unlock()

	if a.store == nil {
		return nil
	}
	return a.store.Clear()
}
