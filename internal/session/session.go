// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks who is signed in and whether a delivery is
// currently in flight. Authentication itself happens elsewhere (the backend
// owns accounts); this package only holds the resolved identity and hands it
// to anything that needs the current user.
package session

import (
	"errors"
	"sync"
	"time"
)

// AuthState is where the session is in its lifecycle.
type AuthState int

const (
	// StatePending means identity resolution has not finished yet.
	// Deliveries started now fail rather than wait.
	StatePending AuthState = iota

	// StateAuthenticated means a user is signed in.
	StateAuthenticated

	// StateUnauthenticated means resolution finished with nobody signed
	// in, or the session was signed out.
	StateUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "pending"
	}
}

var (
	// ErrPending is returned while identity resolution is still running.
	ErrPending = errors.New("session: identity not resolved yet")

	// ErrSignedOut is returned when no user is signed in.
	ErrSignedOut = errors.New("session: not signed in")

	// ErrDeliveryInFlight is returned when a second delivery is started
	// before the first finishes.
	ErrDeliveryInFlight = errors.New("session: a message is already being delivered")
)

// defaultIdleTimeout signs the session out after this much inactivity.
const defaultIdleTimeout = 30 * time.Minute

// Context is the live session. Safe for concurrent use.
type Context struct {
	mu          sync.Mutex
	state       AuthState
	userID      string
	lastActive  time.Time
	idleTimeout time.Duration
	inFlight    bool

	// now is swapped in tests to drive the idle timeout.
	now func() time.Time
}

// New returns a session in the pending state.
func New() *Context {
	return &Context{
		state:       StatePending,
		idleTimeout: defaultIdleTimeout,
		now:         time.Now,
	}
}

// Resolve finishes identity resolution. An empty userID resolves to the
// unauthenticated state.
func (c *Context) Resolve(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if userID == "" {
		c.state = StateUnauthenticated
		c.userID = ""
		return
	}
	c.state = StateAuthenticated
	c.userID = userID
	c.lastActive = c.now()
}

// SignOut drops the identity. In-flight state is left alone; the running
// delivery finishes with the identity it already captured.
func (c *Context) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateUnauthenticated
	c.userID = ""
}

// State returns the current auth state, expiring an idle session first.
func (c *Context) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()
	return c.state
}

// CurrentUserID returns the signed-in user, or an error describing why
// there is none. Satisfies the delivery client's identity dependency.
func (c *Context) CurrentUserID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()
	switch c.state {
	case StateAuthenticated:
		return c.userID, nil
	case StatePending:
		return "", ErrPending
	default:
		return "", ErrSignedOut
	}
}

// Touch records user activity, pushing back the idle timeout.
func (c *Context) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAuthenticated {
		c.lastActive = c.now()
	}
}

// expireLocked signs out an authenticated session that has sat idle past
// the timeout. Caller holds mu.
func (c *Context) expireLocked() {
	if c.state != StateAuthenticated || c.idleTimeout <= 0 {
		return
	}
	if c.now().Sub(c.lastActive) > c.idleTimeout {
		c.state = StateUnauthenticated
		c.userID = ""
	}
}

// BeginDelivery marks a delivery as in flight. At most one delivery runs at
// a time; the UI disables the send path until EndDelivery.
func (c *Context) BeginDelivery() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return ErrDeliveryInFlight
	}
	c.inFlight = true
	if c.state == StateAuthenticated {
		c.lastActive = c.now()
	}
	return nil
}

// EndDelivery clears the in-flight flag.
func (c *Context) EndDelivery() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
}

// Delivering reports whether a delivery is in flight.
func (c *Context) Delivering() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}
