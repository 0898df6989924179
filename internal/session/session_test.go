// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"
	"time"
)

func TestLifecycle(t *testing.T) {
	s := New()

	if s.State() != StatePending {
		t.Fatalf("new session state = %v, want pending", s.State())
	}
	if _, err := s.CurrentUserID(); !errors.Is(err, ErrPending) {
		t.Errorf("pending err = %v, want ErrPending", err)
	}

	s.Resolve("user-abc123456789")
	if s.State() != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", s.State())
	}
	id, err := s.CurrentUserID()
	if err != nil || id != "user-abc123456789" {
		t.Errorf("CurrentUserID = %q, %v", id, err)
	}

	s.SignOut()
	if _, err := s.CurrentUserID(); !errors.Is(err, ErrSignedOut) {
		t.Errorf("signed-out err = %v, want ErrSignedOut", err)
	}
}

func TestResolveEmpty(t *testing.T) {
	s := New()
	s.Resolve("")
	if s.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", s.State())
	}
}

func TestIdleTimeout(t *testing.T) {
	s := New()
	clock := time.Now()
	s.now = func() time.Time { return clock }
	s.Resolve("user-abc123456789")

	// Activity inside the window keeps the session alive.
	clock = clock.Add(20 * time.Minute)
	s.Touch()
	clock = clock.Add(20 * time.Minute)
	if s.State() != StateAuthenticated {
		t.Fatal("session expired despite activity")
	}

	// Silence past the window signs out.
	clock = clock.Add(31 * time.Minute)
	if s.State() != StateUnauthenticated {
		t.Error("idle session not expired")
	}
	if _, err := s.CurrentUserID(); !errors.Is(err, ErrSignedOut) {
		t.Errorf("err = %v, want ErrSignedOut", err)
	}
}

func TestDeliveryFlag(t *testing.T) {
	s := New()
	s.Resolve("user-abc123456789")

	if err := s.BeginDelivery(); err != nil {
		t.Fatalf("BeginDelivery: %v", err)
	}
	if !s.Delivering() {
		t.Error("Delivering = false during a delivery")
	}
	if err := s.BeginDelivery(); !errors.Is(err, ErrDeliveryInFlight) {
		t.Errorf("second BeginDelivery err = %v, want ErrDeliveryInFlight", err)
	}
	s.EndDelivery()
	if s.Delivering() {
		t.Error("Delivering = true after EndDelivery")
	}
	if err := s.BeginDelivery(); err != nil {
		t.Errorf("BeginDelivery after EndDelivery: %v", err)
	}
}
