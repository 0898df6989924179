// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package companion implements the client for the Zentrafuge companion
// backend ("Cael").
//
// The center of the package is the message delivery state machine: Deliver
// drives a bounded sequence of attempts against the chat endpoint, retries
// transient failures with linear backoff, and resolves to exactly one of
// three terminal outcomes - a normal reply, a crisis redirect, or an
// exhausted-retries failure. Presentation is delegated to an injected
// Renderer so the state machine can be exercised without a UI.
//
// The package also carries the thinner backend operations the product uses
// around chat: response feedback, reply-signal capture, and health checks.
package companion
