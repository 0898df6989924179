// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/zentra-tui/internal/detect"
)

// ============================================================================
// Constants
// ============================================================================

const (
	// defaultMaxAttempts is the delivery attempt budget per message.
	defaultMaxAttempts = 3

	// defaultBackoffStep is the linear backoff unit: the wait before
	// retry n is n times this value.
	defaultBackoffStep = 1000 * time.Millisecond

	// defaultRedirectGrace is how long a crisis redirect stays on screen
	// before navigation, so the user can read where they are being sent.
	defaultRedirectGrace = 2000 * time.Millisecond

	// defaultTimeout bounds a single chat attempt end to end.
	defaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a reply body is read.
	// RELIABILITY: a misbehaving backend cannot exhaust memory.
	maxResponseBytes = 1 << 20
)

// terminalApology is rendered when every delivery attempt has failed. The
// wording matches the backend's own fallback so the two paths read the same.
const terminalApology = "I'm having trouble processing your message right now. Please try again in a moment."

// placeholders are shown between failed attempts, rotated so repeated
// retries do not read like a stuck client.
var placeholders = [3]string{
	"Cael is taking a moment. Hang tight...",
	"Still here with you. Give Cael another moment...",
	"Almost there. Thank you for your patience...",
}

// ============================================================================
// Collaborators
// ============================================================================

// Renderer receives messages as the delivery state machine produces them.
// Implementations append to the visible conversation; placeholders and the
// terminal apology arrive as companion messages like any reply.
type Renderer interface {
	RenderMessage(sender Sender, text string)
	SetTyping(active bool)
}

// Identity resolves the current user. An error means nobody is signed in.
type Identity interface {
	CurrentUserID() (string, error)
}

// Navigator takes the user to an external resource after a redirect grace
// period has elapsed.
type Navigator interface {
	Navigate(url string)
}

// ============================================================================
// Shared HTTP client
// ============================================================================

var (
	sharedClient     *http.Client
	sharedClientOnce sync.Once
)

// httpClient returns a pooled client shared by every companion client, so
// repeated deliveries reuse connections instead of redialing per message.
func httpClient() *http.Client {
	sharedClientOnce.Do(func() {
		sharedClient = &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	})
	return sharedClient
}

// ============================================================================
// Client
// ============================================================================

// Config assembles a Client. Endpoint, Renderer and Identity are required;
// everything else has a working default.
type Config struct {
	// Endpoint is the backend base URL, e.g. "https://api.zentrafuge.com".
	Endpoint string

	// HTTPClient overrides the shared pooled client. Tests use this.
	HTTPClient *http.Client

	MaxAttempts   int
	BackoffStep   time.Duration
	RedirectGrace time.Duration

	// Augment controls continuation-prompt augmentation of replies.
	Augment AugmentPolicy

	Renderer  Renderer
	Identity  Identity
	Navigator Navigator

	// Verbose enables request/response logging.
	Verbose bool
}

// Client delivers user messages to the companion backend and renders the
// outcome. One Client serves one backend; it is safe for sequential use from
// a single conversation loop.
type Client struct {
	endpoint      string
	http          *http.Client
	maxAttempts   int
	backoffStep   time.Duration
	redirectGrace time.Duration
	augment       AugmentPolicy

	renderer  Renderer
	identity  Identity
	navigator Navigator
	verbose   bool

	// sleep and schedule are swapped out in tests so backoff and the
	// redirect grace run without real delays.
	sleep    func(ctx context.Context, d time.Duration) error
	schedule func(d time.Duration, fn func())
}

// New builds a Client from cfg, filling in defaults for anything unset.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("companion: endpoint is required")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("companion: renderer is required")
	}
	if cfg.Identity == nil {
		return nil, errors.New("companion: identity is required")
	}

	c := &Client{
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		http:          cfg.HTTPClient,
		maxAttempts:   cfg.MaxAttempts,
		backoffStep:   cfg.BackoffStep,
		redirectGrace: cfg.RedirectGrace,
		augment:       cfg.Augment,
		renderer:      cfg.Renderer,
		identity:      cfg.Identity,
		navigator:     cfg.Navigator,
		verbose:       cfg.Verbose,
		sleep:         ctxSleep,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	if c.http == nil {
		c.http = httpClient()
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}
	if c.backoffStep <= 0 {
		c.backoffStep = defaultBackoffStep
	}
	if c.redirectGrace <= 0 {
		c.redirectGrace = defaultRedirectGrace
	}
	return c, nil
}

// ctxSleep waits for d or until ctx is done, whichever comes first.
func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ============================================================================
// Delivery
// ============================================================================

// Deliver sends msg to the chat endpoint and drives it to a terminal
// outcome. Transient failures (timeouts, non-2xx statuses, malformed or
// empty bodies) are retried with linear backoff, with a rotating placeholder
// rendered before each retry. When the attempt budget is exhausted the fixed
// apology is rendered and a TerminalFailure result is returned with a nil
// error; errors are reserved for preconditions and context cancellation.
func (c *Client) Deliver(ctx context.Context, msg OutboundMessage) (*DeliveryResult, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	userID := msg.UserID
	if userID == "" {
		id, err := c.identity.CurrentUserID()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
		}
		userID = id
	}
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	req := chatRequest{
		Message:         text,
		UserID:          userID,
		AIPreferences:   msg.Preferences,
		MilitaryContext: msg.Military,
	}

	c.renderer.SetTyping(true)
	defer c.renderer.SetTyping(false)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.postChat(ctx, req)
		if err == nil {
			return c.resolve(resp, msg.Military, attempt), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		c.logf("delivery attempt %d/%d failed: %v", attempt, c.maxAttempts, err)

		if attempt < c.maxAttempts {
			c.renderer.RenderMessage(SenderCompanion, placeholders[(attempt-1)%len(placeholders)])
			if err := c.sleep(ctx, time.Duration(attempt)*c.backoffStep); err != nil {
				return nil, err
			}
		}
	}

	c.logf("delivery exhausted after %d attempts: %v", c.maxAttempts, lastErr)
	c.renderer.RenderMessage(SenderCompanion, terminalApology)
	return &DeliveryResult{
		Outcome:  TerminalFailure,
		Reply:    terminalApology,
		Attempts: c.maxAttempts,
	}, nil
}

// resolve turns a decoded 2xx response into a terminal result. A redirect
// wins over any reply text in the same payload.
func (c *Client) resolve(resp *chatResponse, mil *detect.Context, attempt int) *DeliveryResult {
	if resp.RedirectURL != "" {
		notice := resp.Response
		if notice == "" {
			notice = "It sounds like you need support right now. Taking you somewhere that can help."
		}
		c.renderer.RenderMessage(SenderCompanion, notice)
		if c.navigator != nil {
			url := resp.RedirectURL
			c.schedule(c.redirectGrace, func() { c.navigator.Navigate(url) })
		}
		return &DeliveryResult{
			Outcome:     Redirect,
			Reply:       notice,
			RedirectURL: resp.RedirectURL,
			Attempts:    attempt,
		}
	}

	reply := c.augment.Apply(resp.Response, mil)
	c.renderer.RenderMessage(SenderCompanion, reply)
	return &DeliveryResult{
		Outcome:    Success,
		Reply:      reply,
		Attempts:   attempt,
		AIName:     resp.AIName,
		Strategy:   resp.Strategy,
		Confidence: resp.Confidence,
		MemoryUsed: resp.MemoryUsed,
		SignalID:   resp.SignalID,
	}
}

// ============================================================================
// Transport
// ============================================================================

// postChat performs one attempt against the chat endpoint. Any network
// error, non-2xx status, undecodable body, or body with neither a reply nor
// a redirect comes back as an error; the caller decides whether to retry.
func (c *Client) postChat(ctx context.Context, req chatRequest) (*chatResponse, error) {
	body, err := c.postJSON(ctx, "/api/chat", req)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	if resp.Response == "" && resp.RedirectURL == "" {
		return nil, errEmptyResponse
	}
	return &resp, nil
}

// postJSON sends payload to path and returns the raw 2xx body.
func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logf("POST %s (%d bytes)", path, len(data))
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logf("%s -> %d (%d bytes)", path, httpResp.StatusCode, len(body))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &APIError{Status: httpResp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage pulls a human-readable error out of a failure body, falling
// back to a trimmed snippet of the raw payload.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return snippet
}

func (c *Client) logf(format string, args ...any) {
	if c.verbose {
		log.Printf("companion: "+format, args...)
	}
}
