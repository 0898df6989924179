// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/zentra-tui/internal/companion"
	"github.com/jeranaias/zentra-tui/internal/detect"
	"github.com/jeranaias/zentra-tui/internal/validate"
)

// runAsk sends one message and prints the reply. Exit is non-zero when
// delivery fails outright, so scripts can tell.
func (a *app) runAsk(message string) error {
	text, err := validate.Message(message)
	if err != nil {
		return err
	}

	renderer := newConsoleRenderer(os.Stdout, a.cfg.Companion.Name, a.cfg.UI.Markdown)
	client, err := a.newClient(renderer)
	if err != nil {
		return err
	}

	out := companion.OutboundMessage{
		Text:        text,
		Preferences: a.cfg.Companion.PreferenceMap(),
	}
	if mil := detect.Military(text); mil.Detected {
		out.Military = &mil
	}

	res, err := client.Deliver(context.Background(), out)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case companion.Redirect:
		// Let the grace period elapse so the navigator actually fires
		// before the process exits.
		time.Sleep(time.Duration(a.cfg.Delivery.RedirectGraceMS)*time.Millisecond + 100*time.Millisecond)
	case companion.TerminalFailure:
		return fmt.Errorf("message could not be delivered after %d attempts", res.Attempts)
	}
	return nil
}
