// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/zentra-tui/internal/companion"
	"github.com/jeranaias/zentra-tui/internal/config"
	"github.com/jeranaias/zentra-tui/internal/detect"
	"github.com/jeranaias/zentra-tui/internal/model"
	"github.com/jeranaias/zentra-tui/internal/ratelimit"
	"github.com/jeranaias/zentra-tui/internal/storage"
	"github.com/jeranaias/zentra-tui/internal/validate"
)

// neutralResonance is reported with captured replies; the client has no way
// to score resonance locally, so the backend gets a midpoint.
const neutralResonance = 0.5

// runChat is the line-based chat for terminals where the full-screen
// interface is unwanted or unavailable.
func (a *app) runChat() error {
	renderer := newConsoleRenderer(os.Stdout, a.cfg.Companion.Name, a.cfg.UI.Markdown)
	client, err := a.newClient(renderer)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	lim := ratelimit.New(a.cfg.Limits.PerMinute, a.cfg.Limits.PerHour)
	conv := model.NewConversation()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := filepath.Join(config.Dir(), "history")
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("%s. Type %s when you're done.\n",
		a.localize("You're talking with "+a.cfg.Companion.Name, "chat greeting"), "/quit")

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if done := a.chatCommand(input, client, store, &conv); done {
				break
			}
			continue
		}

		text, err := validate.Message(input)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if err := lim.Allow(); err != nil {
			fmt.Println(err)
			continue
		}

		// What the user says next is the reply to the last response;
		// report it before the new delivery, best effort.
		if sig := conv.LastSignalID(); sig != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			client.CaptureReply(ctx, sig, text, neutralResonance)
			cancel()
		}

		conv.AddMessage(model.RoleUser, text)
		out := companion.OutboundMessage{
			Text:        text,
			Preferences: a.cfg.Companion.PreferenceMap(),
		}
		if mil := detect.Military(text); mil.Detected {
			out.Military = &mil
		}

		res, err := client.Deliver(context.Background(), out)
		if err != nil {
			fmt.Println(err)
			continue
		}
		reply := conv.AddMessage(model.RoleCompanion, res.Reply)
		reply.SignalID = res.SignalID
		reply.Strategy = res.Strategy
		reply.Confidence = res.Confidence
		reply.MemoryUsed = res.MemoryUsed
		reply.Attempts = res.Attempts

		conv.Prune(a.cfg.Limits.MaxHistory)
		store.Save(conv)

		if res.Outcome == companion.Redirect {
			time.Sleep(time.Duration(a.cfg.Delivery.RedirectGraceMS)*time.Millisecond + 100*time.Millisecond)
		}
	}

	if len(conv.Messages) > 0 {
		store.Save(conv)
	}
	fmt.Println(a.localize("Take care of yourself.", "chat farewell"))
	return nil
}

// chatCommand handles a /command line. Returns true when the loop should
// exit.
func (a *app) chatCommand(input string, client *companion.Client, store *storage.Store, conv **model.Conversation) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/new":
		if len((*conv).Messages) > 0 {
			store.Save(*conv)
		}
		*conv = model.NewConversation()
		fmt.Println("Started a new conversation.")

	case "/feedback":
		if len(fields) < 2 {
			fmt.Println("usage: /feedback <perfect|helpful|not_quite|unhelpful> [comment]")
			break
		}
		sig := (*conv).LastSignalID()
		if sig == "" {
			fmt.Println("Nothing to rate yet.")
			break
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.SendFeedback(ctx, sig, fields[1], strings.Join(fields[2:], " "))
		cancel()
		if err != nil {
			fmt.Println(err)
		} else {
			fmt.Println("Thanks, noted.")
		}

	case "/status":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		status, err := client.Health(ctx)
		cancel()
		if err != nil {
			fmt.Println("backend:", err)
		} else {
			fmt.Println("backend:", status)
		}

	case "/help":
		fmt.Println("commands: /quit, /new, /feedback <type> [comment], /status, /help")

	default:
		fmt.Printf("unknown command %s (try /help)\n", fields[0])
	}
	return false
}
