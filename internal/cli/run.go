// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/zentra-tui/internal/companion"
	"github.com/jeranaias/zentra-tui/internal/config"
	"github.com/jeranaias/zentra-tui/internal/session"
	"github.com/jeranaias/zentra-tui/internal/storage"
	"github.com/jeranaias/zentra-tui/internal/translate"
)

// Run parses args, executes the selected command, and returns the process
// exit code.
func Run(args []string) int {
	opts, err := Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	switch opts.Command {
	case CmdVersion:
		fmt.Println("zentra " + Version)
		return 0
	case CmdHelp:
		fmt.Println(Usage())
		return 0
	}

	a, err := newApp(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer a.close()

	if err := a.dispatch(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// app holds everything a command might need, built once per invocation.
type app struct {
	opts *Options
	cfg  *config.Config
	sess *session.Context
	tr   *translate.Translator
}

func newApp(opts *Options) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Endpoint != "" {
		cfg.Backend.Endpoint = opts.Endpoint
	}
	if opts.Lang != "" {
		cfg.Language.Code = opts.Lang
	}
	if opts.Verbose {
		cfg.Backend.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sess := session.New()
	sess.Resolve(loadIdentity())

	return &app{opts: opts, cfg: cfg, sess: sess}, nil
}

func (a *app) close() {
	if a.tr != nil {
		a.tr.Close()
	}
}

func (a *app) dispatch(opts *Options) error {
	switch opts.Command {
	case CmdTUI:
		return a.runTUI()
	case CmdAsk:
		return a.runAsk(opts.Args[0])
	case CmdChat:
		return a.runChat()
	case CmdStatus:
		return a.runStatus()
	case CmdConfig:
		return a.runConfig(opts.Args)
	case CmdSessions:
		return a.runSessions(opts.Args)
	case CmdLogin:
		if len(opts.Args) != 1 {
			return fmt.Errorf("usage: zentra login <user-id>")
		}
		if err := saveIdentity(opts.Args[0]); err != nil {
			return err
		}
		fmt.Println("Signed in as " + opts.Args[0])
		return nil
	case CmdLogout:
		if err := clearIdentity(); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	default:
		return fmt.Errorf("unknown command")
	}
}

// newClient builds a delivery client wired to the given renderer.
func (a *app) newClient(r companion.Renderer) (*companion.Client, error) {
	pol, err := companion.ParseAugmentPolicy(a.cfg.Companion.Augment)
	if err != nil {
		return nil, err
	}
	return companion.New(companion.Config{
		Endpoint:      a.cfg.Backend.Endpoint,
		MaxAttempts:   a.cfg.Delivery.MaxAttempts,
		BackoffStep:   time.Duration(a.cfg.Delivery.BackoffMS) * time.Millisecond,
		RedirectGrace: time.Duration(a.cfg.Delivery.RedirectGraceMS) * time.Millisecond,
		Augment:       pol,
		Renderer:      r,
		Identity:      a.sess,
		Navigator:     browserNavigator{out: os.Stdout},
		Verbose:       a.cfg.Backend.Verbose,
	})
}

// openStore opens the conversation store.
func (a *app) openStore() (*storage.Store, error) {
	return storage.NewStore(config.ConversationsDir())
}

// localize translates an interface string into the configured language.
// Failures fall back to English; the interface must never go blank because
// the translation backend is down.
func (a *app) localize(text, uiContext string) string {
	if a.cfg.Language.Code == "en" {
		return text
	}
	if a.tr == nil {
		tr, err := translate.New(a.cfg.Backend.Endpoint, config.TranslationsDB(), nil)
		if err != nil {
			return text
		}
		a.tr = tr
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := a.tr.Translate(ctx, text, a.cfg.Language.Code, uiContext)
	if err != nil {
		return text
	}
	return got
}
