// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/zentra-tui/internal/config"
)

// runStatus prints backend health and local session state.
func (a *app) runStatus() error {
	fmt.Println("endpoint:    " + a.cfg.Backend.Endpoint)

	renderer := newConsoleRenderer(os.Stdout, a.cfg.Companion.Name, false)
	client, err := a.newClient(renderer)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if status, err := client.Health(ctx); err != nil {
		fmt.Println("backend:     unreachable (" + err.Error() + ")")
	} else {
		fmt.Println("backend:     " + status)
	}

	fmt.Println("session:     " + a.sess.State().String())
	if id, err := a.sess.CurrentUserID(); err == nil {
		fmt.Println("user:        " + id)
	}
	fmt.Println("language:    " + a.cfg.Language.Code)
	fmt.Println("companion:   " + a.cfg.Companion.Name)

	store, err := a.openStore()
	if err != nil {
		return err
	}
	summaries, err := store.List()
	if err != nil {
		return err
	}
	fmt.Printf("history:     %d conversations in %s\n", len(summaries), store.Dir())
	fmt.Println("config:      " + configPathOrDefault(a.opts.ConfigPath))
	return nil
}

func configPathOrDefault(path string) string {
	if path != "" {
		return path
	}
	return config.DefaultPath()
}
