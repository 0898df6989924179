// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/jeranaias/zentra-tui/internal/config"
)

// runConfig handles zentra config get/set/list/path.
func (a *app) runConfig(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: zentra config <get|set|list|path> [key] [value]")
	}

	switch args[0] {
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: zentra config get <key>")
		}
		value, err := a.cfg.Get(args[1])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: zentra config set <key> <value>")
		}
		if err := a.cfg.Set(args[1], args[2]); err != nil {
			return err
		}
		if err := a.cfg.Save(a.opts.ConfigPath); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[1], args[2])
		return nil

	case "list":
		for _, key := range config.Keys() {
			value, err := a.cfg.Get(key)
			if err != nil {
				continue
			}
			fmt.Printf("%-28s %s\n", key, value)
		}
		return nil

	case "path":
		fmt.Println(configPathOrDefault(a.opts.ConfigPath))
		return nil

	default:
		return fmt.Errorf("unknown config operation %q (want get, set, list, or path)", args[0])
	}
}
