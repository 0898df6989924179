// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// zentra is a terminal client for Zentrafuge, the emotional companion
// platform. It talks to the Cael backend over HTTPS and presents either a
// full-screen chat or a set of plain commands.
package main

import (
	"os"

	"github.com/jeranaias/zentra-tui/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
