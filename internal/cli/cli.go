// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses the zentra command line and runs the non-TUI commands.
// With no subcommand, zentra opens the full-screen chat.
package cli

import (
	"flag"
	"fmt"
	"strings"
)

// Version is stamped at build time.
var Version = "dev"

// Command is a parsed subcommand.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdConfig
	CmdSessions
	CmdLogin
	CmdLogout
	CmdVersion
	CmdHelp
)

// Options is the parsed command line.
type Options struct {
	Command Command

	// Args are the subcommand's own arguments.
	Args []string

	ConfigPath string
	Endpoint   string
	Lang       string
	Verbose    bool
}

// Parse interprets args (without the program name).
func Parse(args []string) (*Options, error) {
	opts := &Options{Command: CmdTUI}

	fs := flag.NewFlagSet("zentra", flag.ContinueOnError)
	fs.Usage = func() {} // errors carry the message; Usage() prints help
	fs.StringVar(&opts.ConfigPath, "config", "", "path to config file")
	fs.StringVar(&opts.Endpoint, "endpoint", "", "override the backend endpoint")
	fs.StringVar(&opts.Lang, "lang", "", "interface language code")
	fs.BoolVar(&opts.Verbose, "verbose", false, "log requests and responses")
	version := fs.Bool("version", false, "print version and exit")
	help := fs.Bool("help", false, "print help and exit")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w\n\n%s", err, Usage())
	}
	if *version {
		opts.Command = CmdVersion
		return opts, nil
	}
	if *help {
		opts.Command = CmdHelp
		return opts, nil
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return opts, nil
	}

	switch rest[0] {
	case "ask":
		opts.Command = CmdAsk
		if len(rest) < 2 {
			return nil, fmt.Errorf("usage: zentra ask <message>")
		}
		opts.Args = []string{strings.Join(rest[1:], " ")}
	case "chat":
		opts.Command = CmdChat
	case "status":
		opts.Command = CmdStatus
	case "config":
		opts.Command = CmdConfig
		opts.Args = rest[1:]
	case "sessions":
		opts.Command = CmdSessions
		opts.Args = rest[1:]
	case "login":
		opts.Command = CmdLogin
		opts.Args = rest[1:]
	case "logout":
		opts.Command = CmdLogout
	case "version":
		opts.Command = CmdVersion
	case "help":
		opts.Command = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command %q\n\n%s", rest[0], Usage())
	}
	return opts, nil
}

// Usage returns the top-level help text.
func Usage() string {
	return strings.TrimSpace(`
zentra - terminal companion for Zentrafuge

Usage:
  zentra                     open the full-screen chat
  zentra ask <message>       send one message and print the reply
  zentra chat                line-based chat for plain terminals
  zentra status              backend health and session state
  zentra config <op>         get, set, list, or path
  zentra sessions <op>       list, show, search, delete, clear, or export
  zentra login <user-id>     store your user ID locally
  zentra logout              forget the stored user ID
  zentra version             print the version

Flags:
  --config <path>            config file (default ~/.zentra/config.toml)
  --endpoint <url>           override the backend endpoint
  --lang <code>              interface language for this run
  --verbose                  log requests and responses
`)
}
