// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/zentra-tui/internal/model"
	"github.com/jeranaias/zentra-tui/internal/storage"
	"github.com/jeranaias/zentra-tui/internal/util"
)

// runSessions handles the conversation-history subcommands.
func (a *app) runSessions(args []string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		return listSessions(store)

	case "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: zentra sessions show <id>")
		}
		return a.showSession(store, args[1])

	case "search":
		if len(args) < 2 {
			return fmt.Errorf("usage: zentra sessions search <query>")
		}
		summaries, err := store.Search(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		printSummaries(summaries)
		return nil

	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: zentra sessions delete <id>")
		}
		if err := store.Delete(args[1]); err != nil {
			return err
		}
		fmt.Println("Deleted " + args[1])
		return nil

	case "clear":
		if !confirm("Delete ALL conversation history?") {
			fmt.Println("Nothing deleted.")
			return nil
		}
		n, err := store.Clear()
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d conversations\n", n)
		return nil

	case "export":
		if len(args) != 3 {
			return fmt.Errorf("usage: zentra sessions export <id> <dest.md|dest.json>")
		}
		return exportSession(store, args[1], args[2])

	default:
		return fmt.Errorf("unknown sessions operation %q (want list, show, search, delete, clear, or export)", args[0])
	}
}

func listSessions(store *storage.Store) error {
	summaries, err := store.List()
	if err != nil {
		return err
	}
	printSummaries(summaries)
	return nil
}

func printSummaries(summaries []storage.Summary) {
	if len(summaries) == 0 {
		fmt.Println("No conversations.")
		return
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  %3d msgs  %s\n",
			s.ID[:8], s.UpdatedAt.Local().Format("2006-01-02 15:04"),
			s.Messages, util.TruncateRunes(s.Title, 48))
	}
}

func (a *app) showSession(store *storage.Store, id string) error {
	conv, err := loadByPrefix(store, id)
	if err != nil {
		return err
	}
	fmt.Println(conv.Title)
	fmt.Println(strings.Repeat("-", len(conv.Title)))
	for _, m := range conv.Messages {
		label := "you"
		switch m.Role {
		case model.RoleCompanion:
			label = a.cfg.Companion.Name
		case model.RoleSystem:
			label = "system"
		}
		fmt.Printf("[%s] %s: %s\n", m.Timestamp.Local().Format("15:04"), label, m.Content)
	}
	return nil
}

func exportSession(store *storage.Store, id, dest string) error {
	conv, err := loadByPrefix(store, id)
	if err != nil {
		return err
	}
	switch {
	case strings.HasSuffix(dest, ".json"):
		err = store.ExportJSON(conv.ID, dest)
	default:
		err = store.ExportMarkdown(conv.ID, dest)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to " + dest)
	return nil
}

// loadByPrefix resolves a full or abbreviated conversation ID.
func loadByPrefix(store *storage.Store, id string) (*model.Conversation, error) {
	if conv, err := store.Load(id); err == nil {
		return conv, nil
	}
	summaries, err := store.List()
	if err != nil {
		return nil, err
	}
	var match string
	for _, s := range summaries {
		if strings.HasPrefix(s.ID, id) {
			if match != "" {
				return nil, fmt.Errorf("ID %q is ambiguous", id)
			}
			match = s.ID
		}
	}
	if match == "" {
		return nil, fmt.Errorf("no conversation matching %q", id)
	}
	return store.Load(match)
}

func confirm(prompt string) bool {
	fmt.Print(prompt + " [y/N] ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
