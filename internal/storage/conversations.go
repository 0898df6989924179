// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations as JSON files under the zentra
// data directory. One file per conversation, named by its ID; writes are
// atomic so an interrupted save never corrupts history.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/zentra-tui/internal/model"
	"github.com/jeranaias/zentra-tui/internal/util"
)

// ErrNotFound is returned when a conversation ID has no file.
var ErrNotFound = errors.New("conversation not found")

// Store reads and writes conversations under a single directory.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) a store at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create conversations dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes conv to disk, replacing any previous version.
func (s *Store) Save(conv *model.Conversation) error {
	if conv.ID == "" {
		return errors.New("conversation has no ID")
	}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	return util.AtomicWriteFile(s.path(conv.ID), data, 0o600)
}

// Load reads the conversation with the given ID.
func (s *Store) Load(id string) (*model.Conversation, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read conversation: %w", err)
	}
	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", id, err)
	}
	return &conv, nil
}

// Summary is a conversation listing entry, cheap enough to build for every
// stored file.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  int       `json:"messages"`
}

// List returns summaries of every stored conversation, newest first.
// Unreadable files are skipped rather than failing the whole listing.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		conv, err := s.Load(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		out = append(out, Summary{
			ID:        conv.ID,
			Title:     conv.Title,
			UpdatedAt: conv.UpdatedAt,
			Messages:  len(conv.Messages),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Search returns summaries of conversations whose title or message content
// contains query, case-insensitively. An empty query matches nothing.
func (s *Store) Search(query string) ([]Summary, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	summaries, err := s.List()
	if err != nil {
		return nil, err
	}

	var out []Summary
	for _, sum := range summaries {
		if strings.Contains(strings.ToLower(sum.Title), query) {
			out = append(out, sum)
			continue
		}
		conv, err := s.Load(sum.ID)
		if err != nil {
			continue
		}
		for _, m := range conv.Messages {
			if strings.Contains(strings.ToLower(m.Content), query) {
				out = append(out, sum)
				break
			}
		}
	}
	return out, nil
}

// Delete removes one conversation.
func (s *Store) Delete(id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

// Clear removes every stored conversation and returns how many went.
func (s *Store) Clear() (int, error) {
	summaries, err := s.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, sum := range summaries {
		if err := s.Delete(sum.ID); err == nil {
			removed++
		}
	}
	return removed, nil
}
