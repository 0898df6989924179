// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/zentra-tui/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSaveLoad(t *testing.T) {
	s := newTestStore(t)

	conv := model.NewConversation()
	conv.AddMessage(model.RoleUser, "hello")
	reply := conv.AddMessage(model.RoleCompanion, "hi there")
	reply.SignalID = "sig-1"
	reply.Attempts = 2

	if err := s.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(conv.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Title != conv.Title || len(got.Messages) != 2 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.Messages[1].SignalID != "sig-1" || got.Messages[1].Attempts != 2 {
		t.Error("delivery metadata not persisted")
	}
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListOrder(t *testing.T) {
	s := newTestStore(t)

	old := model.NewConversation()
	old.AddMessage(model.RoleUser, "earlier chat")
	old.UpdatedAt = time.Now().Add(-time.Hour)
	recent := model.NewConversation()
	recent.AddMessage(model.RoleUser, "latest chat")

	for _, c := range []*model.Conversation{old, recent} {
		if err := s.Save(c); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	// A stray non-JSON file must not break listing.
	os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o600)

	summaries, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("listed %d conversations, want 2", len(summaries))
	}
	if summaries[0].ID != recent.ID {
		t.Error("list not newest-first")
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)

	c1 := model.NewConversation()
	c1.AddMessage(model.RoleUser, "thinking about my deployment")
	c2 := model.NewConversation()
	c2.AddMessage(model.RoleUser, "weekend plans")
	c2.AddMessage(model.RoleCompanion, "A quiet weekend sounds restorative.")
	for _, c := range []*model.Conversation{c1, c2} {
		if err := s.Save(c); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"DEPLOYMENT", 1},
		{"restorative", 1},
		{"weekend", 1},
		{"nothing here", 0},
		{"  ", 0},
	}
	for _, tt := range tests {
		got, err := s.Search(tt.query)
		if err != nil {
			t.Fatalf("Search(%q): %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q) = %d results, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestDeleteAndClear(t *testing.T) {
	s := newTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		c := model.NewConversation()
		c.AddMessage(model.RoleUser, "hi")
		if err := s.Save(c); err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, c.ID)
	}

	if err := s.Delete(ids[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ids[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}

	n, err := s.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d, want 2", n)
	}
	summaries, _ := s.List()
	if len(summaries) != 0 {
		t.Errorf("%d conversations remain after Clear", len(summaries))
	}
}

func TestExportMarkdown(t *testing.T) {
	s := newTestStore(t)

	conv := model.NewConversation()
	conv.AddMessage(model.RoleUser, "hello")
	conv.AddMessage(model.RoleCompanion, "hi, good to see you")
	if err := s.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "out.md")
	if err := s.ExportMarkdown(conv.ID, dest); err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	text := string(data)
	for _, want := range []string{"# hello", "**You:**", "**Cael:**", "good to see you"} {
		if !strings.Contains(text, want) {
			t.Errorf("export missing %q", want)
		}
	}
}
