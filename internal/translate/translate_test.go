// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestTranslator(t *testing.T, dbPath string, calls *atomic.Int32) *Translator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Text string `json:"text"`
			Lang string `json:"target_language"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{
			"translated_text": fmt.Sprintf("[%s] %s", req.Lang, req.Text),
		})
	}))
	t.Cleanup(srv.Close)

	tr, err := New(srv.URL, dbPath, srv.Client())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestEnglishPassthrough(t *testing.T) {
	var calls atomic.Int32
	tr := newTestTranslator(t, filepath.Join(t.TempDir(), "cache.db"), &calls)

	for _, lang := range []string{"", "en", "EN"} {
		got, err := tr.Translate(context.Background(), "Send", lang, "button")
		if err != nil {
			t.Fatalf("Translate(%q): %v", lang, err)
		}
		if got != "Send" {
			t.Errorf("Translate(%q) = %q, want passthrough", lang, got)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("backend called %d times for English", calls.Load())
	}
}

func TestUnsupportedLanguage(t *testing.T) {
	var calls atomic.Int32
	tr := newTestTranslator(t, filepath.Join(t.TempDir(), "cache.db"), &calls)

	if _, err := tr.Translate(context.Background(), "Send", "xx", ""); err == nil {
		t.Error("unsupported language accepted")
	}
}

func TestMemoryCache(t *testing.T) {
	var calls atomic.Int32
	tr := newTestTranslator(t, filepath.Join(t.TempDir(), "cache.db"), &calls)

	for i := 0; i < 3; i++ {
		got, err := tr.Translate(context.Background(), "Send", "es", "button")
		if err != nil {
			t.Fatalf("Translate: %v", err)
		}
		if got != "[es] Send" {
			t.Errorf("Translate = %q", got)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("backend called %d times, want 1", calls.Load())
	}

	// A different context is a different cache entry.
	tr.Translate(context.Background(), "Send", "es", "verb")
	if calls.Load() != 2 {
		t.Errorf("backend called %d times, want 2", calls.Load())
	}
}

func TestPersistentCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	var calls atomic.Int32

	tr1 := newTestTranslator(t, dbPath, &calls)
	if _, err := tr1.Translate(context.Background(), "Settings", "fr", ""); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	tr1.Close()

	// A fresh translator over the same database hits SQLite, not the
	// backend.
	tr2 := newTestTranslator(t, dbPath, &calls)
	got, err := tr2.Translate(context.Background(), "Settings", "fr", "")
	if err != nil {
		t.Fatalf("Translate after restart: %v", err)
	}
	if got != "[fr] Settings" {
		t.Errorf("Translate = %q", got)
	}
	if calls.Load() != 1 {
		t.Errorf("backend called %d times across restarts, want 1", calls.Load())
	}
}

func TestSingleFlight(t *testing.T) {
	var calls atomic.Int32
	tr := newTestTranslator(t, filepath.Join(t.TempDir(), "cache.db"), &calls)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := tr.Translate(context.Background(), "Welcome back", "de", "")
			if err != nil {
				t.Errorf("Translate: %v", err)
				return
			}
			if got != "[de] Welcome back" {
				t.Errorf("Translate = %q", got)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("backend called %d times for one string, want 1", calls.Load())
	}
}

func TestSupported(t *testing.T) {
	if !Supported("ja") || !Supported("EN") {
		t.Error("known languages reported unsupported")
	}
	if Supported("klingon") {
		t.Error("unknown language reported supported")
	}
	if len(Languages()) != len(supported) {
		t.Error("Languages() out of sync with the supported set")
	}
}
