// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package translate localizes interface strings through the backend's
// translation endpoint. Results are cached twice: in memory for the running
// session, and in a SQLite database so restarts do not re-translate the
// same interface over and over. Concurrent requests for the same string are
// collapsed into one backend call.
package translate

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Languages the backend can translate into. English is the source language
// and passes through untouched.
var supported = map[string]bool{
	"en": true, "es": true, "fr": true, "de": true, "it": true,
	"pt": true, "ja": true, "zh": true, "ru": true, "nl": true,
}

// Supported reports whether lang is a known language code.
func Supported(lang string) bool {
	return supported[strings.ToLower(lang)]
}

// Languages returns the supported codes, for help output.
func Languages() []string {
	return []string{"en", "es", "fr", "de", "it", "pt", "ja", "zh", "ru", "nl"}
}

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	source     TEXT NOT NULL,
	lang       TEXT NOT NULL,
	context    TEXT NOT NULL DEFAULT '',
	translated TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (source, lang, context)
);`

type cacheKey struct {
	text string
	lang string
	ctx  string
}

// Translator translates interface strings, caching aggressively.
type Translator struct {
	endpoint string
	http     *http.Client
	db       *sql.DB

	mu       sync.Mutex
	cache    map[cacheKey]string
	inflight map[cacheKey]chan struct{}
}

// New opens (creating if needed) the cache database at dbPath and returns a
// translator against the given backend. Pass httpClient nil for a default.
func New(endpoint, dbPath string, httpClient *http.Client) (*Translator, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open translation cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init translation cache: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Translator{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     httpClient,
		db:       db,
		cache:    make(map[cacheKey]string),
		inflight: make(map[cacheKey]chan struct{}),
	}, nil
}

// Close releases the cache database.
func (t *Translator) Close() error {
	return t.db.Close()
}

// Translate returns text in lang. Lookup order is memory, then the SQLite
// cache, then the backend; misses are written back to both caches. The
// uiContext hint disambiguates short strings ("Close" the button vs "Close"
// the adjective) and is part of the cache key.
func (t *Translator) Translate(ctx context.Context, text, lang, uiContext string) (string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || lang == "en" {
		return text, nil
	}
	if !supported[lang] {
		return "", fmt.Errorf("unsupported language %q (supported: %s)",
			lang, strings.Join(Languages(), ", "))
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	key := cacheKey{text, lang, uiContext}
	for {
		t.mu.Lock()
		if got, ok := t.cache[key]; ok {
			t.mu.Unlock()
			return got, nil
		}
		if wait, ok := t.inflight[key]; ok {
			// Someone else is already fetching this string.
			t.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		done := make(chan struct{})
		t.inflight[key] = done
		t.mu.Unlock()

		got, err := t.fetch(ctx, key)

		t.mu.Lock()
		delete(t.inflight, key)
		close(done)
		if err == nil {
			t.cache[key] = got
		}
		t.mu.Unlock()
		return got, err
	}
}

// fetch resolves a cache miss: SQLite first, then the backend.
func (t *Translator) fetch(ctx context.Context, key cacheKey) (string, error) {
	var got string
	err := t.db.QueryRowContext(ctx,
		`SELECT translated FROM translations WHERE source = ? AND lang = ? AND context = ?`,
		key.text, key.lang, key.ctx).Scan(&got)
	if err == nil {
		return got, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("query translation cache: %w", err)
	}

	got, err = t.request(ctx, key)
	if err != nil {
		return "", err
	}
	// Best effort: a failed insert just means a re-translation later.
	t.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO translations (source, lang, context, translated) VALUES (?, ?, ?, ?)`,
		key.text, key.lang, key.ctx, got)
	return got, nil
}

// request asks the backend for one translation.
func (t *Translator) request(ctx context.Context, key cacheKey) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"text":            key.text,
		"target_language": key.lang,
		"context":         key.ctx,
	})
	if err != nil {
		return "", fmt.Errorf("encode translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.endpoint+"/api/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read translation: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation failed: HTTP %d", resp.StatusCode)
	}

	var out struct {
		Translated string `json:"translated_text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("malformed translation response: %w", err)
	}
	if out.Translated == "" {
		return "", fmt.Errorf("backend returned an empty translation")
	}
	return out.Translated, nil
}
