// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of filesystem events an editor save
// produces into one reload.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the config file when it changes on disk, so `zentra
// config set` from a second terminal takes effect in a running session.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	onLoad  func(*Config)
	done    chan struct{}
	stopped chan struct{}
}

// Watch starts watching path and calls onLoad with each successfully
// reloaded config. Reload failures are logged and skipped; the previous
// config stays in effect.
func Watch(path string, onLoad func(*Config)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start config watcher: %w", err)
	}
	// Watch the directory, not the file: atomic saves replace the file,
	// which would silently drop a file-level watch.
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	w := &Watcher{
		path:    path,
		fs:      fs,
		onLoad:  onLoad,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	<-w.stopped
	return err
}

func (w *Watcher) run() {
	defer close(w.stopped)

	var debounce *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceWindow)
			} else {
				debounce.Reset(debounceWindow)
			}
			pending = debounce.C
		case <-pending:
			pending = nil
			cfg, err := Load(w.path)
			if err != nil {
				log.Printf("config: reload skipped: %v", err)
				continue
			}
			w.onLoad(cfg)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("config: watch error: %v", err)
		}
	}
}
