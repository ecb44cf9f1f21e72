// File: watch.go
// Title: Configuration File Watching
// Description: Reloads the configuration when its file changes. Watches
//              the parent directory so that editors which replace the file
//              on save are picked up as well.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Polling watcher
// - 2026-10-19 v0.2.0: fsnotify watcher with debounce

package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
)

// reloadDebounce collapses the burst of events a single save produces
const reloadDebounce = 100 * time.Millisecond

type watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
}

// Watch starts reloading the configuration on file changes. Reload errors
// are passed to onError when it is not nil; the previous values stay active.
func (c *Config) Watch(onError func(error)) error {
	if c.filePath == "" {
		return mdwerror.New("file path required for watching").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.Watch")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create file watcher").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Watch")
	}
	if err := fsw.Add(filepath.Dir(c.filePath)); err != nil {
		fsw.Close()
		return mdwerror.Wrap(err, "failed to watch config directory").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Watch").
			WithDetail("filePath", c.filePath)
	}

	c.watcher = &watcher{fs: fsw, done: make(chan struct{})}
	go c.watchLoop(c.watcher, onError)
	return nil
}

func (c *Config) watchLoop(w *watcher, onError func(error)) {
	target := filepath.Clean(c.filePath)
	var pending <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(reloadDebounce)
			}
		case <-pending:
			pending = nil
			if err := c.Reload(); err != nil && onError != nil {
				onError(err)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(mdwerror.Wrap(err, "config watcher error").
					WithCode(mdwerror.CodeConfigError).
					WithOperation("config.watchLoop"))
			}
		}
	}
}

// StopWatching stops a watcher started with Watch
func (c *Config) StopWatching() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		close(w.done)
		w.fs.Close()
	}
}

// IsWatching reports whether Watch is active
func (c *Config) IsWatching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watcher != nil
}
