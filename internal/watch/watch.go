// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     watch
// Description: Debounced change notification for a single file
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/pkg/core/logging"
)

// DefaultDebounce is used when File is given a non-positive delay
const DefaultDebounce = 200 * time.Millisecond

// File calls onChange after path was written, created or renamed into place,
// once per burst of events that are less than debounce apart. It blocks
// until ctx ends.
//
// The parent directory is watched rather than the file so editors that
// save by rename keep triggering.
func File(ctx context.Context, path string, debounce time.Duration, log *logging.Logger, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logging.New("watch")
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return mdwerror.Wrap(err, "failed to resolve path").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("watch.File").
			WithDetail("path", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").WithOperation("watch.File")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return mdwerror.Wrap(err, "failed to watch directory").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("watch.File").
			WithDetail("dir", filepath.Dir(target))
	}
	log.Info("watching for changes", "file", target, "debounce", debounce.String())

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("stopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, target) {
				continue
			}
			log.Debug("file event", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err.Error())
		}
	}
}

func relevant(event fsnotify.Event, target string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
