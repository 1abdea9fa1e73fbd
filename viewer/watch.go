// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package viewer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Debounce is the time waited after the last change of a file
// before a FileChanged message is sent.
const Debounce = 200 * time.Millisecond

// Watch sends a FileChanged message
// each time a file is written or replaced.
// Bursts of changes are reported as a single message.
//
// It blocks until the context is done.
func Watch(ctx context.Context, name string, out chan<- Msg, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	name, err := filepath.Abs(name)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %q: %v", name, err)
	}
	defer w.Close()

	// editors replace files when saving,
	// so the directory is watched
	if err := w.Add(filepath.Dir(name)); err != nil {
		return fmt.Errorf("watch %q: %v", name, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(Debounce)
			} else {
				timer.Reset(Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			log.Debug("file changed", zap.String("file", name))
			select {
			case out <- FileChanged{Path: name}:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher", zap.String("file", name), zap.Error(err))
		}
	}
}
