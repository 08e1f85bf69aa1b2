package templates

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for before reporting a
// burst of changes.
const DefaultDebounce = 500 * time.Millisecond

// Watch calls fn after template files in the directory are created, written,
// removed or renamed. Bursts of events within debounce are reported once.
// It creates the directory if needed and blocks until ctx is done.
func (r *Registry) Watch(ctx context.Context, debounce time.Duration, fn func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := r.EnsureStorage(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(r.dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isTemplateEvent(event) {
				continue
			}
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true

		case <-timer.C:
			if pending {
				pending = false
				fn()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("template watcher error", "dir", r.dir, "err", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func isTemplateEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), Ext)
}
