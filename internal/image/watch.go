package image

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// DefaultSettleDelay is how long a new frame file must stay unchanged before
// it is decoded.
const DefaultSettleDelay = 200 * time.Millisecond

// WatchOptions configures WatchDirectory.
type WatchOptions struct {
	// MaxWidth downscales wider frames. Zero keeps the full size.
	MaxWidth int

	// SettleDelay overrides DefaultSettleDelay when positive.
	SettleDelay time.Duration

	Logger hclog.Logger
}

// WatchDirectory waits for image files to appear in dir and passes each one to
// fn as a frame, in name order per batch. Files that fail to decode are logged
// and skipped, since a camera may still be writing them. It runs until ctx is
// cancelled or fn returns an error.
func WatchDirectory(ctx context.Context, dir string, opts WatchOptions, fn func(Frame) error) error {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	settle := opts.SettleDelay
	if settle <= 0 {
		settle = DefaultSettleDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	logger.Debug("watching for frames", "dir", dir)

	loader := NewFileLoader()
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isImageFile(event.Name) {
				continue
			}
			pending[filepath.Clean(event.Name)] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case now := <-ticker.C:
			var ready []string
			for path, seen := range pending {
				if now.Sub(seen) >= settle {
					ready = append(ready, path)
				}
			}
			slices.Sort(ready)

			for _, path := range ready {
				delete(pending, path)
				frame, err := LoadFrame(loader, path, opts.MaxWidth)
				if err != nil {
					logger.Warn("skipping unreadable frame", "path", path, "error", err)
					continue
				}
				if err := fn(frame); err != nil {
					return err
				}
			}
		}
	}
}
