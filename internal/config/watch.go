package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadQuiet coalesces the burst of events an editor emits during an atomic
// save into a single reload.
const reloadQuiet = 200 * time.Millisecond

// Watch monitors path and calls onChange with the freshly loaded Config each
// time the file changes on disk. It runs until ctx is cancelled.
//
// A reload that fails to parse or validate is logged and dropped — the
// previous config stays active and onChange is not called.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	var quiet *time.Timer
	var quietC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Writes and creates both count: editors usually save via rename,
			// which surfaces as Create on the watched path.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if quiet == nil {
				quiet = time.NewTimer(reloadQuiet)
				quietC = quiet.C
			} else {
				quiet.Reset(reloadQuiet)
			}

		case <-quietC:
			quiet = nil
			quietC = nil

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed — keeping previous config",
					"path", path, "err", err)
				continue
			}
			slog.Info("config: reloaded", "path", path)
			onChange(cfg)

			// Atomic saves replace the inode; re-add so we keep watching.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
