package inlinebuild

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// pathResolver is implemented by loaders that read from disk.
type pathResolver interface {
	Path(p string) (string, error)
}

// Watch builds once, then rebuilds every time an input changes until ctx is
// canceled. Each build result is passed to onBuild; build errors do not stop
// the watch. Events are debounced so an editor's write-rename sequence
// triggers a single rebuild.
//
// Parent directories are watched rather than the files themselves so that
// inputs replaced by rename (npm installs, atomic saves) keep being tracked.
func (b *Builder) Watch(ctx context.Context, in Input, onBuild func(*Result, error)) error {
	resolver, ok := b.loader.(pathResolver)
	if !ok {
		return ErrWatchUnsupported
	}

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range b.Inputs() {
		abs, err := resolver.Path(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %q: %w", dir, err)
		}
	}
	b.logger.Info("watching inputs", zap.Int("files", len(watched)), zap.Int("dirs", len(dirs)))

	onBuild(b.Build(ctx, in))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			b.logger.Debug("input changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(b.debounce)
			} else {
				timer.Reset(b.debounce)
			}
			pending = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.logger.Warn("watch error", zap.Error(err))

		case <-pending:
			pending = nil
			onBuild(b.Build(ctx, in))
		}
	}
}
