// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package watch re-runs a build whenever NL sources below a set of paths
// change.
package watch

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"gopkg.nlang.org/compiler.go/internal/exc"
	nlfs "gopkg.nlang.org/compiler.go/internal/fs"
	"gopkg.nlang.org/compiler.go/internal/lang"
)

const defaultDebounce = 200 * time.Millisecond

// BuildFunc is called once at start and then after every batch of changes.
// Its error is logged and does not stop the watch.
type BuildFunc func(ctx context.Context) error

type Option func(w *watcher)

// OptionWithDebounce sets how long the watcher waits for further events
// before rebuilding.
func OptionWithDebounce(d time.Duration) Option {
	return func(w *watcher) {
		w.debounce = d
	}
}

func OptionWithLogger(logger *slog.Logger) Option {
	return func(w *watcher) {
		w.logger = logger
	}
}

type watcher struct {
	debounce time.Duration
	logger   *slog.Logger
	build    BuildFunc
}

// Run watches every directory below paths and rebuilds until ctx is done.
// File paths watch their parent directory.
func Run(ctx context.Context, paths []string, build BuildFunc, opts ...Option) error {
	w := newWatcher(build, opts...)
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return exc.WrapUnknown(exc.Location{}, err)
	}
	defer fw.Close()
	for _, p := range paths {
		if err := addTree(fw, p); err != nil {
			return err
		}
	}
	w.logger.Info("watching for changes", "paths", paths)
	return w.loop(ctx, fw.Events, fw.Errors)
}

func newWatcher(build BuildFunc, opts ...Option) *watcher {
	w := &watcher{
		debounce: defaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		build:    build,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return exc.Wrap(exc.Location{URI: p}, exc.CodeFileNotFound, err)
		}
		if !d.IsDir() {
			if p == root {
				return addPath(fw, filepath.Dir(p))
			}
			return nil
		}
		return addPath(fw, p)
	})
}

func addPath(fw *fsnotify.Watcher, p string) error {
	if err := fw.Add(p); err != nil {
		return exc.WrapUnknown(exc.Location{URI: p}, err)
	}
	return nil
}

// relevant reports whether an event may change the build output.
func relevant(ev fsnotify.Event) bool {
	if nlfs.KindOf(ev.Name) == lang.FileKindNone {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func (w *watcher) rebuild(ctx context.Context) {
	start := time.Now()
	if err := w.build(ctx); err != nil {
		w.logger.Error("build failed", "error", err)
		return
	}
	w.logger.Info("build succeeded", "duration", time.Since(start))
}

func (w *watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	w.rebuild(ctx)

	// fire is nil while no change is pending.
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			fire = time.After(w.debounce)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		case <-fire:
			fire = nil
			w.rebuild(ctx)
		}
	}
}
