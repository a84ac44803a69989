// Package watch reloads a sheet file whenever it changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Watcher invokes a callback whenever one file is written. Events are
// debounced: editors commonly emit several writes per save.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func() error
	log      *zap.Logger
}

// New creates a watcher for the given file. onChange runs on the watcher
// goroutine after each settled change; an error from it is logged, not fatal.
func New(path string, debounce time.Duration, onChange func() error) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
		log:      zap.L().Named("watch"),
	}
}

// Run watches until the context is canceled. The parent directory is watched
// rather than the file itself, because editors replace files on save, which
// would drop a direct watch.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()

			case ev, ok := <-fsw.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					fire = timer.C
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(w.debounce)
				}

			case <-fire:
				timer = nil
				fire = nil
				if err := w.onChange(); err != nil {
					w.log.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
				}
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err, ok := <-fsw.Errors:
				if !ok {
					return nil
				}
				w.log.Warn("watch error", zap.Error(err))
			}
		}
	})

	return g.Wait()
}
