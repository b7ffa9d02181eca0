package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/complexpr/log"
)

// watchDelay collapses the bursts of events an editor produces when saving.
const watchDelay = 100 * time.Millisecond

// watchSources calls onChange with the path of each source file written or
// recreated, until ctx is done or the returned stop function is called.
//
// The parent directories are watched rather than the files, so that files
// replaced by rename are still seen.
func watchSources(
	ctx context.Context,
	paths []string,
	logger log.Logger,
	onChange func(path string),
) (stop func() error, err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}

	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})

	for _, p := range paths {
		p = filepath.Clean(p)
		files[p] = struct{}{}
		dirs[filepath.Dir(p)] = struct{}{}
	}

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()

			return nil, fmt.Errorf("%w: %s: %w", ErrWatch, dir, err)
		}
	}

	logger.DebugContext(ctx, "watching sources",
		slog.Int("files", len(files)),
		slog.Int("dirs", len(dirs)))

	go func() {
		pending := make(map[string]*time.Timer)

		defer func() {
			for _, t := range pending {
				t.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}

				name := filepath.Clean(ev.Name)
				if _, ok := files[name]; !ok {
					continue
				}

				logger.TraceContext(ctx, "source changed",
					slog.String("file", name),
					slog.String("op", ev.Op.String()))

				if t, ok := pending[name]; ok {
					t.Reset(watchDelay)

					continue
				}

				pending[name] = time.AfterFunc(watchDelay, func() { onChange(name) })

			case err, ok := <-w.Errors:
				if !ok {
					return
				}

				logger.WarnContext(ctx, "watch failed", log.Err(err))
			}
		}
	}()

	return w.Close, nil
}
