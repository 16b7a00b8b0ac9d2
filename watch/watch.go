// Package watch reruns a task whenever one of a set of files changes.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/glbind/errors"
	"github.com/teranos/glbind/logger"
)

// DefaultDebounce absorbs the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// Task is run once at start and again after every settled change.
// Errors are logged and do not stop the watcher.
type Task func(ctx context.Context) error

// Watcher watches files for changes and triggers a Task.
type Watcher struct {
	files    map[string]bool
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.SugaredLogger

	mu      sync.Mutex
	ignored map[string]bool
}

// New watches files. The parent directories are watched rather than the
// files themselves, so files replaced by rename (as editors and WriteFile
// do) keep being seen.
func New(files []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		files:    make(map[string]bool),
		watcher:  fw,
		debounce: debounce,
		log:      logger.ComponentLogger("watch"),
		ignored:  make(map[string]bool),
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", f)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return w, nil
}

// Ignore drops events for path, such as the output the task itself writes.
func (w *Watcher) Ignore(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignored[abs] = true
}

func (w *Watcher) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs] && !w.ignored[abs]
}

// Run runs task, then reruns it after each change until ctx is done. Runs
// never overlap; changes during a run schedule one more run.
func (w *Watcher) Run(ctx context.Context, task Task) error {
	defer w.watcher.Close()

	run := func() {
		start := time.Now()
		if err := task(ctx); err != nil {
			w.log.Errorw("Regeneration failed", logger.FieldError, err)
			return
		}
		w.log.Infow("Regenerated", logger.FieldDurationMS, time.Since(start).Milliseconds())
	}
	run()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.log.Debugw("Change detected", logger.FieldPath, event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			run()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}
