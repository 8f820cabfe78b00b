package prefabs

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	logging "github.com/ipfs/go-log/v2"
)

var watchLog = logging.Logger("prefabs")

// DefaultSettle is how long a prefab must stay quiet before its change is
// reported. Editors often save in several writes.
const DefaultSettle = 150 * time.Millisecond

// Watcher reports prefab files that changed on disk. Each name is sent once
// per burst of edits, after the burst settles.
type Watcher struct {
	Events chan string
	Errors chan error

	fs     *fsnotify.Watcher
	settle time.Duration
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	return NewWatcherSettle(DefaultSettle, dirs...)
}

func NewWatcherSettle(settle time.Duration, dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		Events: make(chan string, 16),
		Errors: make(chan error, 1),
		fs:     fw,
		settle: settle,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.loop()
	watchLog.Infow("watching prefabs", "dirs", dirs, "settle", settle)
	return w, nil
}

// Close stops the watcher and closes both channels. Pending changes that have
// not settled are dropped.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	timer := time.NewTimer(w.settle)
	timer.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			name := filepath.Base(ev.Name)
			watchLog.Debugw("prefab touched", "file", name, "op", ev.Op.String())
			pending[name] = time.Now()
			timer.Reset(w.settle)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.stop:
				return
			}

		case <-timer.C:
			for _, name := range settled(pending, time.Now(), w.settle) {
				delete(pending, name)
				select {
				case w.Events <- name:
				case <-w.stop:
					return
				}
			}
			if len(pending) > 0 {
				timer.Reset(w.settle)
			}

		case <-w.stop:
			timer.Stop()
			return
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	return ext == ".yaml" || ext == ".yml"
}

// settled lists the names last touched at least quiet ago, in name order.
func settled(pending map[string]time.Time, now time.Time, quiet time.Duration) []string {
	var names []string
	for name, at := range pending {
		if now.Sub(at) >= quiet {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
