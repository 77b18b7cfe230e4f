package prefabs

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const settleTime = 100 * time.Millisecond

// Files lists every prefab file a Bundle or the clients read.
var Files = []string{
	"roster.yaml",
	"tuning.yaml",
	"difficulty.yaml",
	"specials.yaml",
	"signatures.yaml",
	"progression.yaml",
	"daily.yaml",
	"achievements.yaml",
	"sounds.yaml",
}

// Watcher reports prefab files changed on disk. Editors tend to write a file
// several times in a row, so repeats inside settleTime are dropped.
type Watcher struct {
	fs      *fsnotify.Watcher
	changed chan string
	Errors  chan error
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
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
		fs:      fw,
		changed: make(chan string, 16),
		Errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// Drain returns the distinct prefab files changed since the last call, sorted,
// without blocking.
func (w *Watcher) Drain() []string {
	if w == nil {
		return nil
	}
	var out []string
	for {
		select {
		case name := <-w.changed:
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		default:
			slices.Sort(out)
			return out
		}
	}
}

func (w *Watcher) loop() {
	seen := map[string]time.Time{}
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if !slices.Contains(Files, name) {
				continue
			}
			now := time.Now()
			if t, ok := seen[name]; ok && now.Sub(t) < settleTime {
				continue
			}
			seen[name] = now
			select {
			case w.changed <- name:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}
