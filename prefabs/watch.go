package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind classifies an edited prefab file.
type ChangeKind uint8

const (
	ChangeTuning ChangeKind = iota + 1
	ChangeBlocks
	ChangeLevel
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTuning:
		return "tuning"
	case ChangeBlocks:
		return "blocks"
	case ChangeLevel:
		return "level"
	case ChangeScript:
		return "script"
	}
	return "unknown"
}

// Change is one debounced file edit.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports edits to prefab YAML and layout scripts.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	Events   chan Change
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches DiskRoot and its levels/ and scripts/ subdirectories.
// Missing directories are skipped.
func NewWatcher(dirs ...string) (*Watcher, error) {
	if len(dirs) == 0 && DiskRoot != "" {
		dirs = []string{DiskRoot, filepath.Join(DiskRoot, "levels"), filepath.Join(DiskRoot, "scripts")}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	added := 0
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			continue
		}
		added++
	}
	if added == 0 && len(dirs) > 0 {
		_ = w.Close()
		return nil, fsnotifyNoDirs(dirs)
	}

	watcher := &Watcher{
		watcher:  w,
		debounce: 100 * time.Millisecond,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Change{Path: event.Name, Kind: kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(path string) (ChangeKind, bool) {
	slashed := filepath.ToSlash(path)
	base := strings.ToLower(filepath.Base(path))
	switch {
	case isScriptFile(path):
		return ChangeScript, true
	case !isSpecFile(path):
		return 0, false
	case strings.Contains(slashed, "/levels/") || strings.HasPrefix(slashed, "levels/"):
		return ChangeLevel, true
	case strings.HasPrefix(base, "tuning"):
		return ChangeTuning, true
	case strings.HasPrefix(base, "blocks"):
		return ChangeBlocks, true
	}
	return 0, false
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}

type noDirsError struct {
	dirs []string
}

func (e noDirsError) Error() string {
	return "prefabs: watch: none of " + strings.Join(e.dirs, ", ") + " could be watched"
}

func fsnotifyNoDirs(dirs []string) error {
	return noDirsError{dirs: dirs}
}
