package physics

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const settingsDebounce = 100 * time.Millisecond

// SettingsWatcher reloads a settings file whenever it changes on disk and
// hands valid results to the owner through Updates. The owner applies them
// between steps with World.ApplySettings.
type SettingsWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *log.Logger

	Updates chan Settings
	Errors  chan error

	closeCh chan struct{}
	once    sync.Once
}

// WatchSettings watches the directory holding path; editors that replace a
// file on save would otherwise drop a direct watch.
func WatchSettings(path string, logger *log.Logger) (*SettingsWatcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	sw := &SettingsWatcher{
		path:    abs,
		watcher: w,
		logger:  logger,
		Updates: make(chan Settings, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go sw.run()
	return sw, nil
}

func (sw *SettingsWatcher) Close() error {
	var err error
	sw.once.Do(func() {
		close(sw.closeCh)
		err = sw.watcher.Close()
	})
	return err
}

func (sw *SettingsWatcher) run() {
	defer close(sw.Updates)
	defer close(sw.Errors)

	// reload once the file has been quiet for settingsDebounce
	timer := time.NewTimer(settingsDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != sw.path {
				continue
			}
			timer.Reset(settingsDebounce)
		case <-timer.C:
			settings, err := LoadSettings(sw.path)
			if err != nil {
				sw.logger.Printf("SettingsWatcher: reload %s: %v", sw.path, err)
				sw.sendError(err)
				continue
			}
			sw.logger.Printf("SettingsWatcher: reloaded %s", sw.path)
			sw.sendSettings(settings)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.sendError(err)
		case <-sw.closeCh:
			return
		}
	}
}

// sendSettings replaces any update the owner has not consumed yet.
func (sw *SettingsWatcher) sendSettings(s Settings) {
	select {
	case <-sw.Updates:
	default:
	}
	select {
	case sw.Updates <- s:
	case <-sw.closeCh:
	}
}

func (sw *SettingsWatcher) sendError(err error) {
	select {
	case sw.Errors <- err:
	default:
	}
}
