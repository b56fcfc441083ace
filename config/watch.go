package config

import (
	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is called with the freshly reloaded Config whenever the
// watched file is written. Load errors during a reload are logged and
// swallowed: the previous Config stays in effect.
type ChangeFunc func(Config)

// Watcher watches a single config file for on-disk changes and reloads on
// write or create, feeding the
// config-change barrier via the caller-supplied ChangeFunc.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string
	on   ChangeFunc
	done chan struct{}
}

// WatchFile starts watching path; on every Write or Create event it reloads and
// invokes on with the new Config. Call Close to stop.
func WatchFile(path string, on ChangeFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{fsw: fsw, path: path, on: on, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				log.Error("config reload failed, keeping previous config", "path", w.path, "error", err)
				continue
			}
			w.on(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error("config watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
