package assets

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-gl/engine/core"
)

// ChangeFunc receives the path of a changed asset. It runs on the watcher
// goroutine, never on the render goroutine.
type ChangeFunc func(path string, assetType AssetType)

/**
 * @brief Watches dir and all its sub-directories. Once a file has been
 * quiet for Debounce after a write or a create, its cached image is
 * dropped and fn is called with its path. Only files of a known asset type
 * are reported.
 */
func (am *AssetManager) Watch(name string, fn ChangeFunc) error {
	dir := am.Path(name)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return errClosed
	}
	if am.fsnotify == nil {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = w
		am.done = make(chan struct{})
		am.stopped = make(chan struct{})
		go am.start(fn)
	}
	return am.watchRecursive(dir)
}

func (am *AssetManager) start(fn ChangeFunc) {
	defer close(am.stopped)

	pending := make(map[string]*time.Timer)
	fired := make(chan string)

	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&fsnotify.Create != 0 {
				if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
					am.mutex.Lock()
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("cannot watch %s: %s", e.Name, err)
					}
					am.mutex.Unlock()
					continue
				}
			}
			if e.Op&fsnotify.Remove != 0 {
				am.images.Remove(e.Name)
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 || determineAssetType(e.Name) == AssetTypeNone {
				continue
			}
			path := e.Name
			if t, ok := pending[path]; ok {
				t.Reset(am.Debounce)
				continue
			}
			pending[path] = time.AfterFunc(am.Debounce, func() {
				select {
				case fired <- path:
				case <-am.done:
				}
			})

		case path := <-fired:
			delete(pending, path)
			am.images.Remove(path)
			core.LogDebug("asset changed: %s", path)
			fn(path, determineAssetType(path))

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			for _, t := range pending {
				t.Stop()
			}
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds dir and every directory below it. The caller holds
// am.mutex.
func (am *AssetManager) watchRecursive(dir string) error {
	return filepath.Walk(dir, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		return nil
	})
}
