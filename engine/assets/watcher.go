package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

func (s *server) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := s.watchTree(w, s.root); err != nil {
		w.Close()
		return err
	}

	s.mu.Lock()
	if s.closed || s.watcher != nil {
		s.mu.Unlock()
		w.Close()
		return errors.New("assets: server is closed or already watching")
	}
	s.watcher = w
	s.mu.Unlock()

	go s.watchLoop(ctx, w)
	s.logger.Info("[Assets] watching", "root", s.root)
	return nil
}

// watchTree adds dir and every folder below it, since fsnotify watches are not recursive.
func (s *server) watchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

func (s *server) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			s.handleFileEvent(w, event)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("[Assets] watcher error", "error", err)
		}
	}
}

func (s *server) handleFileEvent(w *fsnotify.Watcher, event fsnotify.Event) {
	rel, err := filepath.Rel(s.root, event.Name)
	if err != nil {
		return
	}
	path := CleanPath(rel)

	switch {
	case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
		s.Remove(path)
	case event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Write == fsnotify.Write:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.watchTree(w, event.Name); err != nil {
				s.logger.Warn("[Assets] failed to watch folder", "path", path, "error", err)
			}
			return
		}
		if !s.wants(event.Name, nil) {
			return
		}
		s.logger.Debug("[Assets] file changed", "path", path, "op", event.Op.String())
		s.Reload(path)
	}
}
