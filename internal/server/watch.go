package server

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/shahar-caura/irisform/internal/classifier"
)

// WatchModel reloads the model whenever its file changes. A file that fails
// to parse leaves the current model in place. Blocks until ctx is cancelled.
func (s *Server) WatchModel(ctx context.Context) {
	s.watchModel(ctx, nil)
}

// watchModel is WatchModel with an optional hook invoked after every reload
// attempt, used by tests to synchronise.
func (s *Server) watchModel(ctx context.Context, reloaded func(error)) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Error("model watch: failed to create watcher", "err", err)
		return
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.modelPath)

	// Watch the directory so editors that replace the file by rename are seen.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("model watch: failed to watch model dir", "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			err := s.reloadModel()
			if reloaded != nil {
				reloaded(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("model watch: watcher error", "err", err)
		}
	}
}

func (s *Server) reloadModel() error {
	m, err := classifier.Load(s.modelPath)
	s.metrics.recordReload(err)
	if err != nil {
		s.logger.Warn("model reload failed; keeping current model", "path", s.modelPath, "err", err)
		return err
	}
	prev := s.model.Swap(m)
	s.logger.Info("model reloaded", "path", s.modelPath, "previous", prev.Name, "current", m.Name)
	return nil
}
