package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it is written or replaced and sends
// every valid result on the returned channel. Invalid or half-written files
// are logged and skipped. The channel is closed when ctx is done.
func Watch(ctx context.Context, configPath string) (<-chan Config, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	// Watch the directory so saves that rename over the file are seen.
	target := filepath.Clean(configPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	out := make(chan Config, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				cfg, err := readConfig(target)
				if err != nil {
					slog.Warn("config_reload_failed", "path", target, "error", err.Error())
					continue
				}
				if err := cfg.Validate(); err != nil {
					slog.Warn("config_reload_invalid", "path", target, "error", err.Error())
					continue
				}

				slog.Info("config_reloaded", "path", target, "backend_url", cfg.BackendURL)
				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config_watch_error", "error", err.Error())
			}
		}
	}()

	return out, nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return parse(data)
}
