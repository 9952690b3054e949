package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/abdul-hamid-achik/formpost/packages/output"
)

// watchAndResend resubmits the form whenever the definition, the env file
// or an attached file changes, until ctx is done.
func watchAndResend(ctx context.Context, out io.Writer, s *sender, formatter output.Formatter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Directories are watched rather than files so that editors which
	// replace a file on save are still noticed.
	targets := make(map[string]bool)
	watchedDirs := make(map[string]bool)
	addTargets := func() {
		for _, t := range s.watchTargets() {
			targets[t] = true
			dir := filepath.Dir(t)
			if watchedDirs[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				s.logger.Warn().Err(err).Str("dir", dir).Msg("failed to watch directory")
				continue
			}
			watchedDirs[dir] = true
		}
	}
	addTargets()

	if len(targets) == 0 {
		return usageErrorf("--watch needs a --form definition, an --env-file or an attachment to watch")
	}

	fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	debounce := time.NewTimer(WatchDebounceDelay)
	debounce.Stop()
	var changed string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !targets[name] {
				continue
			}
			changed = name
			debounce.Reset(WatchDebounceDelay)

		case <-debounce.C:
			s.logger.Info().Str("file", changed).Msg("file changed")
			fmt.Fprintf(out, "\nFile changed: %s\nResubmitting...\n", changed)

			if s.opts.EnvFile != "" {
				if err := s.loadVariables(); err != nil {
					formatter.FormatError(err)
				}
			}
			if r, ok := formatter.(interface{ Reset() }); ok {
				r.Reset()
			}
			runAndReport(ctx, s, formatter)
			addTargets()

			fmt.Fprintf(out, "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			formatter.FormatError(fmt.Errorf("watcher error: %w", err))
		}
	}
}
