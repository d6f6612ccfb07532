package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command, which re-checks diagram files
// whenever they change on disk.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [directory]",
		Short: "Re-check diagram files on change",
		Long: `Watch a directory tree for changes to ` + DiagramExt + ` files and re-run
the check on every change. Events are debounced so editors that write in
bursts trigger a single run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := RuntimeFrom(cmd)

			dir := rt.Config.DiagramsDir
			if len(args) == 1 {
				dir = args[0]
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer func() { _ = watcher.Close() }()

			if err := watchDirRecursive(watcher, dir); err != nil {
				return fmt.Errorf("cannot watch %s: %w", dir, err)
			}

			rt.Renderer.Info("watching %s for %s changes", dir, DiagramExt)
			runCheck(cmd, dir)

			debounce := time.Duration(rt.Config.Watch.DebounceMS) * time.Millisecond
			var debounceTimer *time.Timer

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil

				case event := <-watcher.Events:
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
						continue
					}
					// New directories need to be added to the watch set.
					if event.Op&fsnotify.Create != 0 {
						if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
							_ = watchDirRecursive(watcher, event.Name)
						}
					}
					if filepath.Ext(event.Name) != DiagramExt {
						continue
					}

					if debounceTimer != nil {
						debounceTimer.Stop()
					}
					debounceTimer = time.AfterFunc(debounce, func() {
						rt.Logger.Debug("file changed", "file", event.Name)
						runCheck(cmd, dir)
					})

				case err := <-watcher.Errors:
					rt.Logger.Error("watcher error", "error", err)
				}
			}
		},
	}
}

// runCheck runs one tagged check pass over the directory.
func runCheck(cmd *cobra.Command, dir string) {
	rt := RuntimeFrom(cmd)
	runID := uuid.New().String()[:8]

	files, err := CollectDiagramFiles([]string{dir}, dir)
	if err != nil {
		rt.Renderer.Error("run %s: %v", runID, err)
		return
	}
	if len(files) == 0 {
		rt.Renderer.Warning("run %s: no %s files found", runID, DiagramExt)
		return
	}

	reports, err := CheckFiles(cmd, files, rt.Config)
	if err != nil {
		rt.Renderer.Error("run %s: %v", runID, err)
		return
	}

	rt.Renderer.Rule()
	rt.Renderer.Detail("run %s at %s", runID, time.Now().Format("15:04:05"))
	if err := renderReports(cmd, reports); err != nil {
		rt.Renderer.Error("%v", err)
	}
}

// watchDirRecursive adds a directory and all its subdirectories to the
// watcher. Non-directory paths are ignored.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
