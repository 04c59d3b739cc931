package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/iqra-lang/iqra/pkg/iqra/config"
	"github.com/iqra-lang/iqra/pkg/iqra/evaluator"
	"github.com/iqra-lang/iqra/pkg/iqra/iqra"
)

// debounceWindow absorbs the bursts of events editors emit on save.
const debounceWindow = 200 * time.Millisecond

// watchCommand re-runs a script every time it changes on disk.
func watchCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: iqra watch script.iqra")
		os.Exit(2)
	}
	filename := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	rt := iqra.New(evaluator.NewDefaultSystemExecutor(), iqra.WithLocale(cfg.Locale))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "iqra: %v\n", err)
		os.Exit(2)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save,
	// which drops a watch registered on the file itself.
	dir := filepath.Dir(filename)
	if err := watcher.Add(dir); err != nil {
		fmt.Fprintf(os.Stderr, "iqra: %v\n", err)
		os.Exit(2)
	}

	target, _ := filepath.Abs(filename)

	fmt.Fprintf(os.Stderr, "watching %s (Ctrl+C to stop)\n", filename)
	runOnce(rt, filename)

	var lastRun time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			changed, _ := filepath.Abs(event.Name)
			if changed != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastRun) < debounceWindow {
				continue
			}
			lastRun = time.Now()
			fmt.Fprintf(os.Stderr, "--- %s changed, re-running ---\n", filename)
			runOnce(rt, filename)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func runOnce(rt *iqra.Runtime, filename string) {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "iqra: %v\n", err)
		return
	}
	if _, runErr := rt.Run(string(source)); runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.String())
	}
}
