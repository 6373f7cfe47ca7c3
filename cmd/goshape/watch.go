package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay collapses the burst of events an editor save produces.
const settleDelay = 150 * time.Millisecond

// watchDir generates once, then again after every change to a Go source file
// of the package, until ctx is done. Generation errors are reported and the
// watch continues.
func watchDir(ctx context.Context, cfg config, logf func(string, ...any)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(cfg.Dir); err != nil {
		return err
	}

	run := func() {
		if err := generate(cfg, logf); err != nil {
			fmt.Fprintf(os.Stderr, "goshape: %v\n", err)
		}
	}
	run()
	logf("watching %s", cfg.Dir)

	output, _ := filepath.Abs(cfg.Output)
	timer := time.NewTimer(settleDelay)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, output) {
				continue
			}
			logf("changed: %s (%s)", ev.Name, ev.Op)
			timer.Reset(settleDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		case <-timer.C:
			run()
		}
	}
}

// relevant reports whether ev touches a non-test Go file other than the
// generated output.
func relevant(ev fsnotify.Event, output string) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := ev.Name
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}
	if abs, err := filepath.Abs(name); err == nil && abs == output {
		return false
	}
	return true
}
