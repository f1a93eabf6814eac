// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch converts documents as they appear under a directory tree.
// Filesystem events are debounced per path; once a matching file settles
// it is queued for conversion. A single worker drains the queue, so only
// one pandoc process is ever in flight, same as bulk mode.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/queball1999/QConvert/internal/bulk"
	"github.com/queball1999/QConvert/internal/job"
	"github.com/queball1999/QConvert/pkg/types"
)

const defaultSettleDelay = 500 * time.Millisecond

// Watcher monitors a directory tree and converts matching files.
type Watcher struct {
	dir     string
	cfg     types.WatchConfig
	extra   []string
	exec    job.Executor
	observe bulk.Observer
	log     *logrus.Logger

	fsw      *fsnotify.Watcher
	queue    chan string
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	stopped bool

	debounceMu sync.Mutex
	debounce   map[string]*time.Timer
}

// New creates a watcher over dir. Watching with identical input and output
// formats is rejected: every produced file would immediately match and
// retrigger itself.
func New(dir string, cfg types.WatchConfig, extraArgs []string, exec job.Executor, observe bulk.Observer, log *logrus.Logger) (*Watcher, error) {
	if cfg.InputFormat == cfg.OutputFormat {
		return nil, fmt.Errorf("watch mode cannot convert %s to %s: outputs would retrigger conversion", cfg.InputFormat, cfg.OutputFormat)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}
	return &Watcher{
		dir:      dir,
		cfg:      cfg,
		extra:    extraArgs,
		exec:     exec,
		observe:  observe,
		log:      log,
		fsw:      fsw,
		queue:    make(chan string, 64),
		stopChan: make(chan struct{}),
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Start adds watches for the directory tree and begins processing events.
func (w *Watcher) Start() error {
	count := 0
	err := filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.convertLoop()

	w.log.WithFields(logrus.Fields{
		"dir":     w.dir,
		"watched": count,
		"from":    w.cfg.InputFormat,
		"to":      w.cfg.OutputFormat,
	}).Info("watching for documents")
	return nil
}

// Stop shuts the watcher down and waits for the in-flight conversion, if
// any, to finish. A running pandoc process is never interrupted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.stopChan)
	w.fsw.Close()

	w.debounceMu.Lock()
	for path, timer := range w.debounce {
		timer.Stop()
		delete(w.debounce, path)
	}
	w.debounceMu.Unlock()

	w.wg.Wait()
	w.log.Info("watcher stopped")
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("filesystem watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	// New subdirectories join the watch set.
	if event.Has(fsnotify.Create) {
		if isDir(event.Name) {
			if err := w.fsw.Add(event.Name); err != nil {
				w.log.WithError(err).WithField("dir", event.Name).Warn("could not watch new directory")
			}
			return
		}
	}

	if !bulk.Matches(filepath.Base(event.Name), w.cfg.InputFormat) {
		return
	}
	w.debounceEnqueue(event.Name)
}

// debounceEnqueue (re)arms the settle timer for path. The file is queued
// once its events stop for SettleDelay.
func (w *Watcher) debounceEnqueue(path string) {
	delay := w.cfg.SettleDelay
	if delay <= 0 {
		delay = defaultSettleDelay
	}

	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Reset(delay)
		return
	}
	w.debounce[path] = time.AfterFunc(delay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()

		select {
		case w.queue <- path:
		case <-w.stopChan:
		}
	})
}

func (w *Watcher) convertLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopChan:
			return
		case path := <-w.queue:
			w.convert(path)
		}
	}
}

func (w *Watcher) convert(path string) {
	req := types.ConversionRequest{
		InputPath:    path,
		OutputPath:   bulk.OutputPath(path, w.cfg.InputFormat, w.cfg.OutputFormat),
		InputFormat:  w.cfg.InputFormat,
		OutputFormat: w.cfg.OutputFormat,
		Engine:       w.cfg.Engine,
		ExtraArgs:    w.extra,
	}

	log := w.log.WithFields(logrus.Fields{"input": req.InputPath, "output": req.OutputPath})
	log.Info("converting")

	startedAt := time.Now()
	outcome := job.Run(w.exec, req, nil)
	if w.observe != nil {
		w.observe(req, outcome, startedAt, time.Since(startedAt))
	}

	if outcome.Succeeded {
		log.Info("converted")
		if w.cfg.ShowOutput && outcome.CapturedOutput != "" {
			log.WithField("stdout", strings.TrimSpace(outcome.CapturedOutput)).Debug("pandoc output")
		}
	} else {
		log.WithField("detail", strings.TrimSpace(outcome.ErrorDetail)).Error("conversion failed")
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
