// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queball1999/QConvert/pkg/types"
)

// recordingExecutor captures every request it runs, concurrency-safe.
type recordingExecutor struct {
	mu   sync.Mutex
	seen []types.ConversionRequest
	done chan struct{} // signalled once per run
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{done: make(chan struct{}, 16)}
}

func (r *recordingExecutor) Run(req types.ConversionRequest) types.ConversionOutcome {
	r.mu.Lock()
	r.seen = append(r.seen, req)
	r.mu.Unlock()
	r.done <- struct{}{}
	return types.ConversionOutcome{Succeeded: true}
}

func (r *recordingExecutor) requests() []types.ConversionRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.ConversionRequest(nil), r.seen...)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func watchConfig() types.WatchConfig {
	return types.WatchConfig{
		BulkConfig: types.BulkConfig{
			ConvertConfig: types.ConvertConfig{Engine: types.DefaultEngine},
			InputFormat:   types.FormatMarkdown,
			OutputFormat:  types.FormatHTML,
		},
		SettleDelay: 20 * time.Millisecond,
	}
}

func waitForRun(t *testing.T, exec *recordingExecutor) {
	t.Helper()
	select {
	case <-exec.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a conversion to run")
	}
}

func TestWatcher_ConvertsNewMatchingFile(t *testing.T) {
	dir := t.TempDir()
	exec := newRecordingExecutor()

	w, err := New(dir, watchConfig(), nil, exec, nil, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# hi"), 0o644))

	waitForRun(t, exec)
	requests := exec.requests()
	require.Len(t, requests, 1)
	assert.Equal(t, path, requests[0].InputPath)
	assert.Equal(t, filepath.Join(dir, "note.html"), requests[0].OutputPath)
	assert.Equal(t, types.FormatMarkdown, requests[0].InputFormat)
}

func TestWatcher_IgnoresNonMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	exec := newRecordingExecutor()

	w, err := New(dir, watchConfig(), nil, exec, nil, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.md"), []byte("# hi"), 0o644))

	waitForRun(t, exec)
	// Give a debounce window for any spurious png conversion to surface.
	time.Sleep(100 * time.Millisecond)

	requests := exec.requests()
	require.Len(t, requests, 1)
	assert.Equal(t, filepath.Join(dir, "note.md"), requests[0].InputPath)
}

func TestWatcher_DebouncesWriteBursts(t *testing.T) {
	dir := t.TempDir()
	exec := newRecordingExecutor()

	w, err := New(dir, watchConfig(), nil, exec, nil, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(dir, "burst.md")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("draft"), 0o644))
		time.Sleep(2 * time.Millisecond)
	}

	waitForRun(t, exec)
	time.Sleep(100 * time.Millisecond)

	assert.Len(t, exec.requests(), 1, "a write burst should settle into one conversion")
}

func TestWatcher_ObserverSeesOutcomes(t *testing.T) {
	dir := t.TempDir()
	exec := newRecordingExecutor()

	var mu sync.Mutex
	var observed []string
	observer := func(req types.ConversionRequest, outcome types.ConversionOutcome, startedAt time.Time, duration time.Duration) {
		mu.Lock()
		observed = append(observed, req.InputPath)
		mu.Unlock()
	}

	w, err := New(dir, watchConfig(), nil, exec, observer, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen.md"), []byte("x"), 0o644))
	waitForRun(t, exec)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, observed, 1)
	assert.Equal(t, filepath.Join(dir, "seen.md"), observed[0])
}

func TestNew_RejectsIdenticalFormats(t *testing.T) {
	cfg := watchConfig()
	cfg.OutputFormat = types.FormatMarkdown

	_, err := New(t.TempDir(), cfg, nil, newRecordingExecutor(), nil, quietLogger())
	assert.Error(t, err)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir(), watchConfig(), nil, newRecordingExecutor(), nil, quietLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())

	w.Stop()
	w.Stop()
}
