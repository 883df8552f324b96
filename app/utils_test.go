package app

import (
	"bytes"
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"

	actx "go.hackfix.me/strand/app/context"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func timeNowFn() time.Time {
	return timeNow
}

const testConfigFile = "/etc/strand/config.json"

type testApp struct {
	*App
	stdout, stderr *hookWriter
	env            *mockEnv
	fs             vfs.FileSystem
}

func newTestApp(ctx context.Context) (*testApp, error) {
	var (
		stdout, stderr = newHookWriter(), newHookWriter()
		env            = &mockEnv{env: map[string]string{}}
		fs             = memoryfs.New()
	)

	app, err := New("strand",
		WithTimeNow(timeNowFn),
		WithEnv(env),
		WithContext(ctx),
		WithFDs(&bytes.Buffer{}, stdout, stderr),
		WithFS(fs),
		WithLogger(false),
	)
	if err != nil {
		return nil, err
	}

	return &testApp{App: app, stdout: stdout, stderr: stderr, env: env, fs: fs}, nil
}

// Run runs the app with args, using the test configuration file. The output
// written by previous runs is discarded.
func (ta *testApp) Run(args ...string) error {
	ta.stdout.Reset()
	ta.stderr.Reset()

	return ta.App.Run(append([]string{"--config-file", testConfigFile}, args...))
}

type mockEnv struct {
	mx  sync.RWMutex
	env map[string]string
}

var _ actx.Environment = (*mockEnv)(nil)

func (me *mockEnv) Get(key string) string {
	me.mx.RLock()
	defer me.mx.RUnlock()
	return me.env[key]
}

func (me *mockEnv) Set(key, val string) error {
	me.mx.Lock()
	defer me.mx.Unlock()
	me.env[key] = val
	return nil
}

// hookWriter is a thread-safe io.Writer that notifies subscribers when specific
// text is written.
type hookWriter struct {
	mx    sync.Mutex
	buf   bytes.Buffer
	hooks []*hook
}

type hook struct {
	rx       *regexp.Regexp
	matchIdx int
	ch       chan string
}

func newHookWriter() *hookWriter {
	return &hookWriter{}
}

// waitFor returns a channel that receives the first match of the rxPat regex
// pattern in data written after this call. If matchIdx > 0, the submatch at
// that index is sent instead of the whole match.
func (hw *hookWriter) waitFor(rxPat string, matchIdx int) <-chan string {
	h := &hook{rx: regexp.MustCompile(rxPat), matchIdx: matchIdx, ch: make(chan string, 1)}

	hw.mx.Lock()
	hw.hooks = append(hw.hooks, h)
	hw.mx.Unlock()

	return h.ch
}

func (hw *hookWriter) Write(p []byte) (int, error) {
	hw.mx.Lock()
	defer hw.mx.Unlock()

	remaining := hw.hooks[:0]
	for _, h := range hw.hooks {
		match := h.rx.FindSubmatch(p)
		if len(match) > h.matchIdx {
			h.ch <- string(match[h.matchIdx])
			continue
		}
		remaining = append(remaining, h)
	}
	hw.hooks = remaining

	return hw.buf.Write(p)
}

func (hw *hookWriter) Reset() {
	hw.mx.Lock()
	defer hw.mx.Unlock()
	hw.buf.Reset()
}

func (hw *hookWriter) String() string {
	hw.mx.Lock()
	defer hw.mx.Unlock()
	return hw.buf.String()
}

// newTestContext returns a context that times out after timeout, and an
// assertion handling function that cancels the context prematurely and fails
// the test if the assertion fails. This is done to avoid waiting for the
// context timeout to be reached.
func newTestContext(t *testing.T, timeout time.Duration) (
	ctx context.Context, cancelCtx func(), assertHandler func(bool),
) {
	ctx, cancelCtx = context.WithTimeout(t.Context(), timeout)
	assertHandler = func(success bool) {
		if !success {
			cancelCtx()
			t.FailNow()
		}
	}

	return
}
