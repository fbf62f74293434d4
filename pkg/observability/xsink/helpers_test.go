package xsink

import (
	"bytes"
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xlogkit/pkg/observability/xlog"
	"github.com/omeyang/xlogkit/pkg/storage/xstate"
	"github.com/omeyang/xlogkit/pkg/util/xfile"
)

// countingFs 统计所有文件系统调用
type countingFs struct {
	afero.Fs
	ops atomic.Int64
}

func (c *countingFs) Create(name string) (afero.File, error) {
	c.ops.Add(1)
	return c.Fs.Create(name)
}

func (c *countingFs) Mkdir(name string, perm os.FileMode) error {
	c.ops.Add(1)
	return c.Fs.Mkdir(name, perm)
}

func (c *countingFs) MkdirAll(path string, perm os.FileMode) error {
	c.ops.Add(1)
	return c.Fs.MkdirAll(path, perm)
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.ops.Add(1)
	return c.Fs.Open(name)
}

func (c *countingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	c.ops.Add(1)
	return c.Fs.OpenFile(name, flag, perm)
}

func (c *countingFs) Remove(name string) error {
	c.ops.Add(1)
	return c.Fs.Remove(name)
}

func (c *countingFs) RemoveAll(path string) error {
	c.ops.Add(1)
	return c.Fs.RemoveAll(path)
}

func (c *countingFs) Rename(oldname, newname string) error {
	c.ops.Add(1)
	return c.Fs.Rename(oldname, newname)
}

func (c *countingFs) Stat(name string) (os.FileInfo, error) {
	c.ops.Add(1)
	return c.Fs.Stat(name)
}

// countingStore 统计状态存储读写
type countingStore struct {
	xstate.Store
	ops atomic.Int64
}

func (s *countingStore) Get(ctx context.Context, key string) (string, error) {
	s.ops.Add(1)
	return s.Store.Get(ctx, key)
}

func (s *countingStore) Put(ctx context.Context, key, value string) error {
	s.ops.Add(1)
	return s.Store.Put(ctx, key, value)
}

// recordingNotifier 记录推送内容
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return n.err
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// syncBuffer 并发安全的 bytes.Buffer
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	sink     *Sink
	fs       *xfile.FS
	mem      *countingFs
	store    *countingStore
	console  *syncBuffer
	diag     *syncBuffer
	notifier *recordingNotifier
	clock    *clock
}

func newHarness(t *testing.T, cfg Config, opts ...Option) *harness {
	t.Helper()

	h := &harness{
		mem:      &countingFs{Fs: afero.NewMemMapFs()},
		store:    &countingStore{Store: xstate.NewMemory()},
		console:  &syncBuffer{},
		diag:     &syncBuffer{},
		notifier: &recordingNotifier{},
		clock:    &clock{now: time.Date(2024, 1, 1, 10, 5, 30, 123e6, time.Local)},
	}
	fsys, err := xfile.New(h.mem)
	require.NoError(t, err)
	h.fs = fsys

	console, _, err := xlog.New().SetOutput(h.console).SetOmitTime(true).SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)
	diag, _, err := xlog.New().SetOutput(h.diag).SetOmitTime(true).SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)

	base := []Option{
		WithFS(fsys),
		WithStore(h.store),
		WithConsole(console),
		WithDiagnostics(diag),
		WithNotifier(h.notifier),
		WithClock(h.clock.Now),
	}
	h.sink, err = New(cfg, append(base, opts...)...)
	require.NoError(t, err)
	return h
}

func (h *harness) read(t *testing.T, p string) string {
	t.Helper()
	data, err := h.fs.ReadFile(p)
	require.NoError(t, err, p)
	return string(data)
}
