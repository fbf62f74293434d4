package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/afero"

	"github.com/omeyang/xlogkit/pkg/config/xconf"
	"github.com/omeyang/xlogkit/pkg/observability/xlog"
	"github.com/omeyang/xlogkit/pkg/observability/xsink"
	"github.com/omeyang/xlogkit/pkg/storage/xstate"
	"github.com/omeyang/xlogkit/pkg/util/xfile"
)

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

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut syncBuffer
	code = run(context.Background(), append([]string{"xlogctl"}, args...), strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEmit(t *testing.T) {
	root := t.TempDir()

	code, stdout, stderr := runCLI(t, "", "--root", root, "--store", "memory",
		"emit", "--level", "warn", "磁盘剩余{}%", "8")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	warn := readFile(t, filepath.Join(root, "logs", "warn.log"))
	if !strings.HasPrefix(warn, "warn logs for [") {
		t.Errorf("warn.log missing header: %q", warn)
	}
	if !strings.HasSuffix(warn, ":[WARN]磁盘剩余8%\n") {
		t.Errorf("warn.log = %q", warn)
	}
	if !strings.Contains(readFile(t, filepath.Join(root, "logs", "log-verboses.log")), ":[WARN]磁盘剩余8%\n") {
		t.Error("verbose log missing line")
	}
	if !strings.Contains(stdout, "level=WARN") || !strings.Contains(stdout, "磁盘剩余8%") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestEmit_Notify(t *testing.T) {
	root := t.TempDir()

	code, _, stderr := runCLI(t, "", "--root", root, "--store", "memory", "emit", "-n", "任务完成")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stderr, "[提醒] 任务完成\n") {
		t.Errorf("stderr = %q, want notification", stderr)
	}
}

func TestEmit_DefaultFileStore(t *testing.T) {
	root := t.TempDir()

	if code, _, stderr := runCLI(t, "", "--root", root, "emit", "hello"); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	state := readFile(t, filepath.Join(root, filepath.FromSlash(xstate.DefaultStateFile)))
	if !strings.Contains(state, xstate.KeyLastRotation) {
		t.Errorf("state file = %q", state)
	}
}

func TestUsageErrors(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"缺少日志内容", []string{"--root", root, "emit"}},
		{"无效级别", []string{"--root", root, "emit", "--level", "fatal", "x"}},
		{"未知存储", []string{"--root", root, "--store", "sqlite", "emit", "x"}},
		{"未知全局参数", []string{"--bogus", "emit", "x"}},
		{"未知命令参数", []string{"--root", root, "sweep", "--bogus"}},
		{"无效 cron", []string{"--root", root, "--store", "memory", "serve", "--sweep-cron", "not a cron"}},
		{"无效诊断级别", []string{"--root", root, "--diag-level", "loud", "emit", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			if code != 2 {
				t.Errorf("exit code = %d, want 2 (stderr: %s)", code, stderr)
			}
		})
	}
}

func TestRotate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "logs", "info.log"), "old content\n")

	code, stdout, stderr := runCLI(t, "", "--root", root, "--store", "memory", "rotate")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "已轮转 5 个日志文件") {
		t.Errorf("stdout = %q", stdout)
	}

	matches, err := filepath.Glob(filepath.Join(root, "logs", "logback", "info.*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("backup matches = %v, err = %v", matches, err)
	}
	if got := readFile(t, matches[0]); got != "old content\n" {
		t.Errorf("backup = %q", got)
	}
	if got := readFile(t, filepath.Join(root, "logs", "info.log")); !strings.HasPrefix(got, "info logs for [") {
		t.Errorf("info.log = %q", got)
	}
}

func TestSweep(t *testing.T) {
	root := t.TempDir()
	backups := filepath.Join(root, "logs", "logback")
	fresh := "info." + time.Now().Format("200601021504") + ".log"
	writeFile(t, filepath.Join(backups, "info.200001010000.log"), "")
	writeFile(t, filepath.Join(backups, "junk.txt"), "")
	writeFile(t, filepath.Join(backups, fresh), "")

	code, stdout, stderr := runCLI(t, "", "--root", root, "--store", "memory", "sweep")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if stdout != "info.200001010000.log\njunk.txt\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(backups, fresh)); err != nil {
		t.Errorf("fresh backup removed: %v", err)
	}
}

func TestServe(t *testing.T) {
	root := t.TempDir()

	code, _, stderr := runCLI(t, "first\n\n  \nsecond\n",
		"--root", root, "--store", "memory", "serve", "--level", "info", "--sweep-cron", "@every 1h")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}

	info := readFile(t, filepath.Join(root, "logs", "info.log"))
	if strings.Count(info, ":[INFO]") != 2 || !strings.Contains(info, ":[INFO]first\n") || !strings.Contains(info, ":[INFO]second\n") {
		t.Errorf("info.log = %q", info)
	}
}

func TestServe_CancelledContext(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Close()
	defer pw.Close()

	var out, errOut syncBuffer
	code := run(ctx, []string{"xlogctl", "--root", root, "--store", "memory", "serve", "--sweep-cron", ""}, pr, &out, &errOut)
	if code != 0 {
		t.Errorf("exit code = %d, stderr: %s", code, errOut.String())
	}
}

func TestConfigFile(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "xlogkit.yaml")
	writeFile(t, cfgPath, "show_debug_log: true\nroot: "+root+"\n")

	code, stdout, stderr := runCLI(t, "", "-c", cfgPath, "--store", "memory", "emit", "-l", "debug", "可见的调试信息")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "level=DEBUG") {
		t.Errorf("stdout = %q, want debug echo", stdout)
	}
	verbose := readFile(t, filepath.Join(root, "logs", "log-verboses.log"))
	if !strings.HasSuffix(verbose, ":可见的调试信息\n") {
		t.Errorf("verbose = %q", verbose)
	}
}

func TestConfigFile_SaveLogFileOff(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "xlogkit.json")
	writeFile(t, cfgPath, `{"saveLogFile": false}`)

	code, stdout, stderr := runCLI(t, "", "-c", cfgPath, "-r", root, "emit", "console only")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "console only") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(root, "logs")); !os.IsNotExist(err) {
		t.Errorf("logs dir should not exist, stat err = %v", err)
	}
}

func TestConfigFile_Missing(t *testing.T) {
	code, _, _ := runCLI(t, "", "-c", filepath.Join(t.TempDir(), "absent.yaml"), "emit", "x")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	root := t.TempDir()

	code, _, stderr := runCLI(t, "", "--root", root, "--store", "redis", "--redis-addr", mr.Addr(), "emit", "x")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	bucket, err := mr.Get(xstate.DefaultRedisKeyPrefix + xstate.KeyLastRotation)
	if err != nil {
		t.Fatalf("bucket not stored: %v", err)
	}
	if len(bucket) != len("2006010215") {
		t.Errorf("bucket = %q", bucket)
	}
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	code, _, stderr := runCLI(t, "", "--root", t.TempDir(), "--store", "redis", "--redis-addr", addr, "emit", "x")
	if code != 1 {
		t.Errorf("exit code = %d, want 1 (stderr: %s)", code, stderr)
	}
}

func TestDiagFile(t *testing.T) {
	root := t.TempDir()
	diagPath := filepath.Join(t.TempDir(), "diag.log")

	code, _, stderr := runCLI(t, "", "--root", root, "--store", "memory", "--diag-file", diagPath, "emit", "x")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr)
	}
	if diag := readFile(t, diagPath); !strings.Contains(diag, "rotation started") {
		t.Errorf("diag = %q", diag)
	}
	if strings.Contains(stderr, "rotation started") {
		t.Error("diagnostics should not go to stderr when --diag-file is set")
	}
}

func TestWriteFailureExitCode(t *testing.T) {
	root := t.TempDir()
	// logs 是普通文件，无法创建目录
	writeFile(t, filepath.Join(root, "logs"), "")

	code, stdout, stderr := runCLI(t, "", "--root", root, "--store", "memory", "emit", "x")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "msg=x") {
		t.Errorf("console echo missing: %q", stdout)
	}
	if !strings.Contains(stderr, "log failure") {
		t.Errorf("stderr = %q, want diagnostics", stderr)
	}
}

func TestEmitPayload(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"empty", nil, "", true},
		{"single", []string{"a {} b"}, "a {} b", false},
		{"template", []string{"{}+{}", "1", "2"}, "1+2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := emitPayload(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("emitPayload(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if tt.wantErr {
				var usageErr *usageError
				if !errors.As(err, &usageErr) {
					t.Errorf("expected *usageError, got %T", err)
				}
				return
			}
			got, err := xsink.Format(payload)
			if err != nil || got != tt.want {
				t.Errorf("Format(emitPayload(%v)) = %q, %v; want %q", tt.args, got, err, tt.want)
			}
		})
	}
}

func TestReloadCallback(t *testing.T) {
	fsys, err := xfile.New(afero.NewMemMapFs())
	if err != nil {
		t.Fatal(err)
	}
	cfg := xsink.DefaultConfig()
	cfg.Root = "/srv"
	sink, err := xsink.New(cfg,
		xsink.WithFS(fsys),
		xsink.WithStore(xstate.NewMemory()),
		xsink.WithConsole(xlog.Discard()),
	)
	if err != nil {
		t.Fatal(err)
	}
	sess := &session{sink: sink, diag: xlog.Discard()}
	cb := reloadCallback(context.Background(), sess)

	cb(nil, errors.New("parse failed"))
	if got := sink.Config().LogSavedDays; got != 3 {
		t.Errorf("LogSavedDays after failed reload = %d, want 3", got)
	}

	conf, err := xconf.NewFromBytes([]byte("logSavedDays: 9\nsaveLogFile: false\nroot: /other\n"), xconf.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	cb(conf, nil)

	got := sink.Config()
	if got.LogSavedDays != 9 || got.SaveLogFile {
		t.Errorf("config after reload = %+v", got)
	}
	if got.Root != "/srv" {
		t.Errorf("Root = %q, want unchanged /srv", got.Root)
	}
}

func TestKvAttrs(t *testing.T) {
	attrs := kvAttrs([]any{"entry", 1, "next", "soon", "dangling"})
	if len(attrs) != 3 {
		t.Fatalf("len = %d, want 3", len(attrs))
	}
	want := []slog.Attr{slog.Any("entry", 1), slog.Any("next", "soon"), slog.Any("!BADKEY", "dangling")}
	for i := range want {
		if !attrs[i].Equal(want[i]) {
			t.Errorf("attrs[%d] = %v, want %v", i, attrs[i], want[i])
		}
	}
}

func TestExitError(t *testing.T) {
	err := &exitError{code: 2}
	if err.Error() != "exit status 2" {
		t.Errorf("exitError.Error() = %q", err.Error())
	}
	var target *exitError
	if !errors.As(error(err), &target) || target.code != 2 {
		t.Error("errors.As failed for *exitError")
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestPumpLines(t *testing.T) {
	var got []string
	err := pumpLines(context.Background(), strings.NewReader("a\n\n b \nc"), func(line string) {
		got = append(got, line)
	})
	if err != nil {
		t.Fatalf("pumpLines error = %v", err)
	}
	if strings.Join(got, "|") != "a| b |c" {
		t.Errorf("lines = %q", got)
	}

	readErr := errors.New("stdin broken")
	err = pumpLines(context.Background(), failingReader{err: readErr}, func(string) {})
	if !errors.Is(err, readErr) {
		t.Errorf("pumpLines error = %v, want %v", err, readErr)
	}
}
