package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xlogkit/pkg/config/xconf"
	"github.com/omeyang/xlogkit/pkg/observability/xlog"
	"github.com/omeyang/xlogkit/pkg/observability/xmetrics"
	"github.com/omeyang/xlogkit/pkg/observability/xrotate"
	"github.com/omeyang/xlogkit/pkg/observability/xsink"
	"github.com/omeyang/xlogkit/pkg/storage/xstate"
	"github.com/omeyang/xlogkit/pkg/util/xfile"
)

// 状态存储类型
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeRedis  = "redis"
	storeEtcd   = "etcd"
)

const defaultDialTimeout = 5 * time.Second

// diagPolicy 诊断日志文件的切割参数
var diagPolicy = xrotate.SizePolicy{MaxSizeMB: 20, MaxBackups: 5, MaxAgeDays: 7, Compress: true}

// session 一次命令执行所需的组件
type session struct {
	sink   *xsink.Sink
	diag   xlog.Logger
	conf   xconf.Config // 未指定配置文件时为 nil
	root   string
	closer []func() error
}

// Close 按创建的逆序释放资源
func (r *session) Close() error {
	var errs []error
	for i := len(r.closer) - 1; i >= 0; i-- {
		if err := r.closer[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openSession 按全局选项组装 Sink。
func openSession(ctx context.Context, cmd *cli.Command, s *streams) (*session, error) {
	rt := &session{}
	ok := false
	defer func() {
		if !ok {
			_ = rt.Close() //nolint:errcheck // 构造失败时尽力释放
		}
	}()

	cfg, err := loadConfig(rt, cmd)
	if err != nil {
		return nil, err
	}

	diag, err := buildDiag(rt, cmd, s.err)
	if err != nil {
		return nil, err
	}
	rt.diag = diag

	console, cleanup, err := xlog.New().
		SetOutput(s.out).
		SetLevel(xlog.LevelDebug).
		Build()
	if err != nil {
		return nil, err
	}
	rt.closer = append(rt.closer, cleanup)

	fsys, err := xfile.NewOS(cfg.Root)
	if err != nil {
		return nil, &usageError{msg: fmt.Sprintf("无效的日志根目录 %q: %v", cfg.Root, err)}
	}

	store, err := openStore(ctx, rt, cmd, fsys)
	if err != nil {
		return nil, err
	}

	recorder, err := xmetrics.NewOTelRecorder(xmetrics.WithInstrumentationName("xlogctl"))
	if err != nil {
		return nil, err
	}

	sink, err := xsink.New(cfg,
		xsink.WithFS(fsys),
		xsink.WithStore(store),
		xsink.WithConsole(console),
		xsink.WithDiagnostics(diag),
		xsink.WithRecorder(recorder),
		xsink.WithNotifier(stderrNotifier(s.err)),
	)
	if err != nil {
		return nil, err
	}
	rt.sink = sink
	rt.root = cfg.Root
	ok = true
	return rt, nil
}

// loadConfig 读取配置文件，--root 优先于文件中的 root。
func loadConfig(rt *session, cmd *cli.Command) (xsink.Config, error) {
	cfg := xsink.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		conf, err := xconf.New(path)
		if err != nil {
			return cfg, err
		}
		rt.conf = conf
		if cfg, err = xsink.LoadConfig(conf, ""); err != nil {
			return cfg, err
		}
	}
	if root := cmd.String("root"); root != "" {
		cfg.Root = root
	}
	return cfg, nil
}

// buildDiag 创建诊断日志：指定 --diag-file 时写入按大小切割的文件，否则写 stderr。
func buildDiag(rt *session, cmd *cli.Command, stderr io.Writer) (xlog.Logger, error) {
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(cmd.String("diag-level"))
	if file := cmd.String("diag-file"); file != "" {
		b.SetRotation(file, diagPolicy)
	}
	l, cleanup, err := b.Build()
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	rt.closer = append(rt.closer, cleanup)
	return l, nil
}

// openStore 按 --store 创建轮转状态存储。
func openStore(ctx context.Context, rt *session, cmd *cli.Command, fsys *xfile.FS) (xstate.Store, error) {
	switch kind := cmd.String("store"); kind {
	case storeMemory:
		return xstate.NewMemory(), nil

	case storeFile:
		return xstate.NewFile(fsys, "")

	case storeRedis:
		client := redis.NewClient(&redis.Options{Addr: cmd.String("redis-addr")})
		rt.closer = append(rt.closer, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("连接 Redis 失败: %w", err)
		}
		return xstate.NewRedis(client)

	case storeEtcd:
		client, err := xstate.DialEtcd(cmd.StringSlice("etcd-endpoints"), cmd.Duration("etcd-dial-timeout"))
		if err != nil {
			return nil, fmt.Errorf("连接 etcd 失败: %w", err)
		}
		rt.closer = append(rt.closer, client.Close)
		return xstate.NewEtcd(client)

	default:
		return nil, &usageError{msg: fmt.Sprintf("未知的状态存储 %q（可选: memory, file, redis, etcd）", kind)}
	}
}

// stderrNotifier 将实时提醒输出到 stderr
func stderrNotifier(w io.Writer) xsink.Notifier {
	return xsink.NotifierFunc(func(_ context.Context, msg string) error {
		_, err := fmt.Fprintf(w, "[提醒] %s\n", msg)
		return err
	})
}

// cronLogger 将 cron 内部日志转到诊断日志
type cronLogger struct {
	l xlog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(context.Background(), "cron: "+msg, kvAttrs(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(context.Background(), "cron: "+msg, append(kvAttrs(keysAndValues), xlog.Err(err))...)
}

func kvAttrs(kv []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, slog.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	if len(kv)%2 == 1 {
		attrs = append(attrs, slog.Any("!BADKEY", kv[len(kv)-1]))
	}
	return attrs
}
