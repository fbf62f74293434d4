package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xlogkit/pkg/config/xconf"
	"github.com/omeyang/xlogkit/pkg/lifecycle/xrun"
	"github.com/omeyang/xlogkit/pkg/observability/xlog"
	"github.com/omeyang/xlogkit/pkg/observability/xsink"
)

// exitError 表示需要非零退出码但已完成输出的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// 创建所有子命令。
func createCommands(s *streams) []*cli.Command {
	return []*cli.Command{
		createEmitCommand(s),
		createRotateCommand(s),
		createSweepCommand(s),
		createServeCommand(s),
	}
}

// withSession 打开 session 执行 fn，结束后释放资源。
//
// fn 执行期间有日志写入失败时返回退出码 1。
func withSession(ctx context.Context, cmd *cli.Command, s *streams, fn func(*session) error) error {
	sess, err := openSession(ctx, cmd, s)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }() //nolint:errcheck // defer cleanup

	if err := fn(sess); err != nil {
		return err
	}
	if n := sess.sink.ErrorCount(); n > 0 {
		fmt.Fprintf(s.err, "日志写入有 %d 处失败，详见诊断日志\n", n)
		return &exitError{code: 1}
	}
	return nil
}

// createEmitCommand 创建 emit 子命令。
func createEmitCommand(s *streams) *cli.Command {
	return &cli.Command{
		Name:      "emit",
		Aliases:   []string{"e"},
		Usage:     "按级别输出一条日志",
		ArgsUsage: "<template> [args...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "日志级别 (debug/log/info/warn/error)",
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:    "notify",
				Aliases: []string{"n"},
				Usage:   "同时推送实时提醒",
			},
		},
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level, err := xsink.ParseLevel(cmd.String("level"))
			if err != nil {
				return &usageError{msg: err.Error()}
			}
			payload, err := emitPayload(cmd.Args().Slice())
			if err != nil {
				return err
			}
			return withSession(ctx, cmd, s, func(sess *session) error {
				sess.sink.Emit(ctx, level, payload, cmd.Bool("notify"))
				return nil
			})
		},
	}
}

// emitPayload 将命令行参数转为日志内容：单个参数原样输出，多个参数按模板渲染。
func emitPayload(args []string) (any, error) {
	switch len(args) {
	case 0:
		return nil, &usageError{msg: "emit 命令需要指定日志内容"}
	case 1:
		return args[0], nil
	default:
		rest := make([]any, len(args)-1)
		for i, a := range args[1:] {
			rest[i] = a
		}
		return xsink.M(args[0], rest...), nil
	}
}

// createRotateCommand 创建 rotate 子命令。
func createRotateCommand(s *streams) *cli.Command {
	return &cli.Command{
		Name:         "rotate",
		Usage:        "立即轮转全部日志文件并清理过期备份",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(ctx, cmd, s, func(sess *session) error {
				sess.sink.ClearAllLogFiles(ctx)
				layout := sess.sink.Layout()
				fmt.Fprintf(s.out, "已轮转 %d 个日志文件，备份目录: %s\n", len(layout.Files), layout.BackupDir)
				return nil
			})
		},
	}
}

// createSweepCommand 创建 sweep 子命令。
func createSweepCommand(s *streams) *cli.Command {
	return &cli.Command{
		Name:         "sweep",
		Usage:        "清理过期与无法识别的备份，打印被删除的文件名",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withSession(ctx, cmd, s, func(sess *session) error {
				for _, name := range sess.sink.SweepOldBackups(ctx) {
					fmt.Fprintln(s.out, name)
				}
				return nil
			})
		},
	}
}

// createServeCommand 创建 serve 子命令。
func createServeCommand(s *streams) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "逐行读取 stdin 输出日志，直到 EOF 或收到中断信号",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "每行日志的级别",
				Value:   "log",
			},
			&cli.BoolFlag{
				Name:    "notify",
				Aliases: []string{"n"},
				Usage:   "每行同时推送实时提醒",
			},
			&cli.StringFlag{
				Name:  "sweep-cron",
				Usage: "定时清理过期备份的 cron 表达式，为空时不启用",
				Value: "@hourly",
			},
			&cli.DurationFlag{
				Name:  "reload-debounce",
				Usage: "配置文件变更的防抖间隔",
				Value: xconf.DefaultDebounce,
			},
		},
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level, err := xsink.ParseLevel(cmd.String("level"))
			if err != nil {
				return &usageError{msg: err.Error()}
			}
			return withSession(ctx, cmd, s, func(sess *session) error {
				return cmdServe(ctx, sess, s, serveOptions{
					level:     level,
					notify:    cmd.Bool("notify"),
					sweepCron: cmd.String("sweep-cron"),
					debounce:  cmd.Duration("reload-debounce"),
				})
			})
		},
	}
}

type serveOptions struct {
	level     xsink.Level
	notify    bool
	sweepCron string
	debounce  time.Duration
}

// cmdServe 逐行输出 stdin，期间热加载配置并定时清理备份。
//
// stdin 读到 EOF 后停止全部后台任务并返回。
func cmdServe(ctx context.Context, sess *session, s *streams, opts serveOptions) error {
	g, _ := xrun.NewGroup(ctx, xrun.WithName("xlogctl-serve"), xrun.WithLogger(sess.diag))

	if opts.sweepCron != "" {
		logger := cronLogger{l: sess.diag}
		c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger)))
		if _, err := c.AddFunc(opts.sweepCron, func() { sess.sink.SweepOldBackups(g.Context()) }); err != nil {
			g.Cancel(nil)
			_ = g.Wait() //nolint:errcheck // 尚未启动任何任务
			return &usageError{msg: fmt.Sprintf("无效的 cron 表达式 %q: %v", opts.sweepCron, err)}
		}
		g.GoWithName("sweep-cron", func(ctx context.Context) error {
			c.Start()
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		})
	}

	if sess.conf != nil {
		w, err := xconf.Watch(sess.conf, reloadCallback(ctx, sess), xconf.WithDebounce(opts.debounce))
		if err != nil {
			g.Cancel(nil)
			_ = g.Wait() //nolint:errcheck // 只需等待已启动的任务退出
			return err
		}
		g.GoWithName("config-watch", w.Run)
	}

	g.GoWithName("stdin", func(ctx context.Context) error {
		defer g.Cancel(nil)
		return pumpLines(ctx, s.in, func(line string) {
			sess.sink.Emit(ctx, opts.level, line, opts.notify)
		})
	})

	return g.Wait()
}

// pumpLines 逐行读取 r 并回调非空行，直到 EOF 或 ctx 取消。
func pumpLines(ctx context.Context, r io.Reader, fn func(line string)) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if strings.TrimSpace(line) != "" {
				fn(line)
			}
		}
	}
}

// reloadCallback 配置文件变更后重新解析并替换 Sink 配置，root 保持不变。
func reloadCallback(ctx context.Context, sess *session) xconf.WatchCallback {
	return func(conf xconf.Config, err error) {
		if err != nil {
			sess.diag.Warn(ctx, "config reload failed", xlog.Err(err))
			return
		}
		cfg, err := xsink.LoadConfig(conf, "")
		if err != nil {
			sess.diag.Warn(ctx, "config reload failed", xlog.Err(err))
			return
		}
		sess.sink.SetConfig(cfg)
		sess.diag.Info(ctx, "config reloaded", slog.Uint64("version", conf.Version()))
	}
}
