// xlogctl 是 xlogkit 分级日志引擎的命令行工具。
//
// 用法:
//
//	xlogctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config          配置文件（yaml/json），键名同 xsink.Config
//	-r, --root            日志根目录，覆盖配置文件中的 root
//	--store               轮转状态存储：memory | file | redis | etcd (默认: file)
//	--redis-addr          Redis 地址 (默认: 127.0.0.1:6379)
//	--etcd-endpoints      etcd 端点列表 (默认: 127.0.0.1:2379)
//	--diag-file           诊断日志文件，按大小切割；为空时写 stderr
//	--diag-level          诊断日志级别 (默认: info)
//
// 命令:
//
//	emit <模板> [参数...]  按级别输出一条日志，"{}" 依次替换为参数
//	rotate                立即轮转全部日志文件
//	sweep                 清理过期备份，打印被删除的文件名
//	serve                 逐行读取 stdin 输出日志，配置文件变更时热加载，按 cron 定时清理
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（含日志写入失败）
//	2: 参数错误（未知命令、缺少参数、无效级别等）
//
// 示例:
//
//	xlogctl emit --level warn "磁盘剩余 {}%" 8
//	xlogctl --store redis --redis-addr 10.0.0.5:6379 emit -n "任务完成"
//	tail -F app.out | xlogctl -c xlogkit.yaml serve --level info --sweep-cron "@every 30m"
//	xlogctl -r /var/lib/app sweep
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run 执行命令并返回退出码。
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := createApp(&streams{in: stdin, out: stdout, err: stderr})

	err := app.Run(ctx, args)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	// 未知命令等由 cli 产生的 ExitCoder，消息已在 ExitErrHandler 中输出
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

// streams 命令使用的标准输入输出
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// createApp 创建 CLI 应用。
func createApp(s *streams) *cli.Command {
	return &cli.Command{
		Name:      "xlogctl",
		Usage:     "xlogkit 分级日志命令行工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Reader:    s.in,
		Writer:    s.out,
		ErrWriter: s.err,
		Flags:     globalFlags(),
		Commands:  createCommands(s),
		Authors: []any{
			"XLogKit Team",
		},
		OnUsageError: onUsageError,
		// 由 run() 统一映射退出码，禁止 cli 直接 os.Exit
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(s.err, err)
			}
		},
		Description: `xlogctl 将日志写入 <root>/logs 下的 verbose 日志与级别日志，
每个整点首次写入时把上一小时的日志移入 logs/logback 并清理过期备份。

配置文件示例 (yaml):
  saveLogFile: true
  show_debug_log: false
  logSavedDays: 3
  root: /var/lib/app`,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件路径（yaml/json）",
		},
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "日志根目录，覆盖配置文件",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "轮转状态存储：memory | file | redis | etcd",
			Value: storeFile,
		},
		&cli.StringFlag{
			Name:  "redis-addr",
			Usage: "Redis 地址",
			Value: "127.0.0.1:6379",
		},
		&cli.StringSliceFlag{
			Name:  "etcd-endpoints",
			Usage: "etcd 端点列表",
			Value: []string{"127.0.0.1:2379"},
		},
		&cli.DurationFlag{
			Name:  "etcd-dial-timeout",
			Usage: "etcd 连接超时",
			Value: defaultDialTimeout,
		},
		&cli.StringFlag{
			Name:  "diag-file",
			Usage: "诊断日志文件，按大小切割；为空时写 stderr",
		},
		&cli.StringFlag{
			Name:  "diag-level",
			Usage: "诊断日志级别 (debug/info/warn/error)",
			Value: "info",
		},
	}
}

// onUsageError 将 flag 解析错误转为 usageError，退出码 2
func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{msg: err.Error()}
}
