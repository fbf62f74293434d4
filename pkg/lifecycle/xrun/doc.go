// Package xrun 提供基于 errgroup + context 的进程生命周期管理。
//
// 多个长期运行的任务（stdin 读取、定时清理、配置监听）放进同一个 Group：
// 任一任务返回错误、调用 Cancel 或收到终止信号时，其余任务都会收到取消信号，
// Wait 在全部退出后返回第一个有意义的错误。
//
//	g, ctx := xrun.NewGroup(ctx, xrun.WithName("serve"), xrun.WithLogger(diag))
//	g.GoWithName("sweep", func(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	})
//	g.GoWithName("stdin", func(ctx context.Context) error {
//	    defer g.Cancel(nil)
//	    return pump(ctx)
//	})
//	err := g.Wait()
//
// Run 在此基础上自动注册信号监听，收到信号时返回 *SignalError，
// 可用 errors.Is(err, xrun.ErrSignal) 判断。
package xrun
