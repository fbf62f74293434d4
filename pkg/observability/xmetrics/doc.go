// Package xmetrics 为 xlogkit 提供运行指标。
//
// [Recorder] 定义日志写入、失败、轮转与清理四类计数；
// [NewOTelRecorder] 基于 OpenTelemetry Metrics 实现，[Noop] 丢弃所有记录。
//
// 指标名：
//
//	xlogkit.sink.emits     按 level 统计 Emit 调用
//	xlogkit.sink.errors    按 op 统计被吞掉的失败
//	xlogkit.rotate.cycles  完整轮转周期数
//	xlogkit.rotate.swept   被清理的备份文件数
package xmetrics
