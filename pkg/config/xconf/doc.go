// Package xconf 基于 koanf 的配置加载器。
//
// 负责 YAML/JSON 文件或字节数据的加载、反序列化与热重载，
// 不负责字段校验与默认值注入，这些由使用方（如 xsink.LoadConfig）完成。
//
// # 并发
//
// Reload 串行执行，解析成功后原子替换 koanf 实例；解析失败保留旧配置。
// Client 返回的是快照，Reload 后仍可用但内容过期，需要时重新调用 Client。
//
// # 监视
//
// [Watch] 基于 fsnotify 监视配置文件所在目录，带防抖。[Watcher.Run] 阻塞到 ctx 取消，
// 可直接交给 xrun.Group 托管。
// 从字节数据创建的 Config 不支持重载与监视，返回 [ErrNotReloadable]。
package xconf
