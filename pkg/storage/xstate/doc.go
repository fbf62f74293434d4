// Package xstate 提供轮转状态的键值存储。
//
// 日志轮转需要在进程重启后记住"上一次轮转的小时桶"，xstate 把这一需求
// 抽象为最小化的 [Store] 接口（Get/Put），并提供四种实现：
//
//   - [NewMemory]: 进程内存，适用于测试和单次运行的工具
//   - [NewFile]: 本地 JSON 文件（基于 afero），适用于单机部署
//   - [NewRedis]: 基于 go-redis 的 redis.UniversalClient
//   - [NewEtcd]: 基于 etcd clientv3 的 KV 接口
//
// # 设计约定
//
//   - 键不存在时 Get 返回 [ErrNotFound]，调用方用 errors.Is 判断
//   - 不提供事务或 CAS：轮转方只做"读-比较-写"，跨进程竞争由轮转方自行容忍
//   - Redis/Etcd 实现不持有客户端生命周期，客户端由调用方创建和关闭
package xstate
