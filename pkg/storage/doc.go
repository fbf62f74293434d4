// Package storage 提供数据存储相关的子包。
//
// 子包列表：
//   - xstate: 轮转状态的键值存储，支持内存、JSON 文件、Redis、etcd
package storage
