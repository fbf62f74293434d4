// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 基于 afero 的文件系统原语，路径限定在根目录内
//   - xdate: 按 yyyyMMddHHmm 风格的模式格式化时间
package util
