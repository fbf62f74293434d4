// Package xfile 提供日志目录下的文件系统原语。
//
// 所有操作都通过 [FS] 进行，FS 包装一个 afero.Fs，并把路径限制在同一个
// 根目录之内：
//
//   - 生产环境：[NewOS] 以 afero.BasePathFs 将根目录映射为 "/"
//   - 测试环境：[New] 传入 afero.NewMemMapFs()，或用 afero.NewReadOnlyFs 注入写失败
//
// # 原语
//
// Exists、EnsureDir、Move、WriteFile、Append、ListDir、Remove、ReadFile。
// 每个原语要么成功，要么返回包装了 [ErrFileIO] 的错误，调用方据此决定
// 降级策略（日志子系统一律降级为诊断信息，不向业务方抛出）。
//
// # 路径约束
//
// 传入的路径一律是相对根目录的路径。[Clean] 负责规范化并拒绝：
//
//   - 空路径、包含空字节的路径
//   - 含有 ".." 路径段的路径（"app..2024.log" 这类文件名不受影响）
//   - 绝对路径和 Windows 驱动器路径
//
// # 错误处理
//
//	if err := fsys.Append("logs/log.log", line); errors.Is(err, xfile.ErrFileIO) {
//	    // 写入失败，已包含操作名和路径
//	}
package xfile
