// Package wfile 提供目标日志文件路径的净化与父目录创建工具。
//
// 写入引擎的所有磁盘路径都先经过本包处理：
//
//   - SanitizePath: 规范化路径格式，拒绝空路径、空字节和相对路径穿越
//   - EnsureDir: 在首次写入前创建目标文件的父目录（默认权限 0750）
//
// # 路径穿越检测
//
// 只有 ".." 作为独立路径段时才被视为穿越；以 ".." 开头的合法文件名
// （如 "..archive.log"）不会被误判。
//
// # 空字节防护
//
// Linux 内核在 VFS 层会在空字节处截断路径，导致 Go 代码与操作系统
// 实际操作的路径不一致，因此包含 \x00 的路径一律拒绝。
//
// # 错误处理
//
// 预定义错误变量支持 [errors.Is] 判断：
//
//	_, err := wfile.SanitizePath("../etc/passwd")
//	if errors.Is(err, wfile.ErrPathTraversal) {
//	    // 处理路径穿越
//	}
package wfile
