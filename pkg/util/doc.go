// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - wfile: 文件路径清洗与父目录创建
//   - wkeylock: 基于 key 的进程内互斥锁，分片降低竞争
//
// 设计原则：
//   - 安全处理路径遍历和非法路径
//   - 跨平台兼容
package util
