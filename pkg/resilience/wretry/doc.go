// Package wretry 提供带重试的文件写入器。
//
// FileWriter 按路径缓存打开的文件句柄，写入失败时依照配置的
// 重试策略（次数、基础延迟、退避因子）自动重试。每次失败尝试
// 都会关闭并丢弃缓存句柄，下次尝试重新打开，以摆脱句柄级的
// 瞬时故障（被外部删除、磁盘重挂载等）。
//
// 退避公式为 delay * (1+factor)^(n-1)：第一次重试等待基础延迟，
// 之后逐次放大。权限类错误视为不可恢复，立即终止重试。
//
// FileWriter 对并发调用安全，但不做路径级的写入排序；
// 需要保证同一文件串行写入时由调用方配合 wkeylock 使用。
package wretry
