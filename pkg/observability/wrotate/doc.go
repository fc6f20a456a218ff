// Package wrotate 提供基于大小的编号后缀文件轮转。
//
// 与时间戳备份方案不同，本包维护的磁盘形态是目标文件加编号兄弟：
//
//	app.log  app.log.1  app.log.2  ...  app.log.N
//
// app.log.1 始终是最近一次被置换出的内容，编号越大越旧。轮转状态
// 完全由写入时的文件系统检查推导，不落任何索引或清单文件。
//
// # 轮转时机
//
// MaybeRotate 在每次批量写入前对每个文件评估一次：当
// 当前大小 + 待写大小 > 上限 时触发，即文件在超限前轮转而非超限后。
// max 文件大小为 0 时本包完全不介入；maxRotation 为 0 时编号无限
// 增长，从不删除旧轮转（maxRotation > 0 时超出保留数的最旧文件被删）。
//
// # 失败语义
//
// 轮转失败（如重命名权限不足）不是致命错误：调用方应将其上报
// 诊断日志后继续对原（未轮转的）文件写入，而不是放弃该批次。
//
// # 并发
//
// 本包不做跨调用互斥。同一路径的 MaybeRotate 与写入必须由调用方
// 串行化（写入引擎通过按路径互斥锁保证）。
package wrotate
