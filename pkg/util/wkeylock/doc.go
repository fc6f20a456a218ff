// Package wkeylock 提供按 key 细粒度互斥的路径锁。
//
// 写入引擎对同一目标文件的轮转检查和写入必须串行执行，
// 不同文件之间则应完全并行。PathLock 按 key（文件路径）提供互斥：
//
//	kl := wkeylock.New()
//	unlock := kl.Lock("/var/log/app.log")
//	defer unlock()
//
// # 实现
//
// 内部按 xxhash 将 key 散列到固定数量的分片，每个分片持有独立的
// 互斥量表。锁条目按需创建后常驻——写入引擎的 key 集合就是配置的
// 目标路径集合，数量小且稳定，不需要回收。
//
// 所有方法并发安全。
package wkeylock
