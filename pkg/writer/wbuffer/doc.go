// Package wbuffer 提供写入引擎的消息累积缓冲区。
//
// Buffer 在内存中按到达顺序累积消息字节（每条消息后跟一个换行
// 记录分隔符），并跟踪累积大小：
//
//   - Append: 追加一条消息；达到阈值时原地排空并返回待写负载
//   - Drain: 原子地取出并清空全部累积内容
//
// 阈值语义：max > 0 时，Append 在累积大小达到 max 后立即排空，
// 触发排空的那条消息包含在返回的负载中；max == 0 时不缓冲，
// 每次 Append 直接返回该条消息的负载。
//
// # 并发
//
// 追加与排空互斥：单个 sync.Mutex 覆盖全部状态变更，保证任意一条
// 消息完整地落入恰好一个排空批次，不丢失、不重复、不拆分。
// 纯内存操作，无错误路径。
package wbuffer
