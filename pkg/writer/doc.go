// Package writer 提供多目标文件写入引擎的子包。
//
// 子包列表：
//   - wbuffer: 互斥保护的累积缓冲区，阈值触发排空
//   - wfanout: 批次到多路径的并发分发，阻塞与协作式两种形态
//   - whandler: 组合缓冲、轮转、重试与分发的门面
//
// 数据流：调用方 → whandler.Log/AsyncLog → wbuffer 累积 →
// （达到阈值或显式冲刷）→ wfanout 分发 → 每路径 wrotate 检查 +
// wretry 写入。
package writer
