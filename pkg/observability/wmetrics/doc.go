// Package wmetrics 提供写入引擎的指标观测抽象。
//
// Recorder 定义引擎内部事件的记录接口：写入完成（含耗时与结果）、
// 重试、轮转、放弃写入。引擎各组件只依赖接口，默认空实现零开销；
// 需要接入监控时注入 [NewOTelRecorder] 创建的 OpenTelemetry 实现。
//
// # 指标清单（OTel 实现）
//
//   - wkit.writer.writes (counter): 写入尝试总数，按 outcome 维度区分成败
//   - wkit.writer.retries (counter): 重试次数
//   - wkit.writer.rotations (counter): 轮转次数
//   - wkit.writer.drops (counter): 重试耗尽后放弃的写入数
//   - wkit.writer.write_duration (histogram, 秒): 单文件写入耗时
//
// 指标不携带文件路径维度：路径基数由部署方控制，默认不进指标标签，
// 避免高基数标签压垮后端；路径信息走诊断日志。
package wmetrics
