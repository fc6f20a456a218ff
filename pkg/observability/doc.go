// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - wrotate: 按大小触发的数字后缀文件轮转
//   - wmetrics: 写入引擎指标抽象，OpenTelemetry 实现
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 默认零开销：未注入实现时全部为空操作
package observability
