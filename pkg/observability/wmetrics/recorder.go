package wmetrics

import (
	"context"
	"time"
)

// Outcome 表示一次写入的结果。
type Outcome string

const (
	// OutcomeOK 表示写入成功。
	OutcomeOK Outcome = "ok"
	// OutcomeError 表示写入失败。
	OutcomeError Outcome = "error"
)

// Recorder 记录写入引擎的内部事件。
//
// 所有方法必须对并发调用安全，且不得阻塞调用方：
// 引擎在写入热路径上调用 Recorder，实现方需自行异步化昂贵操作。
type Recorder interface {
	// WriteCompleted 记录一次写入尝试的最终结果（重试耗尽后算一次）。
	WriteCompleted(ctx context.Context, outcome Outcome, elapsed time.Duration)

	// RetryAttempted 记录一次写入重试。
	RetryAttempted(ctx context.Context)

	// RotationPerformed 记录一次文件轮转。
	RotationPerformed(ctx context.Context)

	// WriteDropped 记录一次重试耗尽后被放弃的写入。
	WriteDropped(ctx context.Context)
}

// Noop 返回丢弃所有事件的 Recorder，作为未配置监控时的默认实现。
func Noop() Recorder {
	return noopRecorder{}
}

type noopRecorder struct{}

func (noopRecorder) WriteCompleted(context.Context, Outcome, time.Duration) {}
func (noopRecorder) RetryAttempted(context.Context)                        {}
func (noopRecorder) RotationPerformed(context.Context)                     {}
func (noopRecorder) WriteDropped(context.Context)                          {}
