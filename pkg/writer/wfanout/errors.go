package wfanout

import "errors"

var (
	// ErrShutdown 表示执行器处于 SHUTDOWN 状态，拒绝新的写入批次。
	// 调用方应先 Resume 再重试。
	ErrShutdown = errors.New("wfanout: executor is shut down")

	// ErrNoTargets 表示没有配置任何目标文件路径。
	ErrNoTargets = errors.New("wfanout: no target paths")
)
