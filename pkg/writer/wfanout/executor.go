package wfanout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/omeyang/wkit/pkg/observability/wmetrics"
	"github.com/omeyang/wkit/pkg/observability/wrotate"
	"github.com/omeyang/wkit/pkg/resilience/wretry"
	"github.com/omeyang/wkit/pkg/util/wkeylock"
)

// defaultMaxWorkers 限制 worker 池规模：目标路径数与该值取小。
const defaultMaxWorkers = 4

type task struct {
	ctx     context.Context
	path    string
	payload []byte
	batch   *sync.WaitGroup
}

// Executor 常驻有界 worker 池，将批次内容阻塞式分发到所有目标路径。
type Executor struct {
	paths   []string
	workers int

	rotator  *wrotate.Rotator
	writer   *wretry.FileWriter
	locks    *wkeylock.PathLock
	logger   *slog.Logger
	recorder wmetrics.Recorder

	mu    sync.Mutex
	state State
	queue chan task
	wg    sync.WaitGroup
}

// Option 定义 Executor 的配置选项。
type Option func(*Executor)

// WithLogger 设置诊断日志的输出目标。
// 传入 nil 会被静默忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder 设置指标记录器。
// 传入 nil 会被静默忽略。
func WithRecorder(r wmetrics.Recorder) Option {
	return func(e *Executor) {
		if r != nil {
			e.recorder = r
		}
	}
}

// NewExecutor 创建分发执行器。
//
// worker 数量取 min(len(paths), 4)，至少为 1。池不在此处启动，
// 首次 WriteBatch 时惰性拉起。
func NewExecutor(
	paths []string,
	rotator *wrotate.Rotator,
	writer *wretry.FileWriter,
	locks *wkeylock.PathLock,
	opts ...Option,
) (*Executor, error) {
	if len(paths) == 0 {
		return nil, ErrNoTargets
	}

	workers := len(paths)
	if workers > defaultMaxWorkers {
		workers = defaultMaxWorkers
	}

	e := &Executor{
		paths:    paths,
		workers:  workers,
		rotator:  rotator,
		writer:   writer,
		locks:    locks,
		logger:   slog.Default(),
		recorder: wmetrics.Noop(),
		state:    StateUninitialized,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// State 返回当前生命周期状态。
func (e *Executor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Workers 返回 worker 池规模。
func (e *Executor) Workers() int {
	return e.workers
}

// Targets 返回目标路径的副本。
func (e *Executor) Targets() []string {
	out := make([]string, len(e.paths))
	copy(out, e.paths)
	return out
}

// WriteBatch 将 payload 分发到每个目标路径，阻塞直到整批完成。
//
// 单路径失败不影响其余路径，错误进入日志与指标而非返回值。
// 处于 SHUTDOWN 状态时快速失败返回 [ErrShutdown]。空 payload 为空操作。
func (e *Executor) WriteBatch(ctx context.Context, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var batch sync.WaitGroup

	e.mu.Lock()
	if e.state == StateShutdown {
		e.mu.Unlock()
		return ErrShutdown
	}
	if e.state == StateUninitialized {
		e.startLocked()
	}
	// 入队期间持有锁，避免与 ForceShutdown 关闭队列竞争
	for _, path := range e.paths {
		batch.Add(1)
		e.queue <- task{ctx: ctx, path: path, payload: payload, batch: &batch}
	}
	e.mu.Unlock()

	batch.Wait()
	return nil
}

// startLocked 启动 worker 池，调用方必须持有 e.mu。
func (e *Executor) startLocked() {
	// 队列容量覆盖一个完整批次，入队通常不阻塞
	e.queue = make(chan task, len(e.paths))
	e.state = StateActive
	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.worker(e.queue)
	}
	e.logger.Debug("fanout pool started",
		"workers", e.workers,
		"targets", len(e.paths),
	)
}

// worker 从队列读取任务直到队列关闭，保证排队中的任务在关闭时仍被处理。
// 队列以参数传入：Resume 会换新队列，worker 只消费自己那一代。
func (e *Executor) worker(queue chan task) {
	defer e.wg.Done()
	for t := range queue {
		e.run(t)
	}
}

// run 执行单个写任务，panic 不得拖垮 worker 或悬挂整批等待。
func (e *Executor) run(t task) {
	defer t.batch.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("fanout task panic recovered", "path", t.path, "panic", r)
		}
	}()
	e.writeTarget(t.ctx, t.path, t.payload)
}

// writeTarget 是同步与异步形态共用的任务体：
// 路径锁 → 按需轮转 → 带重试写入 → 指标。
func (e *Executor) writeTarget(ctx context.Context, path string, payload []byte) {
	unlock := e.locks.Lock(path)
	defer unlock()

	start := time.Now()

	rotated, err := e.rotator.MaybeRotate(path, int64(len(payload)))
	switch {
	case err != nil:
		// 轮转失败不拦截写入，内容仍按未轮转写出
		e.logger.Warn("rotation failed, writing unrotated",
			"path", path,
			"error", err,
		)
	case rotated:
		e.recorder.RotationPerformed(ctx)
	}

	if err := e.writer.Write(ctx, path, payload); err != nil {
		e.logger.Error("file write failed, batch dropped for path",
			"path", path,
			"bytes", len(payload),
			"error", err,
		)
		e.recorder.WriteDropped(ctx)
		e.recorder.WriteCompleted(ctx, wmetrics.OutcomeError, time.Since(start))
		return
	}
	e.recorder.WriteCompleted(ctx, wmetrics.OutcomeOK, time.Since(start))
}

// ForceShutdown 停止接受新批次。
//
// wait 为 true 时阻塞到在途任务全部完成；为 false 时立即返回，
// 在途任务在后台收尾。对已停止的执行器重复调用为空操作。
func (e *Executor) ForceShutdown(wait bool) {
	e.mu.Lock()
	if e.state == StateShutdown {
		e.mu.Unlock()
		return
	}
	prev := e.state
	e.state = StateShutdown
	if prev == StateActive {
		close(e.queue)
	}
	e.mu.Unlock()

	if wait && prev == StateActive {
		e.wg.Wait()
	}
}

// Resume 重新启动 worker 池并回到 ACTIVE 状态。
// 已处于 ACTIVE 时为空操作。
func (e *Executor) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateActive {
		return
	}
	e.startLocked()
}

// checkAccepting 在接受新批次前检查状态，供 Scheduler 复用。
func (e *Executor) checkAccepting() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateShutdown {
		return ErrShutdown
	}
	return nil
}
