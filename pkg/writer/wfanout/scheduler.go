package wfanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Scheduler 是分发的非阻塞形态：每批次临时拉起受限数量的
// goroutine，不占用常驻 worker。与创建它的 Executor 共享目标
// 路径、任务体和生命周期状态。
type Scheduler struct {
	exec *Executor
}

// NewScheduler 基于已有执行器创建协作式调度器。
func NewScheduler(exec *Executor) *Scheduler {
	return &Scheduler{exec: exec}
}

// WriteBatch 将 payload 分发到每个目标路径并等待整批完成。
//
// 并发度与 Executor 的 worker 数一致。单路径失败进入日志与指标，
// 不会中止其余路径。ctx 取消会停止派发尚未开始的路径，但已在途
// 的写入会完成。SHUTDOWN 状态下返回 [ErrShutdown]。
func (s *Scheduler) WriteBatch(ctx context.Context, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.exec.checkAccepting(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.exec.workers)

	for _, path := range s.exec.paths {
		if gctx.Err() != nil {
			break
		}
		path := path
		g.Go(func() error {
			// 任务永远返回 nil：路径间互不影响，失败走日志与指标
			s.exec.writeTarget(gctx, path, payload)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
