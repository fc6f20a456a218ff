// Package wfanout 将一批内容并发分发到所有配置的目标文件。
//
// Executor 是阻塞形态：常驻的有界 worker 池，首次写入时惰性启动，
// 每批次给每个路径派发一个写任务并等待整批完成。Scheduler 是
// 非阻塞形态：基于 errgroup 的协作式任务，每批次临时拉起受限的
// goroutine 执行同样的任务体。二者共享 Executor 的生命周期状态：
// SHUTDOWN 状态下的提交快速失败并返回 [ErrShutdown]。
//
// 单个路径的失败（轮转失败、重试耗尽）不会中止整批：失败路径的
// 内容被放弃并记入日志与指标，其余路径照常写入。同一路径通过
// wkeylock 串行化，两种形态并存时也不会出现同一文件的并发写。
//
// 生命周期: Uninitialized --首次写入--> Active --ForceShutdown-->
// Shutdown --Resume--> Active。Shutdown 不是终态，Resume 后对象
// 可继续使用。
package wfanout
