package whandler

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/omeyang/wkit/pkg/config/wconf"
	"github.com/omeyang/wkit/pkg/observability/wmetrics"
	"github.com/omeyang/wkit/pkg/observability/wrotate"
	"github.com/omeyang/wkit/pkg/resilience/wretry"
	"github.com/omeyang/wkit/pkg/util/wkeylock"
	"github.com/omeyang/wkit/pkg/writer/wbuffer"
	"github.com/omeyang/wkit/pkg/writer/wfanout"
)

// FileHandler 多目标文件写入门面。
//
// 并发安全：Log/AsyncLog/各类 flush 可与配置替换并发调用，
// 配置替换期间的写入会等待替换完成后在新配置下执行。
type FileHandler struct {
	logger   *slog.Logger
	recorder wmetrics.Recorder

	// mu 保护配置代际：读路径共享持有，配置替换独占持有
	mu       sync.RWMutex
	settings wconf.Settings
	buf      *wbuffer.Buffer
	writer   *wretry.FileWriter
	rotator  *wrotate.Rotator
	locks    *wkeylock.PathLock
	exec     *wfanout.Executor
	sched    *wfanout.Scheduler
}

// Option 定义 FileHandler 的配置选项。
type Option func(*FileHandler)

// WithLogger 设置诊断日志的输出目标。
// 传入 nil 会被静默忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(h *FileHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRecorder 设置指标记录器。
// 传入 nil 会被静默忽略。
func WithRecorder(r wmetrics.Recorder) Option {
	return func(h *FileHandler) {
		if r != nil {
			h.recorder = r
		}
	}
}

// New 创建文件写入门面。settings 未通过校验时返回错误。
func New(settings wconf.Settings, opts ...Option) (*FileHandler, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	h := &FileHandler{
		logger:   slog.Default(),
		recorder: wmetrics.Noop(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if err := h.rebuildLocked(settings); err != nil {
		return nil, err
	}
	return h, nil
}

// rebuildLocked 按 settings 重建全部内部组件，调用方必须独占持有 h.mu
// （或处于构造期）。
func (h *FileHandler) rebuildLocked(settings wconf.Settings) error {
	writer := wretry.NewFileWriter(settings,
		wretry.WithLogger(h.logger),
		wretry.WithRecorder(h.recorder),
	)
	rotator := wrotate.New(settings.MaxFileSize, settings.MaxRotation,
		wrotate.WithLogger(h.logger),
		// 轮转重命名前丢弃缓存句柄，避免继续写入改名后的旧文件
		wrotate.WithOnRotate(writer.Invalidate),
	)
	locks := wkeylock.New()

	exec, err := wfanout.NewExecutor(settings.FilePaths, rotator, writer, locks,
		wfanout.WithLogger(h.logger),
		wfanout.WithRecorder(h.recorder),
	)
	if err != nil {
		return err
	}

	h.settings = settings.Clone()
	h.buf = wbuffer.New(settings.MaxBufferSize)
	h.writer = writer
	h.rotator = rotator
	h.locks = locks
	h.exec = exec
	h.sched = wfanout.NewScheduler(exec)
	return nil
}

// Log 追加一条消息；缓冲达到阈值（或未启用缓冲）时同步分发到
// 所有目标路径，阻塞到整批完成。
//
// 空或纯空白消息返回 [ErrEmptyMessage]。SHUTDOWN 状态下快速失败
// 返回 [wfanout.ErrShutdown]，消息不会进入缓冲。
func (h *FileHandler) Log(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return ErrEmptyMessage
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.exec.State() == wfanout.StateShutdown {
		return wfanout.ErrShutdown
	}
	payload := h.buf.Append(msg)
	if payload == nil {
		return nil
	}
	return h.exec.WriteBatch(context.Background(), payload)
}

// AsyncLog 与 Log 同语义，但触发的分发走协作式调度路径：
// 只挂起当前调用，不占用常驻 worker 池。
func (h *FileHandler) AsyncLog(ctx context.Context, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return ErrEmptyMessage
	}
	if ctx == nil {
		ctx = context.Background()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.exec.State() == wfanout.StateShutdown {
		return wfanout.ErrShutdown
	}
	payload := h.buf.Append(msg)
	if payload == nil {
		return nil
	}
	return h.sched.WriteBatch(ctx, payload)
}

// BufferForceFlush 将缓冲内容立即分发，即使未达到阈值。
// 缓冲为空时为空操作，不产生任何文件写入。
func (h *FileHandler) BufferForceFlush() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.flushBufferLocked()
}

func (h *FileHandler) flushBufferLocked() error {
	payload := h.buf.Drain()
	if payload == nil {
		return nil
	}
	return h.exec.WriteBatch(context.Background(), payload)
}

// WriterForceFlush 对所有已打开的目标文件执行系统级刷盘，
// 不触碰缓冲内容。
func (h *FileHandler) WriterForceFlush() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.writer.FlushAll()
}

// ClearAll 冲刷缓冲、刷盘、停止 worker 池并关闭所有缓存句柄。
//
// 完成后处于 SHUTDOWN 状态：Log 返回 [wfanout.ErrShutdown]，
// 直到 ResumePool 或任一配置操作。重复调用为空操作。
func (h *FileHandler) ClearAll() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clearAllLocked()
}

func (h *FileHandler) clearAllLocked() error {
	// 停机状态下仍有缓冲内容时先恢复池，保证内容落盘而非丢弃
	if h.buf.Len() > 0 && h.exec.State() == wfanout.StateShutdown {
		h.exec.Resume()
	}
	var errs []error
	if err := h.flushBufferLocked(); err != nil {
		errs = append(errs, err)
	}
	if err := h.writer.FlushAll(); err != nil {
		errs = append(errs, err)
	}
	h.exec.ForceShutdown(true)
	if err := h.writer.CloseAll(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ForceShutdown 停止接受新的写入批次。
// wait 为 true 时阻塞到在途写入完成。缓冲内容保留，Resume 后仍可冲刷。
func (h *FileHandler) ForceShutdown(wait bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.exec.ForceShutdown(wait)
}

// ResumePool 重新启动 worker 池。已处于 ACTIVE 时为空操作。
func (h *FileHandler) ResumePool() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.exec.Resume()
}

// Reset 将配置恢复为默认值并替换目标路径。
// 其余字段（写入模式、重试、轮转、缓冲）全部回到默认。
func (h *FileHandler) Reset(paths []string) error {
	s := wconf.Default()
	s.FilePaths = paths
	return h.Config(s)
}

// Config 原子替换整套配置。
//
// 新配置未通过校验时原配置保持不变。替换前先在旧配置下冲刷
// 缓冲与句柄，再停机、关闭句柄并按新配置重建组件；替换后
// 处于可写状态（首次写入时惰性启动新池）。
func (h *FileHandler) Config(settings wconf.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// 旧配置下的缓冲内容必须先落盘，避免按新路径误投
	if h.exec.State() == wfanout.StateShutdown {
		h.exec.Resume()
	}
	var errs []error
	if err := h.flushBufferLocked(); err != nil {
		errs = append(errs, err)
	}
	if err := h.writer.FlushAll(); err != nil {
		errs = append(errs, err)
	}
	h.exec.ForceShutdown(true)
	if err := h.writer.CloseAll(); err != nil {
		errs = append(errs, err)
	}

	if err := h.rebuildLocked(settings); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ConfigMap 以键值映射形式替换配置，未出现的键保持默认值。
func (h *FileHandler) ConfigMap(m map[string]any) error {
	s, err := wconf.FromMap(m)
	if err != nil {
		return err
	}
	return h.Config(s)
}

// ConfigJSON 以 JSON 文本形式替换配置，未出现的键保持默认值。
func (h *FileHandler) ConfigJSON(data []byte) error {
	s, err := wconf.FromJSON(data)
	if err != nil {
		return err
	}
	return h.Config(s)
}

// ConfigYAML 以 YAML 文本形式替换配置，未出现的键保持默认值。
func (h *FileHandler) ConfigYAML(data []byte) error {
	s, err := wconf.FromYAML(data)
	if err != nil {
		return err
	}
	return h.Config(s)
}

// Close 等价于 ClearAll，满足 io.Closer。幂等。
func (h *FileHandler) Close() error {
	return h.ClearAll()
}

// Shutdown 是 Close 的异步形态：缓冲冲刷走协作式调度路径并尊重
// ctx 取消，随后刷盘、停机、关闭句柄。
func (h *FileHandler) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.buf.Len() > 0 && h.exec.State() == wfanout.StateShutdown {
		h.exec.Resume()
	}
	var errs []error
	if payload := h.buf.Drain(); payload != nil {
		if err := h.sched.WriteBatch(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	if err := h.writer.FlushAll(); err != nil {
		errs = append(errs, err)
	}
	h.exec.ForceShutdown(true)
	if err := h.writer.CloseAll(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WatchConfig 监听配置文件变化并热加载。
//
// 文件每次有效变更都会经 Config 原子生效；解析或校验失败的
// 变更记入日志并保留当前配置。返回的 stop 用于停止监听。
func (h *FileHandler) WatchConfig(path string) (stop func() error, err error) {
	w, err := wconf.Watch(path, func(s wconf.Settings, err error) {
		if err != nil {
			h.logger.Warn("config reload failed, keeping current settings",
				"path", path,
				"error", err,
			)
			return
		}
		if err := h.Config(s); err != nil {
			h.logger.Warn("config reload rejected",
				"path", path,
				"error", err,
			)
			return
		}
		h.logger.Debug("settings reloaded", "path", path)
	})
	if err != nil {
		return nil, err
	}
	w.StartAsync()
	return w.Stop, nil
}

// Settings 返回当前配置的副本。
func (h *FileHandler) Settings() wconf.Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.settings.Clone()
}

// Targets 返回当前目标路径的副本。
func (h *FileHandler) Targets() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.settings.FilePaths))
	copy(out, h.settings.FilePaths)
	return out
}

// BufferLen 返回当前缓冲的字节数。
func (h *FileHandler) BufferLen() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.buf.Len()
}

// State 返回底层执行器的生命周期状态。
func (h *FileHandler) State() wfanout.State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.exec.State()
}
