package wretry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/wkit/pkg/config/wconf"
	"github.com/omeyang/wkit/pkg/observability/wmetrics"
	"github.com/omeyang/wkit/pkg/util/wfile"
)

const filePerm = 0o644

// FileWriter 带句柄缓存与重试的文件写入器。
type FileWriter struct {
	mode          wconf.WriteMode
	retryLimit    int
	retryDelay    time.Duration
	backoffFactor float64
	flushOnWrite  bool

	logger   *slog.Logger
	recorder wmetrics.Recorder

	mu    sync.Mutex
	files map[string]*os.File
}

// Option 定义 FileWriter 的配置选项。
type Option func(*FileWriter)

// WithLogger 设置诊断日志的输出目标。
// 传入 nil 会被静默忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(w *FileWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithRecorder 设置指标记录器。
// 传入 nil 会被静默忽略。
func WithRecorder(r wmetrics.Recorder) Option {
	return func(w *FileWriter) {
		if r != nil {
			w.recorder = r
		}
	}
}

// NewFileWriter 按给定配置创建文件写入器。
//
// 重试相关的负值参数按零处理：重试次数为 0 表示只尝试一次，
// 延迟为 0 表示立即重试。
func NewFileWriter(settings wconf.Settings, opts ...Option) *FileWriter {
	retryLimit := settings.RetryLimit
	if retryLimit < 0 {
		retryLimit = 0
	}
	retryDelay := settings.RetryDelayDuration()
	if retryDelay < 0 {
		retryDelay = 0
	}
	backoffFactor := settings.BackoffFactor
	if backoffFactor < 0 {
		backoffFactor = 0
	}

	w := &FileWriter{
		mode:          settings.WriteMode,
		retryLimit:    retryLimit,
		retryDelay:    retryDelay,
		backoffFactor: backoffFactor,
		flushOnWrite:  settings.FlushOnWrite,
		logger:        slog.Default(),
		recorder:      wmetrics.Noop(),
		files:         make(map[string]*os.File),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write 将 payload 写入 path，失败时按配置重试。
//
// 每次失败的尝试都会丢弃该路径的缓存句柄，下次尝试重新打开。
// 权限错误不可恢复，立即返回。返回的是最后一次尝试的错误。
func (w *FileWriter) Write(ctx context.Context, path string, payload []byte) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	if !w.mode.Writable() {
		return fmt.Errorf("%w: %s", ErrNotWritable, w.mode)
	}

	return retry.New(
		retry.Context(ctx),
		retry.Attempts(uint(w.retryLimit)+1),
		retry.DelayType(w.backoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			// retry-go v5 的 OnRetry 回调 n 从 0 开始
			w.recorder.RetryAttempted(ctx)
			w.logger.Warn("file write retry",
				"path", path,
				"attempt", n+1,
				"error", err,
			)
		}),
	).Do(func() error {
		return w.writeOnce(path, payload)
	})
}

// backoffDelay 适配 retry-go v5 的 DelayType 回调，n 从 1 开始。
func (w *FileWriter) backoffDelay(n uint, _ error, _ retry.DelayContext) time.Duration {
	return w.backoff(n)
}

// backoff 计算第 n 次重试前的等待时间：delay * (1+factor)^(n-1)。
func (w *FileWriter) backoff(n uint) time.Duration {
	if w.retryDelay == 0 {
		return 0
	}
	scale := math.Pow(1+w.backoffFactor, float64(n-1))
	return time.Duration(float64(w.retryDelay) * scale)
}

func (w *FileWriter) writeOnce(path string, payload []byte) error {
	f, err := w.handle(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(payload); err != nil {
		w.Invalidate(path)
		return fmt.Errorf("wretry: write %s: %w", path, err)
	}
	if w.flushOnWrite {
		if err := f.Sync(); err != nil {
			w.Invalidate(path)
			return fmt.Errorf("wretry: sync %s: %w", path, err)
		}
	}
	return nil
}

// handle 返回 path 的缓存句柄，必要时创建父目录并打开文件。
func (w *FileWriter) handle(path string) (*os.File, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if f, ok := w.files[path]; ok {
		return f, nil
	}

	if err := wfile.EnsureDir(path); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}

	f, err := os.OpenFile(path, w.mode.OpenFlag(), filePerm)
	if err != nil {
		wrapped := fmt.Errorf("wretry: open %s: %w", path, err)
		if errors.Is(err, fs.ErrPermission) {
			return nil, retry.Unrecoverable(wrapped)
		}
		return nil, wrapped
	}

	w.files[path] = f
	return f, nil
}

// Invalidate 关闭并丢弃 path 的缓存句柄。
// 路径无缓存句柄时为空操作。
func (w *FileWriter) Invalidate(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if f, ok := w.files[path]; ok {
		if err := f.Close(); err != nil {
			w.logger.Debug("close cached handle failed", "path", path, "error", err)
		}
		delete(w.files, path)
	}
}

// FlushAll 将所有缓存句柄的内容刷入磁盘。
// 任一句柄刷新失败不影响其余句柄，错误合并返回。
func (w *FileWriter) FlushAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	for path, f := range w.files {
		if err := f.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("wretry: sync %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// CloseAll 关闭并清空所有缓存句柄。
//
// 关闭后写入器仍然可用：后续 Write 会按需重新打开文件。
func (w *FileWriter) CloseAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var errs []error
	for path, f := range w.files {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("wretry: close %s: %w", path, err))
		}
	}
	w.files = make(map[string]*os.File)
	return errors.Join(errs...)
}

// CachedPaths 返回当前持有缓存句柄的路径数，供诊断使用。
func (w *FileWriter) CachedPaths() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.files)
}
