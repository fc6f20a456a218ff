package wrotate

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/omeyang/wkit/pkg/util/wfile"
)

// filePerm 新建目标文件的权限。
const filePerm = 0o644

// Rotator 编号后缀轮转器。
// 纯阻塞调用单元，不持有文件句柄，可被多个调度路径共享
// （同一路径的调用由外部串行化）。
type Rotator struct {
	maxFileSize int64
	maxRotation int
	logger      *slog.Logger
	onRotate    func(path string)
}

// Option 定义 Rotator 配置选项。
type Option func(*Rotator)

// WithLogger 设置诊断日志记录器，默认 slog.Default()。
// 传入 nil 被静默忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rotator) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithOnRotate 设置轮转前回调，在重命名目标文件之前调用。
// 持有该路径打开句柄的所有者应在回调中关闭句柄，
// 否则已打开的描述符会继续指向改名后的旧文件。
func WithOnRotate(fn func(path string)) Option {
	return func(r *Rotator) {
		if fn != nil {
			r.onRotate = fn
		}
	}
}

// New 创建 Rotator。
//
// maxFileSize 为单文件大小上限（字节），0 关闭轮转；
// maxRotation 为保留的轮转文件数，0 表示无限保留。
// 负值按 0 处理。
func New(maxFileSize int64, maxRotation int, opts ...Option) *Rotator {
	if maxFileSize < 0 {
		maxFileSize = 0
	}
	if maxRotation < 0 {
		maxRotation = 0
	}
	r := &Rotator{
		maxFileSize: maxFileSize,
		maxRotation: maxRotation,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// MaybeRotate 在写入 incoming 字节之前评估并执行 path 的轮转。
//
// 返回 rotated 表示本次是否发生了轮转。文件不存在时创建（含父目录）
// 后直接返回。轮转条件：当前大小 + incoming > maxFileSize。
// maxFileSize == 0 时为完全 no-op。
//
// 返回非 nil 错误时目标文件保持原状，调用方应上报后继续写入原文件。
func (r *Rotator) MaybeRotate(path string, incoming int64) (rotated bool, err error) {
	if r.maxFileSize == 0 {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("wrotate: stat %s: %w", path, err)
		}
		if err := createEmpty(path); err != nil {
			return false, err
		}
		return false, nil
	}

	if info.Size()+incoming <= r.maxFileSize {
		return false, nil
	}

	if r.onRotate != nil {
		r.onRotate(path)
	}

	if err := r.shift(path); err != nil {
		return false, err
	}
	if err := os.Rename(path, suffixed(path, 1)); err != nil {
		return false, fmt.Errorf("wrotate: rename %s: %w", path, err)
	}
	if err := createEmpty(path); err != nil {
		return true, err
	}

	r.logger.Debug("wrotate: rotated file",
		slog.String("path", path),
		slog.Int64("size", info.Size()),
		slog.Int64("incoming", incoming))
	return true, nil
}

// shift 将已有的编号文件整体上移一位（path.i -> path.i+1），
// 为 path.1 腾出位置。
//
// maxRotation > 0 时最旧的 path.maxRotation 先被删除；
// maxRotation == 0 时从当前最高编号开始上移，不删除任何文件。
func (r *Rotator) shift(path string) error {
	top := r.maxRotation
	if top == 0 {
		top = highestSuffix(path) + 1
	} else if exists(suffixed(path, top)) {
		if err := os.Remove(suffixed(path, top)); err != nil {
			return fmt.Errorf("wrotate: prune %s: %w", suffixed(path, top), err)
		}
	}

	for i := top - 1; i >= 1; i-- {
		src := suffixed(path, i)
		if !exists(src) {
			continue
		}
		if err := os.Rename(src, suffixed(path, i+1)); err != nil {
			return fmt.Errorf("wrotate: rename %s: %w", src, err)
		}
	}
	return nil
}

// suffixed 返回第 n 个轮转文件名（path.n）。
func suffixed(path string, n int) string {
	return path + "." + strconv.Itoa(n)
}

// highestSuffix 返回当前存在的最高轮转编号，无轮转文件时返回 0。
// 轮转编号总是从 1 开始连续分配，按序探测即可。
func highestSuffix(path string) int {
	n := 0
	for exists(suffixed(path, n+1)) {
		n++
	}
	return n
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// createEmpty 创建空目标文件（含父目录）。
func createEmpty(path string) error {
	if err := wfile.EnsureDir(path); err != nil {
		return fmt.Errorf("wrotate: ensure dir for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, filePerm)
	if err != nil {
		return fmt.Errorf("wrotate: create %s: %w", path, err)
	}
	return f.Close()
}
