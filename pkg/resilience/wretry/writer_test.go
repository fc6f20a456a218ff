package wretry

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/wkit/pkg/config/wconf"
	"github.com/omeyang/wkit/pkg/observability/wmetrics"
)

// ============================================================================
// 测试辅助
// ============================================================================

// countingRecorder 统计事件次数的 Recorder 测试替身
type countingRecorder struct {
	writes  atomic.Int64
	retries atomic.Int64
	drops   atomic.Int64
}

var _ wmetrics.Recorder = (*countingRecorder)(nil)

func (r *countingRecorder) WriteCompleted(_ context.Context, _ wmetrics.Outcome, _ time.Duration) {
	r.writes.Add(1)
}
func (r *countingRecorder) RetryAttempted(_ context.Context)    { r.retries.Add(1) }
func (r *countingRecorder) RotationPerformed(_ context.Context) {}
func (r *countingRecorder) WriteDropped(_ context.Context)      { r.drops.Add(1) }

func testSettings(paths ...string) wconf.Settings {
	s := wconf.Default()
	s.FilePaths = paths
	return s
}

// ============================================================================
// Write 基本行为测试
// ============================================================================

func TestFileWriter_Write_CreatesFileAndParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "app.log")

	w := NewFileWriter(testSettings(path))
	defer func() { _ = w.CloseAll() }()

	require.NoError(t, w.Write(context.Background(), path, []byte("hello\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestFileWriter_Write_AppendsAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	w := NewFileWriter(testSettings(path))
	defer func() { _ = w.CloseAll() }()

	ctx := context.Background()
	require.NoError(t, w.Write(ctx, path, []byte("one\n")))
	require.NoError(t, w.Write(ctx, path, []byte("two\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestFileWriter_Write_AppendModeKeepsExistingContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	w := NewFileWriter(testSettings(path))
	defer func() { _ = w.CloseAll() }()

	require.NoError(t, w.Write(context.Background(), path, []byte("new\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestFileWriter_Write_OverwriteModeTruncatesOnOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("old content\n"), 0o644))

	s := testSettings(path)
	s.WriteMode = wconf.ModeOverwrite
	w := NewFileWriter(s)
	defer func() { _ = w.CloseAll() }()

	require.NoError(t, w.Write(context.Background(), path, []byte("fresh\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))
}

func TestFileWriter_Write_ReadModeRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	s := testSettings(path)
	s.WriteMode = wconf.ModeRead
	w := NewFileWriter(s)

	err := w.Write(context.Background(), path, []byte("data\n"))
	assert.ErrorIs(t, err, ErrNotWritable)
}

func TestFileWriter_Write_EmptyPayload(t *testing.T) {
	w := NewFileWriter(wconf.Default())

	err := w.Write(context.Background(), "/tmp/any.log", nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestFileWriter_Write_NilContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	w := NewFileWriter(testSettings(path))
	defer func() { _ = w.CloseAll() }()

	require.NoError(t, w.Write(nil, path, []byte("x\n"))) //nolint:staticcheck // 验证 nil 容忍
}

// ============================================================================
// 句柄缓存测试
// ============================================================================

func TestFileWriter_HandleReuse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	w := NewFileWriter(testSettings(path))
	defer func() { _ = w.CloseAll() }()

	ctx := context.Background()
	require.NoError(t, w.Write(ctx, path, []byte("a\n")))
	require.NoError(t, w.Write(ctx, path, []byte("b\n")))

	assert.Equal(t, 1, w.CachedPaths())
}

func TestFileWriter_Invalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	w := NewFileWriter(testSettings(path))
	defer func() { _ = w.CloseAll() }()

	ctx := context.Background()
	require.NoError(t, w.Write(ctx, path, []byte("a\n")))
	require.Equal(t, 1, w.CachedPaths())

	w.Invalidate(path)
	assert.Equal(t, 0, w.CachedPaths())

	// 丢弃后写入应重新打开句柄
	require.NoError(t, w.Write(ctx, path, []byte("b\n")))
	assert.Equal(t, 1, w.CachedPaths())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestFileWriter_Invalidate_UnknownPath(t *testing.T) {
	w := NewFileWriter(wconf.Default())
	w.Invalidate("/no/such/path.log")
}

func TestFileWriter_CloseAll_AllowsReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	w := NewFileWriter(testSettings(path))

	ctx := context.Background()
	require.NoError(t, w.Write(ctx, path, []byte("a\n")))
	require.NoError(t, w.CloseAll())
	assert.Equal(t, 0, w.CachedPaths())

	require.NoError(t, w.Write(ctx, path, []byte("b\n")))
	require.NoError(t, w.CloseAll())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestFileWriter_FlushAll(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "one.log")
	p2 := filepath.Join(dir, "two.log")

	s := testSettings(p1, p2)
	s.FlushOnWrite = false
	w := NewFileWriter(s)
	defer func() { _ = w.CloseAll() }()

	ctx := context.Background()
	require.NoError(t, w.Write(ctx, p1, []byte("1\n")))
	require.NoError(t, w.Write(ctx, p2, []byte("2\n")))

	require.NoError(t, w.FlushAll())
}

// ============================================================================
// 重试与退避测试
// ============================================================================

func TestFileWriter_Write_RetriesThenFails(t *testing.T) {
	dir := t.TempDir()
	// 目标路径是一个目录，打开必定失败且属可重试错误
	target := filepath.Join(dir, "occupied")
	require.NoError(t, os.Mkdir(target, 0o755))

	rec := &countingRecorder{}
	s := testSettings(target)
	s.RetryLimit = 2
	s.RetryDelay = 0
	w := NewFileWriter(s, WithRecorder(rec))

	err := w.Write(context.Background(), target, []byte("data\n"))
	require.Error(t, err)

	// RetryLimit=2 共尝试 3 次，重试 2 次
	assert.Equal(t, int64(2), rec.retries.Load())
}

func TestFileWriter_Write_RetrySucceedsAfterTransientFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "blocker")
	require.NoError(t, os.Mkdir(target, 0o755))

	rec := &countingRecorder{}
	s := testSettings(target)
	s.RetryLimit = 3
	s.RetryDelay = 0.02
	s.BackoffFactor = 0
	w := NewFileWriter(s, WithRecorder(rec))
	defer func() { _ = w.CloseAll() }()

	// 首次尝试失败后移除挡路的目录，后续重试应成功
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = os.Remove(target)
	}()

	err := w.Write(context.Background(), target, []byte("recovered\n"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rec.retries.Load(), int64(1))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "recovered\n", string(data))
}

func TestFileWriter_Write_ContextCancelStopsRetries(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "occupied")
	require.NoError(t, os.Mkdir(target, 0o755))

	s := testSettings(target)
	s.RetryLimit = 100
	s.RetryDelay = 10 // 秒级延迟，取消应立即生效
	w := NewFileWriter(s)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := w.Write(ctx, target, []byte("data\n"))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFileWriter_BackoffDelay(t *testing.T) {
	s := wconf.Default()
	s.RetryDelay = 0.1
	s.BackoffFactor = 0.2
	w := NewFileWriter(s)

	assert.Equal(t, 100*time.Millisecond, w.backoff(1))
	assert.Equal(t, 120*time.Millisecond, w.backoff(2))
	assert.InDelta(t, float64(144*time.Millisecond), float64(w.backoff(3)), float64(time.Microsecond))
}

func TestFileWriter_BackoffDelay_ZeroDelay(t *testing.T) {
	s := wconf.Default()
	s.RetryDelay = 0
	w := NewFileWriter(s)

	assert.Equal(t, time.Duration(0), w.backoff(1))
	assert.Equal(t, time.Duration(0), w.backoff(5))
}

func TestFileWriter_Write_PermissionErrorUnrecoverable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	rec := &countingRecorder{}
	s := testSettings(filepath.Join(locked, "app.log"))
	s.RetryLimit = 5
	s.RetryDelay = 0
	w := NewFileWriter(s, WithRecorder(rec))

	err := w.Write(context.Background(), filepath.Join(locked, "app.log"), []byte("x\n"))
	require.Error(t, err)

	// 权限错误不应触发任何重试
	assert.Equal(t, int64(0), rec.retries.Load())
}

// ============================================================================
// 构造参数钳制测试
// ============================================================================

func TestNewFileWriter_NegativeValuesClamped(t *testing.T) {
	s := wconf.Default()
	s.RetryLimit = -3
	s.RetryDelay = -1
	s.BackoffFactor = -0.5
	w := NewFileWriter(s)

	assert.Equal(t, 0, w.retryLimit)
	assert.Equal(t, time.Duration(0), w.retryDelay)
	assert.Equal(t, float64(0), w.backoffFactor)
}
