// Package whandler 提供多目标文件写入的门面。
//
// FileHandler 组合缓冲区、轮转器、重试写入器与分发执行器：
// 调用方只面对 Log/AsyncLog 两个写入口，缓冲阈值、按需轮转、
// 失败重试和多路径并发分发都在门面之内完成。
//
// 配置可在运行期整体替换（Config/ConfigMap/ConfigJSON/ConfigYAML/
// Reset）：替换前先在旧配置下冲刷缓冲内容，避免缓冲消息丢失或
// 写错目标。Close/ClearAll 冲刷并停机后对象仍可通过 ResumePool
// 或任一配置操作复用。
//
// 基本用法:
//
//	s := wconf.Default()
//	s.FilePaths = []string{"/var/log/app/app.log"}
//	h, err := whandler.New(s)
//	if err != nil { ... }
//	defer h.Close()
//	h.Log("hello")
package whandler
