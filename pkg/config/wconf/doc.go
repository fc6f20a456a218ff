// Package wconf 定义写入引擎的 Settings 及其多来源摄取。
//
// Settings 是引擎唯一消费的配置载体：目标文件路径、写入模式、
// 重试与退避参数、轮转与缓冲阈值。引擎本身只接受经 Validate 校验的
// Settings 值，从不解析原始文本。
//
// # 摄取来源
//
// 四种外部形态统一映射到同一个 Settings：
//
//   - FromMap: Go map（对应动态字典配置）
//   - FromJSON / FromYAML: 原始字节
//   - Load: 配置文件路径（按扩展名 .json/.yaml/.yml 识别格式）
//
// 部分配置语义：摄取总是以 [Default] 为底座，仅覆盖出现的键，
// 未出现的键保持默认值。未知键会被拒绝（严格解码），避免拼写错误
// 静默丢失配置。
//
// # 热重载
//
// Watch 基于 fsnotify 监视配置文件变更，防抖后重新加载并通过回调
// 通知调用方；解析或校验失败时回调收到错误，旧配置不受影响。
//
// # 校验
//
// Validate 拒绝：空路径列表、非法路径（空字节、相对路径穿越、
// 指向已存在目录、超长文件名）、未知写入模式、任何负数值字段。
// retry_limit=0 表示单次尝试不重试；max_file_size=0 关闭轮转；
// max_rotation=0 表示轮转文件无限保留；max_buffer_size=0 表示
// 不缓冲、每条消息立即写出。
package wconf
