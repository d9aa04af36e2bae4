package export

import (
	"fmt"
	"regexp"
	"time"
)

// FilePrefix 是所有导出文件的固定前缀。
const FilePrefix = "led_design_"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Sanitize 将 [A-Za-z0-9._-] 以外的每段连续字符替换为单个下划线。
func Sanitize(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// Filename 生成 led_design_<毫秒时间戳>.<ext>。
// 唯一性只依赖毫秒时间戳，同一毫秒内的两次导出会得到相同文件名。
func Filename(ext string, now time.Time) string {
	return Sanitize(fmt.Sprintf("%s%d.%s", FilePrefix, now.UnixMilli(), ext))
}
