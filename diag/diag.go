// Package diag 构建全局共用的分级日志器（github.com/labstack/gommon/log），
// HTTP 服务将其同时作为 echo 的 Logger。
package diag

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

const header = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}"}`

// ParseLevel 将配置中的级别字符串映射为 log.Lvl，未知值按 info 处理。
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// New 创建写入 out 的日志器；out 为 nil 时写 stderr。
func New(prefix, level string, out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stderr
	}
	l := log.New(prefix)
	l.SetOutput(out)
	l.SetLevel(ParseLevel(level))
	l.SetHeader(header)
	return l
}

// Discard 返回丢弃所有输出的日志器，供测试与未注入日志器的组件使用。
func Discard() *log.Logger {
	l := log.New("-")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}
