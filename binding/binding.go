// Package binding 将 ${name} 形式的占位符替换为数据中的值，
// 用于 AI 审查提示词与原生分享命令的参数模板。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Values 是模板数据，值可以嵌套 map 以支持 a.b 形式的路径。
type Values map[string]any

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data Values) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			return format(val)
		}
		return match
	})
}

// InterpolateArgs 对命令行参数逐个插值，不做 shell 拆分，值中的空格不会产生新参数。
func InterpolateArgs(args []string, data Values) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = Interpolate(a, data)
	}
	return out
}

// Missing 返回文本中无法解析的占位符路径。
func Missing(text string, data Values) []string {
	var missing []string
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		path := strings.TrimSpace(groups[1])
		if _, ok := resolvePath(data, path); !ok {
			missing = append(missing, path)
		}
	}
	return missing
}

func resolvePath(data Values, path string) (any, bool) {
	var current any = map[string]any(data)
	for _, segment := range strings.Split(path, ".") {
		switch c := current.(type) {
		case map[string]any:
			val, ok := c[segment]
			if !ok {
				return nil, false
			}
			current = val
		case Values:
			val, ok := c[segment]
			if !ok {
				return nil, false
			}
			current = val
		case map[string]string:
			val, ok := c[segment]
			if !ok {
				return nil, false
			}
			current = val
		default:
			return nil, false
		}
	}
	return current, true
}

// format 以最短形式输出浮点数（20 而非 20.000000）。
func format(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}
