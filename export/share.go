package export

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/ByLCY/ledcad/binding"
)

// CommandSharer 执行配置的系统命令来打开文件，参数支持 ${url}、${title}、${dialogTitle}。
type CommandSharer struct {
	Args []string
}

// ParseCommand 按空白拆分命令模板，例如 "xdg-open ${url}"。
func ParseCommand(cmd string) CommandSharer {
	return CommandSharer{Args: strings.Fields(cmd)}
}

func (c CommandSharer) Share(ctx context.Context, opts ShareOptions) error {
	if len(c.Args) == 0 {
		return errors.New("未配置分享命令")
	}
	args := binding.InterpolateArgs(c.Args, binding.Values{
		"url":         opts.URL,
		"title":       opts.Title,
		"dialogTitle": opts.DialogTitle,
	})
	out, err := exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("执行分享命令 %s 失败: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// LogSharer 仅记录分享请求，用于无界面环境。
type LogSharer struct {
	Logger *log.Logger
}

func (s LogSharer) Share(_ context.Context, opts ShareOptions) error {
	if s.Logger != nil {
		s.Logger.Infoj(log.JSON{
			"event":       "export.share",
			"title":       opts.Title,
			"uri":         opts.URL,
			"dialogTitle": opts.DialogTitle,
		})
	}
	return nil
}
