package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/labstack/gommon/log"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ByLCY/ledcad/config"
	"github.com/ByLCY/ledcad/diag"
	"github.com/ByLCY/ledcad/export"
	"github.com/ByLCY/ledcad/layout"
	"github.com/ByLCY/ledcad/pipeline"
	"github.com/ByLCY/ledcad/prefs"
	"github.com/ByLCY/ledcad/review"
	"github.com/ByLCY/ledcad/review/gemini"
	"github.com/ByLCY/ledcad/server"
)

var version = "dev"

const usage = `用法: ledcad <命令> [参数]

命令:
  render   渲染设计并导出 (pdf|svg|dxf|png)
  serve    启动 HTTP 服务
  review   使用 Gemini 审查设计
  key      管理 Gemini API Key (set <值> | show)
  version  显示版本
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "render":
		err = cmdRender(args[1:], stdout, stderr)
	case "serve":
		err = cmdServe(args[1:], stderr)
	case "review":
		err = cmdReview(args[1:], stdout, stderr)
	case "key":
		err = cmdKey(args[1:], stdout)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "ledcad %s\n", version)
		return 0
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "未知命令: %s\n\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "ledcad %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return cfg, nil
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func cmdRender(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("render", stderr)
	input := fs.StringP("in", "i", "", "设计文件路径 (.led / .json / .msgpack)")
	format := fs.StringP("format", "f", "pdf", "导出格式: pdf|svg|dxf|png")
	output := fs.StringP("out", "o", "", "输出路径；- 表示标准输出；留空则写入文档目录并分享")
	debug := fs.String("debug", "", "布局调试 JSON 输出路径")
	cfgPath := fs.StringP("config", "c", "ledcad.yaml", "配置文件路径")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("缺少 --in")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	logger := diag.New("ledcad", cfg.Log.Level, stderr)

	d, err := pipeline.LoadDesign(*input)
	if err != nil {
		return err
	}
	opts := pipeline.Options{PreviewDPMM: cfg.Review.PreviewDPMM}
	r, err := pipeline.RendererFor(*format, opts)
	if err != nil {
		return err
	}
	result, data, err := pipeline.Render(d, r, opts)
	if err != nil {
		return err
	}
	if *debug != "" {
		if err := writeDebug(result, *debug); err != nil {
			return err
		}
	}

	switch *output {
	case "":
		sink := nativeSink(cfg, logger)
		name, err := pipeline.Deliver(context.Background(), sink, r, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "已导出：%s\n", filepath.Join(cfg.Storage.DocumentsDir, name))
	case "-":
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return fmt.Errorf("拒绝向终端输出二进制文档，请重定向或使用 --out <路径>")
		}
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("写入标准输出失败: %w", err)
		}
	default:
		if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			return fmt.Errorf("写入 %s 文件失败: %w", r.Extension(), err)
		}
		fmt.Fprintf(stdout, "已生成 %s：%s\n", strings.ToUpper(r.Extension()), *output)
	}
	return nil
}

// nativeSink 构建命令行使用的原生交付：写入文档目录后执行分享命令。
func nativeSink(cfg *config.Config, logger *log.Logger) *export.Sink {
	var sharer export.Sharer = export.LogSharer{Logger: logger}
	if cfg.Export.ShareCommand != "" {
		sharer = export.ParseCommand(cfg.Export.ShareCommand)
	}
	native := export.NativeDelivery{
		FS:     export.NewLocalFilesystem(cfg.Storage.DocumentsDir, ""),
		Sharer: sharer,
	}
	return export.NewSink(export.PlatformFunc(func() bool { return true }), nil, native, export.WithLogger(logger))
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func newReviewer(cfg *config.Config, store *prefs.Store, logger *log.Logger) (*review.Reviewer, review.KeySource) {
	keys := review.KeyResolver{Prefs: store, Env: cfg.Review.APIKeyEnv}
	model := gemini.New(gemini.Options{
		BaseURL: cfg.Review.BaseURL,
		Model:   cfg.Review.Model,
		Timeout: cfg.Review.Timeout,
	})
	return review.New(keys, model, review.WithLogger(logger)), keys
}

func cmdServe(args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	cfgPath := fs.StringP("config", "c", "ledcad.yaml", "配置文件路径")
	addr := fs.String("addr", "", "监听地址，覆盖配置文件")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logger := diag.New("ledcad", cfg.Log.Level, stderr)
	store := prefs.New(cfg.Storage.PrefsFile)
	reviewer, keys := newReviewer(cfg, store, logger)

	srv := server.New(server.Deps{
		Config:    cfg,
		Logger:    logger,
		Documents: export.NewLocalFilesystem(cfg.Storage.DocumentsDir, documentsURL(cfg)),
		Prefs:     store,
		Keys:      keys,
		Reviewer:  reviewer,
		Version:   version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}

// documentsURL 返回原生路径中文档 URI 的前缀。
func documentsURL(cfg *config.Config) string {
	base := strings.TrimRight(cfg.Server.PublicURL, "/")
	if base == "" {
		host := cfg.Server.Addr
		if strings.HasPrefix(host, ":") {
			host = "localhost" + host
		}
		base = "http://" + host
	}
	return base + "/api/documents"
}

func cmdReview(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("review", stderr)
	input := fs.StringP("in", "i", "", "设计文件路径")
	image := fs.String("image", "", "设计截图 PNG；留空则由设计栅格化")
	cfgPath := fs.StringP("config", "c", "ledcad.yaml", "配置文件路径")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("缺少 --in")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	logger := diag.New("ledcad", cfg.Log.Level, stderr)

	d, err := pipeline.LoadDesign(*input)
	if err != nil {
		return err
	}

	var dataURL string
	if *image != "" {
		raw, err := os.ReadFile(*image)
		if err != nil {
			return fmt.Errorf("读取截图失败: %w", err)
		}
		dataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	} else {
		dataURL, err = pipeline.PreviewDataURL(d, pipeline.Options{
			PreviewDPMM:    cfg.Review.PreviewDPMM,
			MaxPreviewEdge: cfg.Review.PreviewMaxEdge,
		})
		if err != nil {
			return err
		}
	}

	reviewer, _ := newReviewer(cfg, prefs.New(cfg.Storage.PrefsFile), logger)
	res := reviewer.Analyze(context.Background(), dataURL, d.Params)
	fmt.Fprintln(stdout, res.Text)
	return nil
}

func cmdKey(args []string, stdout io.Writer) error {
	fs := newFlagSet("key", stdout)
	cfgPath := fs.StringP("config", "c", "ledcad.yaml", "配置文件路径")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("用法: ledcad key set <值> | show")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	store := prefs.New(cfg.Storage.PrefsFile)

	switch rest[0] {
	case "set":
		if len(rest) < 2 {
			return fmt.Errorf("缺少 API Key")
		}
		if err := store.Set(review.KeyName, rest[1]); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "已保存到 %s\n", store.Path())
	case "show":
		key, err := review.KeyResolver{Prefs: store, Env: cfg.Review.APIKeyEnv}.Key(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, maskKey(key))
	default:
		return fmt.Errorf("未知子命令: %s", rest[0])
	}
	return nil
}

// maskKey 只显示末四位。
func maskKey(key string) string {
	if key == "" {
		return "(未设置)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
