// Package review 在导出前调用多模态模型对设计给出制造建议。
// 模型不可用时返回固定的阿拉伯语提示，错误不会传递给调用方。
package review

import (
	"context"
	"os"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/ByLCY/ledcad/binding"
	"github.com/ByLCY/ledcad/design"
	"github.com/ByLCY/ledcad/diag"
)

// Reason 说明结果是否为回退文本。
type Reason int

const (
	None Reason = iota
	NoKey
	RequestFailed
)

func (r Reason) String() string {
	switch r {
	case NoKey:
		return "no_key"
	case RequestFailed:
		return "request_failed"
	default:
		return "none"
	}
}

const (
	NoKeyMessage = "لم يتم تعيين مفتاح Gemini. افتح الإعدادات داخل التطبيق ثم أضف API Key لتفعيل التقرير الذكي."
	ErrorMessage = "حدث خطأ أثناء تحليل الذكاء الاصطناعي."
)

// KeyName 是偏好存储中 Gemini API Key 的键名。
const KeyName = "gemini_api_key"

// DefaultPrompt 中的占位符由 Params 填充。
const DefaultPrompt = `
Analyze this signage image for manufacturing.
Target Canvas Size: ${canvasWidthCm}x${canvasHeightCm} cm.
LED Diameter: ${ledDiameterMm} mm.
Spacing: ${ledSpacingMm} mm.

Give a brief technical review of whether the LED spacing is appropriate for the complexity of the shape.
Point out potential issues with tight curves where LEDs might overlap.
Keep the response concise and in Arabic.
`

// Result 是审查结果；Fallback 非 None 时 Text 为固定提示。
type Result struct {
	Text     string `json:"text"`
	Fallback Reason `json:"-"`
}

// Request 是发给模型的一次调用。
type Request struct {
	ImageBase64 string
	MIMEType    string
	Prompt      string
}

// Model 由具体的模型客户端实现。
type Model interface {
	Generate(ctx context.Context, apiKey string, req Request) (string, error)
}

// KeySource 在每次调用时读取 API Key。
type KeySource interface {
	Key(ctx context.Context) (string, error)
}

// Getter 是 KeyResolver 需要的偏好读取能力。
type Getter interface {
	Get(key string) (string, error)
}

// KeyResolver 先读偏好中的 gemini_api_key，为空时回退到环境变量。
type KeyResolver struct {
	Prefs Getter
	Env   string
}

func (k KeyResolver) Key(_ context.Context) (string, error) {
	if k.Prefs != nil {
		v, err := k.Prefs.Get(KeyName)
		if err != nil {
			return "", err
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
	}
	env := k.Env
	if env == "" {
		env = "API_KEY"
	}
	return strings.TrimSpace(os.Getenv(env)), nil
}

// Reviewer 组合 Key 来源、模型与提示词模板。
type Reviewer struct {
	keys   KeySource
	model  Model
	prompt string
	logger *log.Logger
}

type Option func(*Reviewer)

func WithPrompt(tmpl string) Option {
	return func(r *Reviewer) { r.prompt = tmpl }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Reviewer) { r.logger = l }
}

func New(keys KeySource, model Model, opts ...Option) *Reviewer {
	r := &Reviewer{
		keys:   keys,
		model:  model,
		prompt: DefaultPrompt,
		logger: diag.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prompt 用参数填充提示词模板。
func (r *Reviewer) Prompt(p design.Params) string {
	values := binding.Values{
		"canvasWidthCm":  p.CanvasWidthCm,
		"canvasHeightCm": p.CanvasHeightCm,
		"ledDiameterMm":  p.LEDDiameterMm,
		"ledSpacingMm":   p.LEDSpacingMm,
		"exportOption":   string(p.ExportOption),
	}
	if missing := binding.Missing(r.prompt, values); len(missing) > 0 {
		r.logger.Warnj(log.JSON{"event": "review.prompt", "missing": missing})
	}
	return binding.Interpolate(r.prompt, values)
}

// Analyze 对设计截图进行审查，任何失败都以回退文本表示。
func (r *Reviewer) Analyze(ctx context.Context, imageDataURL string, params design.Params) Result {
	key, err := r.keys.Key(ctx)
	if err != nil {
		r.logger.Errorj(log.JSON{"event": "review.key", "error": err.Error()})
		return Result{Text: ErrorMessage, Fallback: RequestFailed}
	}
	if key == "" {
		return Result{Text: NoKeyMessage, Fallback: NoKey}
	}

	text, err := r.model.Generate(ctx, key, Request{
		ImageBase64: StripDataURL(imageDataURL),
		MIMEType:    "image/png",
		Prompt:      r.Prompt(params),
	})
	if err != nil {
		r.logger.Errorj(log.JSON{"event": "review.generate", "error": err.Error()})
		return Result{Text: ErrorMessage, Fallback: RequestFailed}
	}
	return Result{Text: text, Fallback: None}
}

// StripDataURL 去掉 data:image/png;base64, 前缀；没有逗号时原样返回。
func StripDataURL(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return s
}
