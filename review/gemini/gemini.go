// Package gemini 通过 google.golang.org/genai 调用 Gemini 模型。
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/ByLCY/ledcad/review"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-3-pro-preview"
)

// ErrEmptyResponse 表示模型没有返回任何文本。
var ErrEmptyResponse = errors.New("gemini: 响应中没有文本")

type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

func (o *Options) defaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
}

// Client 实现 review.Model；Key 在每次调用时传入，因此每次调用创建新的 genai 客户端。
type Client struct {
	opts Options
	hc   *http.Client
}

func New(opts Options) *Client {
	opts.defaults()
	return &Client{opts: opts, hc: &http.Client{Timeout: opts.Timeout}}
}

// UpstreamError 携带上游的非 2xx 状态。
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini upstream %d: %s", e.Status, e.Message)
}

func (c *Client) Generate(ctx context.Context, apiKey string, req review.Request) (string, error) {
	mime := req.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return "", fmt.Errorf("gemini: 解码图片失败: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.hc,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.opts.BaseURL},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: 创建客户端失败: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mime),
			genai.NewPartFromText(req.Prompt),
		}, genai.RoleUser),
	}
	resp, err := client.Models.GenerateContent(ctx, c.opts.Model, contents, nil)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{Status: apiErr.Code, Message: apiErr.Message}
		}
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
