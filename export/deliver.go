package export

import (
	"context"
	"net/http"
	"strconv"
)

// ShareDialogTitle 是原生分享面板的标题。
const ShareDialogTitle = "مشاركة الملف"

// Deliverer 负责把一次导出的载荷交给用户。
type Deliverer interface {
	Deliver(ctx context.Context, p Payload, filename string) error
}

// BrowserDelivery 以附件响应的方式交付文件，由浏览器决定保存或打开。
type BrowserDelivery struct {
	W http.ResponseWriter
}

func (b BrowserDelivery) Deliver(_ context.Context, p Payload, filename string) error {
	h := b.W.Header()
	h.Set("Content-Type", p.ContentType())
	h.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	h.Set("Content-Length", strconv.Itoa(p.Len()))
	b.W.WriteHeader(http.StatusOK)
	_, err := b.W.Write(p.Bytes())
	return err
}

// Directory 是原生文件系统的逻辑目录。
type Directory string

const Documents Directory = "DOCUMENTS"

// Encoding 为空表示 Data 是 base64 编码的二进制内容。
type Encoding string

const (
	EncodingNone Encoding = ""
	EncodingUTF8 Encoding = "utf8"
)

type WriteFileOptions struct {
	Path      string
	Data      string
	Directory Directory
	Encoding  Encoding
	Recursive bool
}

type GetURIOptions struct {
	Path      string
	Directory Directory
}

type ShareOptions struct {
	Title       string
	URL         string
	DialogTitle string
}

// Filesystem 是原生运行时提供的文件写入原语。
type Filesystem interface {
	WriteFile(ctx context.Context, opts WriteFileOptions) error
	GetURI(ctx context.Context, opts GetURIOptions) (string, error)
}

// Sharer 打开系统分享面板。
type Sharer interface {
	Share(ctx context.Context, opts ShareOptions) error
}

// NativeDelivery 写入文档目录后通过分享面板交付，各步骤的错误原样返回。
type NativeDelivery struct {
	FS     Filesystem
	Sharer Sharer
}

func (n NativeDelivery) Deliver(ctx context.Context, p Payload, filename string) error {
	opts := WriteFileOptions{
		Path:      filename,
		Directory: Documents,
		Recursive: true,
	}
	if p.Kind() == KindText {
		opts.Data = p.text
		opts.Encoding = EncodingUTF8
	} else {
		opts.Data = encodeBase64(p.data)
	}
	if err := n.FS.WriteFile(ctx, opts); err != nil {
		return err
	}

	uri, err := n.FS.GetURI(ctx, GetURIOptions{Path: filename, Directory: Documents})
	if err != nil {
		return err
	}

	return n.Sharer.Share(ctx, ShareOptions{
		Title:       filename,
		URL:         uri,
		DialogTitle: ShareDialogTitle,
	})
}
