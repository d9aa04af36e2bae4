package export

import (
	"encoding/base64"
	"strings"
)

// Kind 区分文本与二进制载荷。
type Kind int

const (
	KindText Kind = iota
	KindBinary
)

// 常用内容类型。
const (
	ContentTypeText = "text/plain;charset=utf-8"
	ContentTypePDF  = "application/pdf"
)

// base64ChunkSize 是原生路径上 base64 编码的分块大小（32 KiB）。
const base64ChunkSize = 0x8000

// Payload 是一次导出要交付的内容，只能由 TextPayload 或 BinaryPayload 构造。
type Payload struct {
	kind        Kind
	text        string
	data        []byte
	contentType string
}

// TextPayload 包装 UTF-8 文本（SVG、DXF 等）。
func TextPayload(content string) Payload {
	return Payload{kind: KindText, text: content, contentType: ContentTypeText}
}

// TypedTextPayload 与 TextPayload 相同，但浏览器下载使用给定的内容类型
// （如 image/svg+xml、application/dxf）；contentType 为空时退回纯文本。
func TypedTextPayload(content, contentType string) Payload {
	p := TextPayload(content)
	if contentType != "" {
		p.contentType = contentType
	}
	return p
}

// BinaryPayload 包装二进制文档（PDF 等）；contentType 为空时按 PDF 处理。
func BinaryPayload(data []byte, contentType string) Payload {
	if contentType == "" {
		contentType = ContentTypePDF
	}
	return Payload{kind: KindBinary, data: data, contentType: contentType}
}

func (p Payload) Kind() Kind { return p.kind }

func (p Payload) ContentType() string { return p.contentType }

// Bytes 返回载荷的原始字节。
func (p Payload) Bytes() []byte {
	if p.kind == KindText {
		return []byte(p.text)
	}
	return p.data
}

// Len 返回载荷字节数。
func (p Payload) Len() int {
	if p.kind == KindText {
		return len(p.text)
	}
	return len(p.data)
}

// encodeBase64 以固定大小分块写入编码器，结果与一次性编码完全一致。
func encodeBase64(data []byte) string {
	var sb strings.Builder
	sb.Grow(base64.StdEncoding.EncodedLen(len(data)))
	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	for i := 0; i < len(data); i += base64ChunkSize {
		end := i + base64ChunkSize
		if end > len(data) {
			end = len(data)
		}
		// strings.Builder 的写入不会失败
		_, _ = enc.Write(data[i:end])
	}
	_ = enc.Close()
	return sb.String()
}
