package design

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// MIMEMsgpack 是 msgpack 编码的设计数据的内容类型。
const MIMEMsgpack = "application/msgpack"

// Decode 按内容类型解码设计数据（JSON 或 msgpack），并规范化导出选项。
func Decode(r io.Reader, contentType string) (Design, error) {
	var d Design
	if isMsgpack(contentType) {
		if err := msgpack.NewDecoder(r).Decode(&d); err != nil {
			return d, fmt.Errorf("解析 msgpack 设计数据失败: %w", err)
		}
	} else {
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return d, fmt.Errorf("解析 JSON 设计数据失败: %w", err)
		}
	}
	if d.PixelToMm == 0 {
		d.PixelToMm = 1
	}
	if err := d.Normalize(); err != nil {
		return d, err
	}
	return d, nil
}

// EncodeMsgpack 将设计数据编码为 msgpack。
func EncodeMsgpack(d Design) ([]byte, error) {
	return msgpack.Marshal(&d)
}

func isMsgpack(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "msgpack")
}
