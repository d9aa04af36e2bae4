package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownDirectory 表示逻辑目录没有映射到本地路径。
var ErrUnknownDirectory = errors.New("未配置的目录")

// LocalFilesystem 将逻辑目录映射到本地磁盘。
// BaseURL 非空时 GetURI 返回 <BaseURL>/<name>，否则返回 file:// URI。
type LocalFilesystem struct {
	Dirs    map[Directory]string
	BaseURL string
}

// NewLocalFilesystem 以 documentsDir 作为 Documents 目录。
func NewLocalFilesystem(documentsDir, baseURL string) *LocalFilesystem {
	return &LocalFilesystem{
		Dirs:    map[Directory]string{Documents: documentsDir},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (fs *LocalFilesystem) resolve(dir Directory, name string) (string, error) {
	root, ok := fs.Dirs[dir]
	if !ok || root == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownDirectory, dir)
	}
	clean := filepath.Clean("/" + name)
	return filepath.Join(root, clean), nil
}

func (fs *LocalFilesystem) WriteFile(_ context.Context, opts WriteFileOptions) error {
	path, err := fs.resolve(opts.Directory, opts.Path)
	if err != nil {
		return err
	}

	var data []byte
	switch opts.Encoding {
	case EncodingUTF8:
		data = []byte(opts.Data)
	default:
		data, err = base64.StdEncoding.DecodeString(opts.Data)
		if err != nil {
			return fmt.Errorf("解码 base64 数据失败: %w", err)
		}
	}

	if opts.Recursive {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (fs *LocalFilesystem) GetURI(_ context.Context, opts GetURIOptions) (string, error) {
	path, err := fs.resolve(opts.Directory, opts.Path)
	if err != nil {
		return "", err
	}
	if fs.BaseURL != "" {
		return fs.BaseURL + "/" + url.PathEscape(filepath.Base(path)), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// Open 返回 Documents 目录中的文件路径，供 HTTP 服务回读已导出的文档。
func (fs *LocalFilesystem) Open(name string) (string, error) {
	return fs.resolve(Documents, filepath.Base(name))
}
