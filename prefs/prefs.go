// Package prefs 提供基于 YAML 文件的键值偏好存储，用于保存 Gemini API Key 等设置。
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrEmptyKey 表示键名为空。
var ErrEmptyKey = errors.New("偏好键不能为空")

// Store 每次读写都访问文件，不做缓存。
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) load() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取偏好文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("解析偏好文件失败: %w", err)
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

// Get 返回去除首尾空白后的值，键不存在时返回空字符串。
func (s *Store) Get(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(values[key]), nil
}

// Set 写入去除空白后的值；值为空时删除该键。
func (s *Store) Set(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		delete(values, key)
	} else {
		values[key] = value
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("序列化偏好失败: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("创建偏好目录失败: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("写入偏好文件失败: %w", err)
	}
	return nil
}
