package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/sjzsdu/projview/share"
)

// ErrNotFound 表示请求的 JSON 文件不存在
var ErrNotFound = errors.New("json store: file not found")

// JSONStore 管理特定目录下的 JSON 文件，写入时持有文件锁并原子替换
type JSONStore struct {
	// 完整目录路径
	Path string
}

// NewJSONStore 创建一个新的 JSONStore
// baseDir 为空时使用用户家目录下的 .projview，subDir 可选
func NewJSONStore(baseDir, subDir string) (*JSONStore, error) {
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("无法获取用户家目录: %w", err)
		}
		baseDir = filepath.Join(homeDir, share.PATH)
	}

	path := baseDir
	if subDir != "" {
		path = filepath.Join(baseDir, subDir)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("创建目录失败 %s: %w", path, err)
	}
	return &JSONStore{Path: path}, nil
}

// ensureJSONExtension 确保文件名有 .json 扩展名
func ensureJSONExtension(filename string) string {
	if !strings.HasSuffix(strings.ToLower(filename), ".json") {
		return filename + ".json"
	}
	return filename
}

func (s *JSONStore) filePath(name string) string {
	return filepath.Join(s.Path, ensureJSONExtension(name))
}

func (s *JSONStore) lock(name string) (*flock.Flock, error) {
	fl := flock.New(s.filePath(name) + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("获取文件锁失败 %s: %w", name, err)
	}
	return fl, nil
}

// Get 读取指定名称的 JSON 文件并解码到 decodeInto
func (s *JSONStore) Get(name string, decodeInto interface{}) error {
	data, err := os.ReadFile(s.filePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("读取文件失败 %s: %w", name, err)
	}
	if decodeInto != nil {
		if err := json.Unmarshal(data, decodeInto); err != nil {
			return fmt.Errorf("解析JSON失败 %s: %w", name, err)
		}
	}
	return nil
}

// Set 将 data 编码后写入指定名称的 JSON 文件
func (s *JSONStore) Set(name string, data interface{}) error {
	fl, err := s.lock(name)
	if err != nil {
		return err
	}
	defer fl.Unlock()
	return s.write(name, data)
}

func (s *JSONStore) write(name string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("编码为JSON失败: %w", err)
	}
	if err := atomicWrite(s.filePath(name), jsonData); err != nil {
		return fmt.Errorf("写入文件失败 %s: %w", name, err)
	}
	return nil
}

// Delete 删除指定名称的 JSON 文件
func (s *JSONStore) Delete(name string) error {
	fl, err := s.lock(name)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	if err := os.Remove(s.filePath(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("删除文件失败 %s: %w", name, err)
	}
	return nil
}

// List 列出所有 JSON 文件名（不带扩展名），按名称排序
func (s *JSONStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, fmt.Errorf("读取目录失败 %s: %w", s.Path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(strings.ToLower(name), ".json") {
			files = append(files, name[:len(name)-len(".json")])
		}
	}
	sort.Strings(files)
	return files, nil
}

// Exists 检查指定名称的 JSON 文件是否存在
func (s *JSONStore) Exists(name string) bool {
	_, err := os.Stat(s.filePath(name))
	return err == nil
}

// Update 在文件锁内读取、修改并写回 JSON 对象，文件不存在时从空对象开始
func (s *JSONStore) Update(name string, updateFunc func(map[string]interface{}) error) error {
	fl, err := s.lock(name)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	jsonMap := map[string]interface{}{}
	if err := s.Get(name, &jsonMap); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if jsonMap == nil {
		jsonMap = map[string]interface{}{}
	}

	if err := updateFunc(jsonMap); err != nil {
		return fmt.Errorf("更新JSON数据失败: %w", err)
	}
	return s.write(name, jsonMap)
}

// GetValue 读取嵌套键（如 "ProjectTree.ExpandData"）并解码到 decodeInto
// 文件或键不存在时返回 false
func (s *JSONStore) GetValue(name, key string, decodeInto interface{}) (bool, error) {
	var data map[string]interface{}
	if err := s.Get(name, &data); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	value := getNestedValue(data, key)
	if value == nil {
		return false, nil
	}

	// 通过重新编码把通用结构转换为目标类型
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("编码为JSON失败: %w", err)
	}
	if err := json.Unmarshal(raw, decodeInto); err != nil {
		return false, fmt.Errorf("解析JSON失败 %s/%s: %w", name, key, err)
	}
	return true, nil
}

// SetValue 设置 JSON 文件中的单个嵌套键
func (s *JSONStore) SetValue(name, key string, value interface{}) error {
	return s.Update(name, func(data map[string]interface{}) error {
		setNestedValue(data, key, value)
		return nil
	})
}

// DeleteKey 从 JSON 文件中删除指定嵌套键
func (s *JSONStore) DeleteKey(name, key string) error {
	if !s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.Update(name, func(data map[string]interface{}) error {
		return deleteNestedValue(data, key)
	})
}

// getNestedValue 获取嵌套 JSON 中的值
func getNestedValue(data map[string]interface{}, key string) interface{} {
	parts := strings.Split(key, ".")
	current := data
	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		next, ok := current[part].(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

// setNestedValue 设置嵌套 JSON 中的值，缺失的中间对象会被创建
func setNestedValue(data map[string]interface{}, key string, value interface{}) {
	parts := strings.Split(key, ".")
	current := data
	for i, part := range parts {
		if i == len(parts)-1 {
			current[part] = value
			return
		}
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}
}

// deleteNestedValue 删除嵌套 JSON 中的值
func deleteNestedValue(data map[string]interface{}, key string) error {
	parts := strings.Split(key, ".")
	current := data
	for i, part := range parts {
		if i == len(parts)-1 {
			delete(current, part)
			return nil
		}
		next, ok := current[part].(map[string]interface{})
		if !ok {
			return fmt.Errorf("路径不存在: %s", key)
		}
		current = next
	}
	return nil
}

// atomicWrite 先写入同目录临时文件再重命名，读者不会看到写了一半的内容
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
