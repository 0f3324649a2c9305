package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// loadMapping 读取 token → ID 映射文件（YAML 或 JSON），值为 null 表示不映射
// path 为空时返回 nil，使用自动匹配
func loadMapping(path string) (map[string]*int64, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	m := map[string]*int64{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid mapping file %s: %w", path, err)
	}
	return m, nil
}
