package theme

import (
	"fmt"
	"sync"
)

// MemoryPrefs 内存偏好，store 不可用时使用
type MemoryPrefs struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryPrefs 创建内存偏好
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{values: make(map[string]string)}
}

// GetConfig 获取偏好
func (p *MemoryPrefs) GetConfig(key string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	if !ok {
		return "", fmt.Errorf("config key not found: %s", key)
	}
	return v, nil
}

// SetConfig 设置偏好
func (p *MemoryPrefs) SetConfig(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
	return nil
}
