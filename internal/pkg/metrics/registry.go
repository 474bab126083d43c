package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// registryManager 保存包级默认 Registerer，测试可以替换成独立的 registry
type registryManager struct {
	mu         sync.RWMutex
	registerer prometheus.Registerer
}

var defaultRegistry = &registryManager{registerer: prometheus.DefaultRegisterer}

// SetRegisterer 设置全局 Registerer，nil 恢复为 prometheus.DefaultRegisterer。
func SetRegisterer(r prometheus.Registerer) {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	defaultRegistry.mu.Lock()
	defaultRegistry.registerer = r
	defaultRegistry.mu.Unlock()
}

// GetRegisterer 返回当前的 Registerer。
func GetRegisterer() prometheus.Registerer {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	if defaultRegistry.registerer == nil {
		return prometheus.DefaultRegisterer
	}
	return defaultRegistry.registerer
}

// WithRegisterer 在指定 Registerer 下执行 fn, 执行完成后恢复之前的 Registerer。
func WithRegisterer(r prometheus.Registerer, fn func()) {
	previous := GetRegisterer()
	SetRegisterer(r)
	defer SetRegisterer(previous)

	if fn != nil {
		fn()
	}
}
