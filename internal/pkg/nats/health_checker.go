package nats

import (
	"context"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultCheckInterval 默认检查间隔
const DefaultCheckInterval = 10 * time.Second

// connState 健康检查需要的连接状态，*nats.Conn 满足该接口
type connState interface {
	IsConnected() bool
	IsClosed() bool
}

// HealthChecker NATS连接健康检查器
type HealthChecker struct {
	conn      connState
	isHealthy bool
	mutex     sync.RWMutex
	stopCh    chan struct{}
	stopOnce  sync.Once
	interval  time.Duration
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(conn *nats.Conn, checkInterval time.Duration) *HealthChecker {
	return newHealthChecker(conn, checkInterval)
}

func newHealthChecker(conn connState, checkInterval time.Duration) *HealthChecker {
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}

	hc := &HealthChecker{
		conn:     conn,
		stopCh:   make(chan struct{}),
		interval: checkInterval,
	}
	hc.checkHealth()
	return hc
}

// Start 启动健康检查，阻塞直到 ctx 取消或调用 Stop
func (hc *HealthChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-hc.stopCh:
			return
		case <-ticker.C:
			hc.checkHealth()
		}
	}
}

// Stop 停止健康检查，可重复调用
func (hc *HealthChecker) Stop() {
	hc.stopOnce.Do(func() { close(hc.stopCh) })
}

// IsHealthy 检查连接是否健康
func (hc *HealthChecker) IsHealthy() bool {
	hc.mutex.RLock()
	defer hc.mutex.RUnlock()
	return hc.isHealthy
}

// Status 返回 /health 使用的状态字符串
func (hc *HealthChecker) Status() string {
	if hc.IsHealthy() {
		return "up"
	}
	return "down"
}

// checkHealth 执行健康检查
func (hc *HealthChecker) checkHealth() {
	healthy := hc.conn != nil && hc.conn.IsConnected() && !hc.conn.IsClosed()

	hc.mutex.Lock()
	hc.isHealthy = healthy
	hc.mutex.Unlock()
}

// WaitForHealthy 等待连接恢复健康
func (hc *HealthChecker) WaitForHealthy(ctx context.Context, maxWait time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if hc.IsHealthy() {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			hc.checkHealth()
		}
	}
}
