package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"login-gateway/internal/pkg/metrics"
)

// SubjectLoginAttempted 默认的登录事件 subject
const SubjectLoginAttempted = "auth.login.attempted"

// LoginEvent 每次登录请求结束后发布的事件，不包含密码
type LoginEvent struct {
	Email      string    `json:"email,omitempty"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher 把登录事件发布到 NATS
type Publisher struct {
	conn    *nats.Conn
	subject string
	metrics *metrics.ResourceMetrics
}

// NewPublisher 创建发布器。conn 为 nil 时所有发布静默降级为 no-op
func NewPublisher(conn *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = SubjectLoginAttempted
	}
	return &Publisher{
		conn:    conn,
		subject: subject,
		metrics: metrics.DefaultResourceMetrics,
	}
}

// Subject 返回事件发布的 subject
func (p *Publisher) Subject() string {
	return p.subject
}

// PublishLoginEvent 发布登录事件。NATS Publish 只写入本地缓冲，不会阻塞在网络上
func (p *Publisher) PublishLoginEvent(_ context.Context, event LoginEvent) error {
	if p == nil || p.conn == nil {
		return nil // 没有连接时静默降级
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal login event failed: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		p.metrics.RecordNatsPublish(p.subject, false, "")
		return fmt.Errorf("publish login event to %s: %w", p.subject, err)
	}
	p.metrics.RecordNatsPublish(p.subject, true, "")
	return nil
}
