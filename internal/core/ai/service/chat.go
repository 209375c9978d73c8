package service

import (
	"context"
	"sync"
	"time"

	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/infrastructure/monitoring"
	"smartpantry/internal/pkg/common"
)

// ChatSession 多輪對話，同一時間只允許一個串流
type ChatSession struct {
	svc          *Service
	systemPrompt string

	mu        sync.Mutex
	history   []provider.Message
	streaming bool
}

func newChatSession(svc *Service, systemPrompt string) *ChatSession {
	return &ChatSession{svc: svc, systemPrompt: systemPrompt}
}

// transcript 已完成的對話紀錄
func (c *ChatSession) transcript() []provider.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]provider.Message, len(c.history))
	copy(out, c.history)
	return out
}

// inFlight 是否有串流進行中
func (c *ChatSession) inFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// StreamReply 發送使用者訊息並按順序回調回覆片段
// 串流進行中再次呼叫返回 ErrStreamInFlight；失敗時不寫入歷史
func (c *ChatSession) StreamReply(ctx context.Context, text string, onFragment provider.FragmentHandler) (string, error) {
	c.mu.Lock()
	if c.streaming {
		c.mu.Unlock()
		return "", common.ErrStreamInFlight
	}
	c.streaming = true
	messages := make([]provider.Message, 0, len(c.history)+2)
	if c.systemPrompt != "" {
		messages = append(messages, provider.Message{Role: provider.RoleSystem, Content: c.systemPrompt})
	}
	messages = append(messages, c.history...)
	messages = append(messages, provider.Message{Role: provider.RoleUser, Content: text})
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.streaming = false
		c.mu.Unlock()
	}()

	started := time.Now()
	resp, err := c.svc.provider.Stream(ctx, &provider.Request{Messages: messages}, onFragment)
	monitoring.ObserveAIRequest(OpChat, started, err)
	common.LogAICall(OpChat, time.Since(started), err)
	if err != nil {
		return "", asServiceError(err)
	}

	c.mu.Lock()
	c.history = append(c.history,
		provider.Message{Role: provider.RoleUser, Content: text},
		provider.Message{Role: provider.RoleAssistant, Content: resp.Content},
	)
	c.mu.Unlock()
	return resp.Content, nil
}
