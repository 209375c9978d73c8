package pantry

import (
	"context"

	"go.uber.org/zap"

	"smartpantry/internal/pkg/common"
)

// Sender 訊息發送者
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage 聊天紀錄的一條訊息
type ChatMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// ChatOptions 聊天助手設定
type ChatOptions struct {
	SystemPrompt string
	Greeting     string
}

// ChatState 聊天面板狀態
type ChatState struct {
	Open     bool          `json:"open"`
	Typing   bool          `json:"typing"`
	Messages []ChatMessage `json:"messages"`
}

// OpenChat 打開聊天面板；會話在第一次打開時建立並附上問候語
func (s *Session) OpenChat() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.chat == nil {
		s.chat = s.gateway.CreateChatSession(s.chatCfg.SystemPrompt)
		if s.chatCfg.Greeting != "" {
			s.chatMessages = append(s.chatMessages, ChatMessage{Sender: SenderAI, Text: s.chatCfg.Greeting})
		}
	}
	s.chatOpen = true
	return s.chatState()
}

// CloseChat 關閉聊天面板，紀錄保留
func (s *Session) CloseChat() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.chatOpen = false
	return s.chatState()
}

// Chat 聊天面板狀態
func (s *Session) Chat() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatState()
}

func (s *Session) chatState() ChatState {
	msgs := make([]ChatMessage, len(s.chatMessages))
	copy(msgs, s.chatMessages)
	return ChatState{Open: s.chatOpen, Typing: s.chatTyping, Messages: msgs}
}

// SendChatMessage 發送訊息並串流回覆；每個片段都會先併入紀錄再交給 onFragment
// 串流不隨請求取消，會一直跑到完成或失敗
func (s *Session) SendChatMessage(ctx context.Context, text string, onFragment func(fragment string)) (Notice, error) {
	if common.IsBlank(text) {
		return Notice{}, common.WithMessage(common.ErrInvalidRequest, "message is empty")
	}

	s.mu.Lock()
	s.touch()
	if s.chat == nil {
		s.mu.Unlock()
		n := failure(msgChatNotReady)
		return n, common.WithMessage(common.ErrConflict, n.Message)
	}
	if s.chatTyping {
		s.mu.Unlock()
		return Notice{}, common.ErrStreamInFlight
	}
	s.chatTyping = true
	s.chatMessages = append(s.chatMessages, ChatMessage{Sender: SenderUser, Text: text})
	session := s.chat
	s.mu.Unlock()

	var full string
	_, err := s.gateway.StreamReply(context.WithoutCancel(ctx), session, text, func(fragment string) error {
		s.mu.Lock()
		full += fragment
		s.foldReply(full)
		s.mu.Unlock()
		if onFragment != nil {
			onFragment(fragment)
		}
		return nil
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatTyping = false
	if err != nil {
		common.LogWarn("Chat reply failed", zap.String("session_id", s.ID), zap.Error(err))
		s.chatMessages = append(s.chatMessages, ChatMessage{Sender: SenderAI, Text: msgChatApology})
		return failure(msgChatFailed), err
	}
	return Notice{}, nil
}

// foldReply 最後一條是 AI 訊息時覆寫，否則新增
func (s *Session) foldReply(full string) {
	if n := len(s.chatMessages); n > 0 && s.chatMessages[n-1].Sender == SenderAI {
		s.chatMessages[n-1].Text = full
		return
	}
	s.chatMessages = append(s.chatMessages, ChatMessage{Sender: SenderAI, Text: full})
}
