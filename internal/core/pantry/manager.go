// Package pantry 是每個使用者會話的應用控制器：食材、篩選、搜尋、收藏、烹調與聊天
package pantry

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"smartpantry/internal/core/catalog"
	"smartpantry/internal/infrastructure/monitoring"
	"smartpantry/internal/infrastructure/storage"
	"smartpantry/internal/pkg/common"
)

// Options 會話管理器設定
type Options struct {
	Store         storage.Store
	Catalog       *catalog.Catalog
	ImageWorkers  int
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	Chat          ChatOptions
}

type sessionDeps struct {
	gateway Gateway
	store   storage.Store
	catalog *catalog.Catalog
	images  *imageFanout
	chat    ChatOptions
	now     func() time.Time
}

// Manager 會話註冊表，閒置過久的會話會被回收
type Manager struct {
	opts   Options
	deps   sessionDeps
	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewManager 創建會話管理器
func NewManager(gateway Gateway, opts Options) *Manager {
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	m.deps = sessionDeps{
		gateway: gateway,
		store:   opts.Store,
		catalog: opts.Catalog,
		images:  newImageFanout(ctx, gateway, opts.ImageWorkers),
		chat:    opts.Chat,
		now:     func() time.Time { return m.now() },
	}
	return m
}

// Create 建立新會話；clientID 決定收藏的命名空間，空值時自動產生
func (m *Manager) Create(clientID string) *Session {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		clientID = common.GenerateUUID()
	}
	s := newSession(common.GenerateUUID(), clientID, m.deps)

	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	monitoring.SetActiveSessions(n)
	common.LogInfo("Session created",
		zap.String("session_id", s.ID),
		zap.String("client_id", clientID),
	)
	return s
}

// Get 取得會話
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, common.ErrSessionNotFound
	}
	return s, nil
}

// Delete 結束會話，進行中的圖片工作完成後結果直接丟棄
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return common.ErrSessionNotFound
	}
	monitoring.SetActiveSessions(n)
	common.LogInfo("Session deleted", zap.String("session_id", id))
	return nil
}

// Len 目前會話數
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartSweeper 定期回收閒置會話
func (m *Manager) StartSweeper() {
	if m.opts.IdleTimeout <= 0 || m.opts.SweepInterval <= 0 {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.opts.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.stop:
				return
			}
		}
	}()
}

// sweep 移除閒置超過 IdleTimeout 的會話，返回移除數量
func (m *Manager) sweep() int {
	cutoff := m.now().Add(-m.opts.IdleTimeout)

	m.mu.RLock()
	var expired []string
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()

	if len(expired) == 0 {
		return 0
	}

	m.mu.Lock()
	for _, id := range expired {
		delete(m.sessions, id)
	}
	n := len(m.sessions)
	m.mu.Unlock()

	monitoring.SetActiveSessions(n)
	common.LogInfo("Expired idle sessions", zap.Int("expired", len(expired)), zap.Int("remaining", n))
	return len(expired)
}

// Close 停止回收並取消背景圖片工作
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.cancel()
	})
	m.wg.Wait()
}
