package session

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/palemoky/mighty/internal/apperrors"
)

// MaxNicknameLength 昵称最大字符数
const MaxNicknameLength = 16

// PlayerSession 玩家会话，连接断开即删除
type PlayerSession struct {
	PlayerID    string
	Nickname    string
	ConnectedAt time.Time
}

// SessionManager 会话管理器
type SessionManager struct {
	sessions map[string]*PlayerSession // playerID -> session
	mu       sync.RWMutex
}

// NewSessionManager 创建会话管理器
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*PlayerSession),
	}
}

// CreateSession 创建新会话并分配随机昵称
func (sm *SessionManager) CreateSession(playerID string) *PlayerSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session := &PlayerSession{
		PlayerID:    playerID,
		Nickname:    GenerateNickname(),
		ConnectedAt: time.Now(),
	}
	sm.sessions[playerID] = session
	return session
}

// GetSession 获取会话副本，不存在时返回 nil
func (sm *SessionManager) GetSession(playerID string) *PlayerSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if session, ok := sm.sessions[playerID]; ok {
		cp := *session
		return &cp
	}
	return nil
}

// SetNickname 修改昵称，返回去除首尾空白后的昵称
func (sm *SessionManager) SetNickname(playerID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := ValidateNickname(name); err != nil {
		return "", err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[playerID]
	if !ok {
		return "", apperrors.ErrInvalidRequest.WithMessage("会话不存在")
	}
	session.Nickname = name
	return name, nil
}

// ValidateNickname 昵称长度为 1 到 16 个字符
func ValidateNickname(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxNicknameLength {
		return apperrors.ErrInvalidNickname.WithMessage(
			fmt.Sprintf("昵称长度必须在 1 到 %d 个字符之间", MaxNicknameLength))
	}
	return nil
}

// Nicknames 批量查询昵称，忽略不存在的玩家
func (sm *SessionManager) Nicknames(ids []string) map[string]string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if session, ok := sm.sessions[id]; ok {
			names[id] = session.Nickname
		}
	}
	return names
}

// DeleteSession 删除会话
func (sm *SessionManager) DeleteSession(playerID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, playerID)
}

// Count 当前会话数
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
