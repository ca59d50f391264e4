package session

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/mighty/internal/apperrors"
)

func TestSessionManager_CRUD(t *testing.T) {
	t.Parallel()
	sm := NewSessionManager()

	session := sm.CreateSession("p1")
	require.NotNil(t, session)
	assert.Equal(t, "p1", session.PlayerID)
	assert.NotEmpty(t, session.Nickname)
	assert.False(t, session.ConnectedAt.IsZero())
	assert.Equal(t, 1, sm.Count())

	got := sm.GetSession("p1")
	assert.Equal(t, session, got)

	sm.DeleteSession("p1")
	assert.Nil(t, sm.GetSession("p1"))
	assert.Zero(t, sm.Count())

	// 删除不存在的会话不会出错
	sm.DeleteSession("p1")
}

func TestSessionManager_SetNickname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain", "Alice", "Alice", nil},
		{"trimmed", "  Bob \t", "Bob", nil},
		{"unicode", "大胆的主公", "大胆的主公", nil},
		{"max length", strings.Repeat("字", MaxNicknameLength), strings.Repeat("字", MaxNicknameLength), nil},
		{"empty", "", "", apperrors.ErrInvalidNickname},
		{"blank", "   ", "", apperrors.ErrInvalidNickname},
		{"too long", strings.Repeat("a", MaxNicknameLength+1), "", apperrors.ErrInvalidNickname},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sm := NewSessionManager()
			original := sm.CreateSession("p1").Nickname

			got, err := sm.SetNickname("p1", tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, original, sm.GetSession("p1").Nickname)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, sm.GetSession("p1").Nickname)
		})
	}
}

func TestSessionManager_SetNicknameUnknown(t *testing.T) {
	t.Parallel()
	sm := NewSessionManager()

	_, err := sm.SetNickname("ghost", "Alice")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestSessionManager_Nicknames(t *testing.T) {
	t.Parallel()
	sm := NewSessionManager()
	sm.CreateSession("p1")
	sm.CreateSession("p2")
	_, err := sm.SetNickname("p1", "Alice")
	require.NoError(t, err)

	names := sm.Nicknames([]string{"p1", "p2", "ghost"})
	assert.Len(t, names, 2)
	assert.Equal(t, "Alice", names["p1"])
	assert.Equal(t, sm.GetSession("p2").Nickname, names["p2"])

	assert.Empty(t, sm.Nicknames(nil))
}

func TestSessionManager_Concurrent(t *testing.T) {
	t.Parallel()
	sm := NewSessionManager()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			sm.CreateSession(id)
			_, _ = sm.SetNickname(id, "n"+id)
			_ = sm.Nicknames([]string{id})
		}(fmt.Sprintf("p%d", i))
	}
	wg.Wait()

	assert.Equal(t, 50, sm.Count())
	assert.Equal(t, "np7", sm.GetSession("p7").Nickname)
}

func TestGenerateNickname(t *testing.T) {
	t.Parallel()

	for range 20 {
		name := GenerateNickname()
		assert.NoError(t, ValidateNickname(name))
		assert.LessOrEqual(t, utf8.RuneCountInString(name), MaxNicknameLength)
	}
}
