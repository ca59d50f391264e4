package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/mighty/internal/game/room"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
	"github.com/palemoky/mighty/internal/server/session"
	"github.com/palemoky/mighty/internal/server/storage"
	"github.com/palemoky/mighty/internal/testutil"
)

type testEnv struct {
	h       *Handler
	rm      *room.RoomManager
	sm      *session.SessionManager
	server  *testutil.MockServer
	clients []*testutil.SimpleClient
}

// newTestEnv 创建处理器和五个已建立会话的客户端
func newTestEnv(t *testing.T, lm *storage.LeaderboardManager) *testEnv {
	t.Helper()

	server := new(testutil.MockServer)
	server.On("IsMaintenanceMode").Return(false).Maybe()

	env := &testEnv{
		rm:     room.NewRoomManager(nil, room.WithDealer(room.FixedDealer(room.StandardTestDeal))),
		sm:     session.NewSessionManager(),
		server: server,
	}
	env.h = NewHandler(HandlerDeps{
		Server:         server,
		RoomManager:    env.rm,
		Leaderboard:    lm,
		SessionManager: env.sm,
	})

	for i := range room.MaxPlayers {
		id := fmt.Sprintf("p%d", i+1)
		s := env.sm.CreateSession(id)
		env.clients = append(env.clients, testutil.NewSimpleClient(id, s.Nickname))
	}
	return env
}

// ackResult 便于解码 data 的应答结构
type ackResult struct {
	OK      bool            `json:"ok"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var seq int

// send 发送请求并返回对应的应答
func send(t *testing.T, h *Handler, c *testutil.SimpleClient, msgType protocol.MessageType, payload any) ackResult {
	t.Helper()

	seq++
	msg := codec.MustNewMessage(msgType, payload)
	msg.ID = fmt.Sprintf("req-%d", seq)
	h.Handle(c, msg)

	last := c.Last(protocol.MsgAck)
	require.NotNil(t, last, "没有收到应答")
	require.Equal(t, msg.ID, last.ID)

	var ack ackResult
	require.NoError(t, json.Unmarshal(last.Payload, &ack))
	return ack
}

func decodeData[T any](t *testing.T, ack ackResult) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(ack.Data, &v))
	return v
}

func requireOK(t *testing.T, ack ackResult) {
	t.Helper()
	require.True(t, ack.OK, "code=%d message=%s", ack.Code, ack.Message)
}

func TestHandler_UnknownType(t *testing.T) {
	env := newTestEnv(t, nil)
	c := env.clients[0]

	env.h.Handle(c, &protocol.Message{Type: "bogus", ID: "x1"})

	last := c.Last(protocol.MsgAck)
	require.NotNil(t, last)
	assert.Equal(t, "x1", last.ID)
	ack, err := codec.ParsePayload[protocol.AckPayload](last)
	require.NoError(t, err)
	assert.False(t, ack.OK)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, ack.Code)
}

func TestHandler_Ping(t *testing.T) {
	env := newTestEnv(t, nil)
	c := env.clients[0]

	env.h.Handle(c, codec.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 42}))

	pong := c.Last(protocol.MsgPong)
	require.NotNil(t, pong)
	p, err := codec.ParsePayload[protocol.PongPayload](pong)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ClientTimestamp)
	assert.Positive(t, p.ServerTimestamp)
	assert.Zero(t, c.Count(protocol.MsgAck))
}

func TestHandler_RoomFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	host, guest := env.clients[0], env.clients[1]

	ack := send(t, env.h, host, protocol.MsgCreateRoom, nil)
	requireOK(t, ack)
	info := decodeData[protocol.RoomInfo](t, ack)
	require.NotEmpty(t, info.RoomID)
	assert.Len(t, info.Players, 1)

	ack = send(t, env.h, guest, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: info.RoomID})
	requireOK(t, ack)
	joined := decodeData[protocol.RoomInfo](t, ack)
	assert.Len(t, joined.Players, 2)
	assert.NotNil(t, host.Last(protocol.MsgJoinRoom))

	ack = send(t, env.h, guest, protocol.MsgRoomList, nil)
	requireOK(t, ack)
	list := decodeData[[]protocol.RoomListItem](t, ack)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].PlayerCount)

	ack = send(t, env.h, env.clients[2], protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: "missing"})
	assert.False(t, ack.OK)
	assert.Equal(t, protocol.ErrCodeRoomNotFound, ack.Code)

	ack = send(t, env.h, guest, protocol.MsgCreateRoom, nil)
	assert.Equal(t, protocol.ErrCodeAlreadyInRoom, ack.Code)

	ack = send(t, env.h, guest, protocol.MsgLeaveRoom, nil)
	requireOK(t, ack)
	assert.Empty(t, guest.GetRoom())

	ack = send(t, env.h, guest, protocol.MsgLeaveRoom, nil)
	assert.Equal(t, protocol.ErrCodeNotInRoom, ack.Code)
}

func TestHandler_InvalidPayload(t *testing.T) {
	env := newTestEnv(t, nil)
	c := env.clients[0]

	msg := &protocol.Message{Type: protocol.MsgJoinRoom, ID: "bad", Payload: json.RawMessage(`{"room_id":5}`)}
	env.h.Handle(c, msg)

	ack, err := codec.ParsePayload[protocol.AckPayload](c.Last(protocol.MsgAck))
	require.NoError(t, err)
	assert.False(t, ack.OK)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, ack.Code)
	assert.Empty(t, c.GetRoom())
}

func TestHandler_Maintenance(t *testing.T) {
	server := new(testutil.MockServer)
	server.On("IsMaintenanceMode").Return(true)

	h := NewHandler(HandlerDeps{
		Server:         server,
		RoomManager:    room.NewRoomManager(nil),
		SessionManager: session.NewSessionManager(),
	})
	c := testutil.NewSimpleClient("p1", "P1")

	ack := send(t, h, c, protocol.MsgCreateRoom, nil)
	assert.False(t, ack.OK)
	assert.Equal(t, protocol.ErrCodeServerMaintenance, ack.Code)

	ack = send(t, h, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: "r"})
	assert.Equal(t, protocol.ErrCodeServerMaintenance, ack.Code)

	ack = send(t, h, c, protocol.MsgRoomList, nil)
	requireOK(t, ack)
	server.AssertExpectations(t)
}

func TestHandler_Nickname(t *testing.T) {
	env := newTestEnv(t, nil)
	c := env.clients[0]

	ack := send(t, env.h, c, protocol.MsgSetNickname, protocol.SetNicknamePayload{Name: "  Alice "})
	requireOK(t, ack)
	assert.Equal(t, "Alice", decodeData[protocol.SetNicknamePayload](t, ack).Name)
	assert.Equal(t, "Alice", c.GetName())

	ack = send(t, env.h, c, protocol.MsgSetNickname, protocol.SetNicknamePayload{Name: " "})
	assert.False(t, ack.OK)
	assert.Equal(t, protocol.ErrCodeInvalidNickname, ack.Code)
	assert.Equal(t, "Alice", c.GetName())

	ack = send(t, env.h, c, protocol.MsgNicknameQuery, protocol.NicknameQueryPayload{IDs: []string{"p1", "p2", "ghost"}})
	requireOK(t, ack)
	names := decodeData[map[string]string](t, ack)
	assert.Equal(t, "Alice", names["p1"])
	assert.Equal(t, env.clients[1].GetName(), names["p2"])
	assert.NotContains(t, names, "ghost")
}

func TestHandler_GameFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	cs := env.clients

	ack := send(t, env.h, cs[0], protocol.MsgCreateRoom, nil)
	requireOK(t, ack)
	code := decodeData[protocol.RoomInfo](t, ack).RoomID
	for _, c := range cs[1:] {
		requireOK(t, send(t, env.h, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: code}))
	}

	ack = send(t, env.h, cs[0], protocol.MsgDealMiss, protocol.DealMissPayload{})
	assert.Equal(t, protocol.ErrCodeWrongPhase, ack.Code)

	for _, c := range cs {
		requireOK(t, send(t, env.h, c, protocol.MsgReady, protocol.ReadyPayload{Ready: true}))
	}
	require.NotNil(t, cs[0].Last(protocol.MsgDeal))

	ack = send(t, env.h, cs[0], protocol.MsgDealMiss, protocol.DealMissPayload{Declare: true})
	assert.Equal(t, protocol.ErrCodeDealMissDenied, ack.Code)
	for _, c := range cs {
		requireOK(t, send(t, env.h, c, protocol.MsgDealMiss, protocol.DealMissPayload{}))
	}

	ack = send(t, env.h, cs[0], protocol.MsgCommitment, protocol.CommitmentPayload{Bid: &protocol.Bid{Giruda: "N", Score: 11}})
	assert.Equal(t, protocol.ErrCodeInvalidBid, ack.Code)
	ack = send(t, env.h, cs[0], protocol.MsgCommitment, protocol.CommitmentPayload{Bid: &protocol.Bid{Giruda: "X", Score: 13}})
	assert.Equal(t, protocol.ErrCodeInvalidBid, ack.Code)
	requireOK(t, send(t, env.h, cs[0], protocol.MsgCommitment, protocol.CommitmentPayload{Bid: &protocol.Bid{Giruda: "S", Score: 13}}))

	ack = send(t, env.h, cs[2], protocol.MsgCommitment, protocol.CommitmentPayload{})
	assert.Equal(t, protocol.ErrCodeNotYourTurn, ack.Code)
	for _, c := range cs[1:] {
		requireOK(t, send(t, env.h, c, protocol.MsgCommitment, protocol.CommitmentPayload{}))
	}
	require.NotNil(t, cs[0].Last(protocol.MsgFloorCards))

	ack = send(t, env.h, cs[0], protocol.MsgFriendSelection, protocol.FriendSelectionPayload{
		FloorCards: []string{"S2", "S3", "S4"},
		Friend:     protocol.FriendInfo{Mode: "nobody"},
	})
	assert.Equal(t, protocol.ErrCodeInvalidFriend, ack.Code)

	ack = send(t, env.h, cs[1], protocol.MsgFriendSelection, protocol.FriendSelectionPayload{
		FloorCards: []string{"SQ", "SK", "SA"},
		Friend:     protocol.FriendInfo{Mode: "first-trick"},
	})
	assert.Equal(t, protocol.ErrCodeNotPresident, ack.Code)

	requireOK(t, send(t, env.h, cs[0], protocol.MsgFriendSelection, protocol.FriendSelectionPayload{
		FloorCards: []string{"S2", "S3", "S4"},
		Friend:     protocol.FriendInfo{Mode: "card", Card: "DA"},
	}))
	announce := cs[4].Last(protocol.MsgFriendSelection)
	require.NotNil(t, announce)

	ack = send(t, env.h, cs[1], protocol.MsgPlay, protocol.PlayPayload{Card: "SQ"})
	assert.Equal(t, protocol.ErrCodeNotYourTurn, ack.Code)
	ack = send(t, env.h, cs[0], protocol.MsgPlay, protocol.PlayPayload{Card: "DA"})
	assert.Equal(t, protocol.ErrCodeCardNotOwned, ack.Code)
	requireOK(t, send(t, env.h, cs[0], protocol.MsgPlay, protocol.PlayPayload{Card: "HA"}))

	turn, err := codec.ParsePayload[protocol.TurnPayload](cs[3].Last(protocol.MsgTurn))
	require.NoError(t, err)
	assert.Equal(t, "p2", turn.PlayerID)

	ack = send(t, env.h, cs[1], protocol.MsgLeaveRoom, nil)
	assert.Equal(t, protocol.ErrCodeGameStarted, ack.Code)
}

func newLeaderboard(t *testing.T) *storage.LeaderboardManager {
	t.Helper()
	mr := miniredis.RunT(t)
	return storage.NewLeaderboardManager(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestHandler_StatsDisabled(t *testing.T) {
	env := newTestEnv(t, nil)

	ack := send(t, env.h, env.clients[0], protocol.MsgGetStats, nil)
	assert.False(t, ack.OK)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, ack.Code)

	ack = send(t, env.h, env.clients[0], protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{})
	assert.False(t, ack.OK)
}

func TestHandler_Stats(t *testing.T) {
	lm := newLeaderboard(t)
	env := newTestEnv(t, lm)
	c := env.clients[0]

	ack := send(t, env.h, c, protocol.MsgGetStats, nil)
	requireOK(t, ack)
	empty := decodeData[protocol.StatsResultPayload](t, ack)
	assert.Equal(t, "p1", empty.PlayerID)
	assert.Zero(t, empty.TotalGames)
	assert.Equal(t, -1, empty.Rank)

	ctx := context.Background()
	require.NoError(t, lm.RecordGameResult(ctx, "p1", "Alice", "president", true))
	require.NoError(t, lm.RecordGameResult(ctx, "p2", "Bob", "opposition", false))

	ack = send(t, env.h, c, protocol.MsgGetStats, nil)
	requireOK(t, ack)
	stats := decodeData[protocol.StatsResultPayload](t, ack)
	assert.Equal(t, "Alice", stats.PlayerName)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.PresidentWins)
	assert.Equal(t, storage.WinAsPresident, stats.Score)
	assert.Equal(t, 1, stats.Rank)
	assert.InDelta(t, 100.0, stats.WinRate, 0.001)
}

func TestHandler_Leaderboard(t *testing.T) {
	lm := newLeaderboard(t)
	env := newTestEnv(t, lm)
	ctx := context.Background()

	require.NoError(t, lm.RecordGameResult(ctx, "p1", "Alice", "friend", true))
	require.NoError(t, lm.RecordGameResult(ctx, "p2", "Bob", "president", true))

	tests := []struct {
		name    string
		payload protocol.GetLeaderboardPayload
		ok      bool
		want    []string
	}{
		{"default type", protocol.GetLeaderboardPayload{}, true, []string{"p2", "p1"}},
		{"total", protocol.GetLeaderboardPayload{Type: "total", Limit: 1}, true, []string{"p2"}},
		{"offset", protocol.GetLeaderboardPayload{Type: "total", Offset: 1, Limit: 5}, true, []string{"p1"}},
		{"daily", protocol.GetLeaderboardPayload{Type: "daily", Limit: 100}, true, []string{"p2", "p1"}},
		{"unknown", protocol.GetLeaderboardPayload{Type: "monthly"}, false, nil},
	}

	for _, tt := range tests {
		ack := send(t, env.h, env.clients[0], protocol.MsgGetLeaderboard, tt.payload)
		if !tt.ok {
			assert.False(t, ack.OK, tt.name)
			assert.Equal(t, protocol.ErrCodeInvalidMsg, ack.Code, tt.name)
			continue
		}
		requireOK(t, ack)
		board := decodeData[protocol.LeaderboardResultPayload](t, ack)
		ids := make([]string, 0, len(board.Entries))
		for _, e := range board.Entries {
			ids = append(ids, e.PlayerID)
		}
		assert.Equal(t, tt.want, ids, tt.name)
	}
}

// toPresidentReady 建房、发牌并由 p1 以 S13 成为主公
func toPresidentReady(t *testing.T, env *testEnv) {
	t.Helper()
	cs := env.clients

	ack := send(t, env.h, cs[0], protocol.MsgCreateRoom, nil)
	requireOK(t, ack)
	code := decodeData[protocol.RoomInfo](t, ack).RoomID
	for _, c := range cs[1:] {
		requireOK(t, send(t, env.h, c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomID: code}))
	}
	for _, c := range cs {
		requireOK(t, send(t, env.h, c, protocol.MsgReady, protocol.ReadyPayload{Ready: true}))
	}
	for _, c := range cs {
		requireOK(t, send(t, env.h, c, protocol.MsgDealMiss, protocol.DealMissPayload{}))
	}
	requireOK(t, send(t, env.h, cs[0], protocol.MsgCommitment, protocol.CommitmentPayload{Bid: &protocol.Bid{Giruda: "S", Score: 13}}))
	for _, c := range cs[1:] {
		requireOK(t, send(t, env.h, c, protocol.MsgCommitment, protocol.CommitmentPayload{}))
	}
}

func TestHandler_FriendSelectionErrorPrecedence(t *testing.T) {
	env := newTestEnv(t, nil)
	cs := env.clients
	bad := protocol.FriendSelectionPayload{
		FloorCards: []string{"S2", "S3", "S4"},
		Friend:     protocol.FriendInfo{Mode: "card", Card: "??"},
	}

	ack := send(t, env.h, cs[1], protocol.MsgFriendSelection, bad)
	assert.Equal(t, protocol.ErrCodeNotInRoom, ack.Code, "不在房间")

	toPresidentReady(t, env)

	tests := []struct {
		name   string
		sender int
		want   int
	}{
		{"非主公", 1, protocol.ErrCodeNotPresident},
		{"主公", 0, protocol.ErrCodeInvalidFriend},
	}
	for _, tt := range tests {
		ack := send(t, env.h, cs[tt.sender], protocol.MsgFriendSelection, bad)
		assert.False(t, ack.OK, tt.name)
		assert.Equal(t, tt.want, ack.Code, tt.name)
	}

	// 选友完成后进入主阶段，格式错误的请求报告阶段错误
	requireOK(t, send(t, env.h, cs[0], protocol.MsgFriendSelection, protocol.FriendSelectionPayload{
		FloorCards: []string{"S2", "S3", "S4"},
		Friend:     protocol.FriendInfo{Mode: "first-trick"},
	}))
	ack = send(t, env.h, cs[0], protocol.MsgFriendSelection, bad)
	assert.Equal(t, protocol.ErrCodeWrongPhase, ack.Code)
}

type historyFunc func(ctx context.Context, playerID string, limit int64) ([]storage.RoundRecord, error)

func (f historyFunc) RecentRounds(ctx context.Context, playerID string, limit int64) ([]storage.RoundRecord, error) {
	return f(ctx, playerID, limit)
}

func TestHandler_HistoryDisabled(t *testing.T) {
	env := newTestEnv(t, nil)

	ack := send(t, env.h, env.clients[0], protocol.MsgGetHistory, nil)
	assert.False(t, ack.OK)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, ack.Code)
}

func TestHandler_History(t *testing.T) {
	env := newTestEnv(t, nil)
	finished := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var gotPlayer string
	var gotLimit int64
	env.h.history = historyFunc(func(_ context.Context, playerID string, limit int64) ([]storage.RoundRecord, error) {
		gotPlayer, gotLimit = playerID, limit
		return []storage.RoundRecord{{
			RoomID:       "room-1",
			President:    "p2",
			Giruda:       "H",
			Score:        14,
			ContractMade: true,
			Players: []storage.PlayerRecord{
				{ID: "p2", Name: "Bob", Role: "president", Points: 12, Won: true},
				{ID: "p1", Name: "Alice", Role: "opposition", Points: 3, Won: false},
			},
			FinishedAt: finished,
		}}, nil
	})

	tests := []struct {
		name  string
		limit int
		want  int64
	}{
		{"默认数量", 0, defaultHistoryLimit},
		{"指定数量", 3, 3},
		{"超过上限", 500, defaultHistoryLimit},
	}
	for _, tt := range tests {
		ack := send(t, env.h, env.clients[0], protocol.MsgGetHistory, protocol.GetHistoryPayload{Limit: tt.limit})
		requireOK(t, ack)
		assert.Equal(t, "p1", gotPlayer, tt.name)
		assert.Equal(t, tt.want, gotLimit, tt.name)

		history := decodeData[protocol.HistoryResultPayload](t, ack)
		require.Len(t, history.Rounds, 1, tt.name)
		round := history.Rounds[0]
		assert.Equal(t, "room-1", round.RoomID)
		assert.Equal(t, "p2", round.President)
		assert.Equal(t, "opposition", round.Role)
		assert.Equal(t, 3, round.Points)
		assert.False(t, round.Won)
		assert.True(t, round.ContractMade)
		assert.Equal(t, finished.Unix(), round.FinishedAt)
	}
}

func TestHandler_HistoryStoreError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.h.history = historyFunc(func(context.Context, string, int64) ([]storage.RoundRecord, error) {
		return nil, errors.New("mongo down")
	})

	ack := send(t, env.h, env.clients[0], protocol.MsgGetHistory, nil)
	assert.False(t, ack.OK)
	assert.Equal(t, protocol.ErrCodeUnknown, ack.Code)
}
