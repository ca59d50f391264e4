package handler

import (
	"context"
	"errors"
	"log"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/game/room"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
	"github.com/palemoky/mighty/internal/server/session"
	"github.com/palemoky/mighty/internal/server/storage"
	"github.com/palemoky/mighty/internal/types"
)

// HistoryStore 对局历史查询（MongoDB 归档）
type HistoryStore interface {
	RecentRounds(ctx context.Context, playerID string, limit int64) ([]storage.RoundRecord, error)
}

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server         types.ServerInterface
	RoomManager    *room.RoomManager
	Leaderboard    *storage.LeaderboardManager // 可为 nil
	History        HistoryStore                // 可为 nil
	SessionManager *session.SessionManager
}

// Handler 消息处理器
type Handler struct {
	server         types.ServerInterface
	roomManager    *room.RoomManager
	leaderboard    *storage.LeaderboardManager
	history        HistoryStore
	sessionManager *session.SessionManager
	handlers       map[protocol.MessageType]handlerFunc
}

// handlerFunc 返回值作为 ack 的 data 返回给请求方
type handlerFunc func(client types.ClientInterface, msg *protocol.Message) (any, error)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:         deps.Server,
		roomManager:    deps.RoomManager,
		leaderboard:    deps.Leaderboard,
		history:        deps.History,
		sessionManager: deps.SessionManager,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 大厅与房间
		protocol.MsgRoomList:      h.handleRoomList,
		protocol.MsgCreateRoom:    h.handleCreateRoom,
		protocol.MsgJoinRoom:      h.handleJoinRoom,
		protocol.MsgLeaveRoom:     h.handleLeaveRoom,
		protocol.MsgSetNickname:   h.handleSetNickname,
		protocol.MsgNicknameQuery: h.handleNicknameQuery,
		protocol.MsgReady:         h.handleReady,

		// 游戏操作
		protocol.MsgDealMiss:        h.handleDealMiss,
		protocol.MsgCommitment:      h.handleCommitment,
		protocol.MsgFriendSelection: h.handleFriendSelection,
		protocol.MsgPlay:            h.handlePlay,

		// 信息查询
		protocol.MsgGetStats:       h.handleGetStats,
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
		protocol.MsgGetHistory:     h.handleGetHistory,
	}
}

// Handle 处理消息；ping 直接回复 pong，其余请求一律回复 ack
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if msg.Type == protocol.MsgPing {
		h.handlePing(client, msg)
		return
	}

	handler, ok := h.handlers[msg.Type]
	if !ok {
		log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, client.GetName(), client.GetID())
		client.SendMessage(codec.NewNack(msg.ID, protocol.ErrCodeInvalidMsg, "未知的消息类型"))
		return
	}

	data, err := handler(client, msg)
	if err != nil {
		sendNack(client, msg, err)
		return
	}
	client.SendMessage(codec.NewAck(msg.ID, data))
}

// sendNack 将错误转换为失败应答，非游戏错误只记录日志
func sendNack(client types.ClientInterface, msg *protocol.Message, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewNack(msg.ID, gameErr.Code, gameErr.Message))
		return
	}

	log.Printf("❗ 处理 %s 失败 (玩家 %s): %v", msg.Type, client.GetID(), err)
	client.SendMessage(codec.NewNack(msg.ID, protocol.ErrCodeUnknown, protocol.ErrorMessages[protocol.ErrCodeUnknown]))
}

// parse 解析负载，格式错误统一返回 ErrInvalidRequest
func parse[T any](msg *protocol.Message) (*T, error) {
	payload, err := codec.ParsePayload[T](msg)
	if err != nil {
		return nil, apperrors.ErrInvalidRequest.WithMessage("无效的消息负载: " + err.Error())
	}
	return payload, nil
}
