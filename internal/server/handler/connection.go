package handler

import (
	"time"

	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
	"github.com/palemoky/mighty/internal/types"
)

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// maxNicknameQuery 单次最多查询的昵称数
const maxNicknameQuery = 50

// handleSetNickname 设置昵称，同步到连接上的玩家名
func (h *Handler) handleSetNickname(client types.ClientInterface, msg *protocol.Message) (any, error) {
	payload, err := parse[protocol.SetNicknamePayload](msg)
	if err != nil {
		return nil, err
	}

	name, err := h.sessionManager.SetNickname(client.GetID(), payload.Name)
	if err != nil {
		return nil, err
	}
	client.SetName(name)
	return protocol.SetNicknamePayload{Name: name}, nil
}

// handleNicknameQuery 批量查询昵称
func (h *Handler) handleNicknameQuery(client types.ClientInterface, msg *protocol.Message) (any, error) {
	payload, err := parse[protocol.NicknameQueryPayload](msg)
	if err != nil {
		return nil, err
	}

	ids := payload.IDs
	if len(ids) > maxNicknameQuery {
		ids = ids[:maxNicknameQuery]
	}
	return h.sessionManager.Nicknames(ids), nil
}
