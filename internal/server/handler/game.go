package handler

import (
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/convert"
	"github.com/palemoky/mighty/internal/types"
)

// handleDealMiss 宣告或确认 deal-miss
func (h *Handler) handleDealMiss(client types.ClientInterface, msg *protocol.Message) (any, error) {
	payload, err := parse[protocol.DealMissPayload](msg)
	if err != nil {
		return nil, err
	}
	return nil, h.roomManager.DealMiss(client, payload.Declare)
}

// handleCommitment 叫牌或不叫
func (h *Handler) handleCommitment(client types.ClientInterface, msg *protocol.Message) (any, error) {
	payload, err := parse[protocol.CommitmentPayload](msg)
	if err != nil {
		return nil, err
	}
	return nil, h.roomManager.Commit(client, convert.ProtocolToBidPtr(payload.Bid))
}

// handleFriendSelection 主公弃牌、选友
func (h *Handler) handleFriendSelection(client types.ClientInterface, msg *protocol.Message) (any, error) {
	payload, err := parse[protocol.FriendSelectionPayload](msg)
	if err != nil {
		return nil, err
	}

	sel, err := convert.ProtocolToFriend(payload.Friend)
	if err != nil {
		// 阶段和主公身份的错误优先于选友格式错误
		if stateErr := h.roomManager.RequirePresident(client); stateErr != nil {
			return nil, stateErr
		}
		return nil, err
	}
	return nil, h.roomManager.SelectFriend(client, payload.FloorCards, sel, convert.ProtocolToBidPtr(payload.Bid))
}

// handlePlay 出牌
func (h *Handler) handlePlay(client types.ClientInterface, msg *protocol.Message) (any, error) {
	payload, err := parse[protocol.PlayPayload](msg)
	if err != nil {
		return nil, err
	}
	return nil, h.roomManager.Play(client, payload.Card, payload.Suit, payload.JokerCall)
}
