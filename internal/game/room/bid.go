package room

import (
	"log"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/game/rule"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
	"github.com/palemoky/mighty/internal/protocol/convert"
	"github.com/palemoky/mighty/internal/types"
)

// startBidding 进入叫牌阶段，从行动顺序首位开始
func (rm *RoomManager) startBidding(r *Room) {
	r.Phase = PhaseCommitment
	r.turn = 0
	rm.announceBidTurn(r)
	log.Printf("📢 房间 %s 开始叫牌", r.Code)
}

func (rm *RoomManager) announceBidTurn(r *Room) {
	r.Broadcast(codec.MustNewMessage(protocol.MsgCommitmentRequest, protocol.CommitmentRequestPayload{
		PlayerID: r.currentID(),
		Current:  convert.BidPtrToProtocol(r.commitment),
	}))
	rm.startBidTimer(r)
}

// Commit 叫牌，bid 为 nil 表示不叫
func (rm *RoomManager) Commit(client types.ClientInterface, bid *rule.Commitment) error {
	return rm.withRoom(client, func(r *Room, p *RoomPlayer) error {
		if err := r.requirePhase(PhaseCommitment); err != nil {
			return err
		}
		if r.currentID() != client.GetID() {
			return apperrors.ErrNotYourTurn
		}
		if bid != nil {
			if err := rule.ValidateBid(r.commitment, *bid); err != nil {
				return err
			}
		}
		rm.applyCommit(r, client.GetID(), bid)
		return nil
	})
}

// applyCommit 应用已校验的叫牌或不叫，调用方需持有锁
func (rm *RoomManager) applyCommit(r *Room, id string, bid *rule.Commitment) {
	player := r.Players[id]

	if bid == nil {
		player.Commit = CommitPassed
	} else {
		c := *bid
		player.Commit = CommitCommitted
		r.commitment = &c
	}

	r.Broadcast(codec.MustNewMessage(protocol.MsgCommitment, protocol.CommitmentBroadcastPayload{
		PlayerID: id,
		Bid:      convert.BidPtrToProtocol(bid),
	}))

	if bid != nil && bid.Effective() >= rule.ImmediateEffective {
		for otherID, other := range r.Players {
			if otherID != id {
				other.Commit = CommitPassed
			}
		}
		rm.enterPresidentReady(r, id)
		return
	}

	committed, passed, last := 0, 0, ""
	for pid, p := range r.Players {
		switch p.Commit {
		case CommitCommitted:
			committed++
			last = pid
		case CommitPassed:
			passed++
		case CommitNone:
		}
	}

	switch {
	case committed == 1 && passed == MaxPlayers-1:
		rm.enterPresidentReady(r, last)
	case passed == MaxPlayers:
		rm.fullReset(r, ResetAllPassed, "")
	default:
		rm.advanceBidTurn(r)
	}
}

// advanceBidTurn 轮到下一个未放弃的玩家
func (rm *RoomManager) advanceBidTurn(r *Room) {
	n := len(r.PlayerOrder)
	for step := 1; step <= n; step++ {
		next := (r.turn + step) % n
		if r.Players[r.PlayerOrder[next]].Commit != CommitPassed {
			r.turn = next
			break
		}
	}
	rm.announceBidTurn(r)
}

// enterPresidentReady 确定主公，等待弃牌选友
func (rm *RoomManager) enterPresidentReady(r *Room, presidentID string) {
	rm.stopBidTimer(r)

	r.Phase = PhasePresidentReady
	r.president = presidentID
	r.turn = 0

	r.Broadcast(codec.MustNewMessage(protocol.MsgWaitingPresident, protocol.WaitingPresidentPayload{
		President: presidentID,
		Bid:       convert.BidToProtocol(*r.commitment),
	}))
	r.sendTo(presidentID, codec.MustNewMessage(protocol.MsgFloorCards, protocol.FloorCardsPayload{
		Cards: r.floor.Codes(),
	}))

	log.Printf("👑 房间 %s 主公 %s，叫牌 %s", r.Code, presidentID, r.commitment)
}
