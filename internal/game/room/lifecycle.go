package room

import (
	"log"
	"slices"
	"time"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/game/card"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
	"github.com/palemoky/mighty/internal/types"
)

// 重置原因
const (
	ResetDealMiss   = "deal-miss"
	ResetAllPassed  = "all-passed"
	ResetPlayerLeft = "player-left"
	ResetRoundOver  = "round-over"
)

// fullReset 作废本局，回到准备阶段；玩家和行动顺序保留
func (rm *RoomManager) fullReset(r *Room, reason, exceptID string) {
	rm.stopBidTimer(r)
	r.bidEpoch++ // 已触发但尚未拿到锁的叫牌计时器随之失效

	r.Phase = PhaseReady
	r.turn = 0
	r.trickIndex = 0
	r.commitment = nil
	r.friendSel = nil
	r.floor = nil
	r.trick = nil
	r.jokerOut = false
	r.president = ""
	r.friend = ""
	for _, p := range r.Players {
		p.PlayerStatus = PlayerStatus{}
	}

	r.BroadcastExcept(exceptID, codec.MustNewMessage(protocol.MsgReset, protocol.ResetPayload{
		Reason:     reason,
		PlayerList: r.playerList(),
	}))

	log.Printf("🔄 房间 %s 重置: %s", r.Code, reason)
}

// deal 发牌并进入 deal-miss 确认阶段
func (rm *RoomManager) deal(r *Room) {
	hands := rm.dealer()
	for i, id := range r.PlayerOrder {
		r.Players[id].Hand = slices.Clone(hands[i])
	}
	r.floor = slices.Clone(hands[card.PlayerCount])
	r.Phase = PhaseDealMissPending

	for _, id := range r.PlayerOrder {
		r.sendTo(id, codec.MustNewMessage(protocol.MsgDeal, protocol.DealPayload{
			Hand:       r.Players[id].Hand.Codes(),
			PlayerList: r.playerList(),
		}))
	}

	log.Printf("🃏 房间 %s 已发牌", r.Code)
}

// DealMiss declare 为 true 时宣告 deal-miss，否则确认手牌
func (rm *RoomManager) DealMiss(client types.ClientInterface, declare bool) error {
	return rm.withRoom(client, func(r *Room, p *RoomPlayer) error {
		if err := r.requirePhase(PhaseDealMissPending); err != nil {
			return err
		}

		if declare {
			if p.Hand.DealPoints() != 0 {
				return apperrors.ErrDealMissDenied
			}
			r.rotateTo(client.GetID())
			rm.fullReset(r, ResetDealMiss, "")
			return nil
		}

		p.CommitReady = true
		for _, other := range r.Players {
			if !other.CommitReady {
				return nil
			}
		}
		rm.startBidding(r)
		return nil
	})
}

// cleanupLoop 定期清理闲置房间
func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rm.cleanup(time.Now())
		case <-rm.stop:
			return
		}
	}
}

// cleanup 关闭准备阶段闲置超时的房间：逐个移出玩家，最后一人离开时房间随之解散
func (rm *RoomManager) cleanup(now time.Time) int {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	closed := 0
	for code, room := range rm.rooms {
		room.mu.Lock()
		if room.Phase == PhaseReady && now.Sub(room.UpdatedAt) > rm.roomTimeout {
			for _, id := range room.playerList() {
				client := room.Players[id].Client
				client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeRoomIdle))
				rm.removePlayer(room, client)
			}
			closed++
			log.Printf("🧹 房间 %s 闲置超时已清理", code)
		}
		room.mu.Unlock()
	}
	return closed
}
