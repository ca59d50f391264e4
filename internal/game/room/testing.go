//go:build !production

package room

import (
	"github.com/palemoky/mighty/internal/game/card"
)

// FixedDealer 按给定编码发牌，前五组为手牌，最后一组为底牌
func FixedDealer(groups [card.PlayerCount + 1][]string) Dealer {
	var hands [card.PlayerCount + 1]card.Hand
	for i, codes := range groups {
		hand := make(card.Hand, len(codes))
		for j, code := range codes {
			hand[j] = card.MustParse(code)
		}
		if i < card.PlayerCount {
			hand.Sort()
		}
		hands[i] = hand
	}
	return func() [card.PlayerCount + 1]card.Hand {
		return hands
	}
}

// StandardTestDeal 固定牌局：
// p1 S2-SJ，p2 SQ-SA D2-D8，p3 D9-DA C2-C5，p4 C6-CA H2，p5 H3-HQ，底牌 HK HA JK
var StandardTestDeal = [card.PlayerCount + 1][]string{
	{"S2", "S3", "S4", "S5", "S6", "S7", "S8", "S9", "ST", "SJ"},
	{"SQ", "SK", "SA", "D2", "D3", "D4", "D5", "D6", "D7", "D8"},
	{"D9", "DT", "DJ", "DQ", "DK", "DA", "C2", "C3", "C4", "C5"},
	{"C6", "C7", "C8", "C9", "CT", "CJ", "CQ", "CK", "CA", "H2"},
	{"H3", "H4", "H5", "H6", "H7", "H8", "H9", "HT", "HJ", "HQ"},
	{"HK", "HA", "JK"},
}

// AddRoomForTest 添加房间用于测试
func (rm *RoomManager) AddRoomForTest(room *Room) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.rooms[room.Code] = room
}

// CurrentPlayerForTest 当前行动者
func (r *Room) CurrentPlayerForTest() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentID()
}

// HandForTest 玩家手牌副本
func (r *Room) HandForTest(id string) card.Hand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.Players[id]; ok {
		return append(card.Hand(nil), p.Hand...)
	}
	return nil
}
