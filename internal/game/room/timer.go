package room

import (
	"log"
	"time"
)

// startBidTimer 为当前叫牌者启动超时计时器，超时自动不叫
func (rm *RoomManager) startBidTimer(r *Room) {
	rm.stopBidTimer(r)
	r.bidEpoch++

	if rm.bidTimeout <= 0 {
		return
	}

	epoch, playerID := r.bidEpoch, r.currentID()
	r.bidTimer = time.AfterFunc(rm.bidTimeout, func() {
		rm.onBidTimeout(r, playerID, epoch)
	})
}

// stopBidTimer 停止叫牌计时器
func (rm *RoomManager) stopBidTimer(r *Room) {
	if r.bidTimer != nil {
		r.bidTimer.Stop()
		r.bidTimer = nil
	}
}

func (rm *RoomManager) onBidTimeout(r *Room, playerID string, epoch int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 计时器触发时可能已有人行动或牌局已重置
	if r.Phase != PhaseCommitment || r.bidEpoch != epoch || r.currentID() != playerID {
		return
	}

	log.Printf("⏰ 玩家 %s 叫牌超时，自动不叫", playerID)

	r.bidTimer = nil
	rm.applyCommit(r, playerID, nil)
	r.touch()
	rm.persist(r)
}
