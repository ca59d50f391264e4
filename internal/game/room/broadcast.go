package room

import (
	"slices"

	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
)

// Broadcast 按行动顺序广播消息给房间内所有玩家，调用方需持有锁
func (r *Room) Broadcast(msg *protocol.Message) {
	for _, id := range r.PlayerOrder {
		if p := r.Players[id]; p != nil && p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// BroadcastExcept 广播消息给除指定玩家外的所有玩家
func (r *Room) BroadcastExcept(excludeID string, msg *protocol.Message) {
	for _, id := range r.PlayerOrder {
		if id == excludeID {
			continue
		}
		if p := r.Players[id]; p != nil && p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// sendTo 私发消息
func (r *Room) sendTo(id string, msg *protocol.Message) {
	if p := r.Players[id]; p != nil && p.Client != nil {
		p.Client.SendMessage(msg)
	}
}

// notifyLobby 异步向大厅推送最新房间列表，调用方可持有 rm.mu
func (rm *RoomManager) notifyLobby() {
	if rm.lobby == nil {
		return
	}
	go func() {
		rm.lobby.BroadcastToLobby(codec.MustNewMessage(protocol.MsgRoomList, protocol.RoomListPayload{
			Rooms: rm.GetRoomList(),
		}))
	}()
}

// checkAllReady 满员且全部准备
func (r *Room) checkAllReady() bool {
	if len(r.Players) < MaxPlayers {
		return false
	}
	for _, player := range r.Players {
		if !player.Ready {
			return false
		}
	}
	return true
}

// GetPlayerInfo 获取玩家信息
func (r *Room) GetPlayerInfo(playerID string) protocol.PlayerInfo {
	player := r.Players[playerID]
	return protocol.PlayerInfo{
		ID:    playerID,
		Name:  player.Client.GetName(),
		Ready: player.Ready,
	}
}

// GetAllPlayersInfo 按行动顺序获取所有玩家信息
func (r *Room) GetAllPlayersInfo() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		infos = append(infos, r.GetPlayerInfo(id))
	}
	return infos
}

// playerList 行动顺序的副本，用于消息
func (r *Room) playerList() []string {
	return slices.Clone(r.PlayerOrder)
}

// Info 房间信息快照
func (r *Room) Info() protocol.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return protocol.RoomInfo{RoomID: r.Code, Players: r.GetAllPlayersInfo()}
}
