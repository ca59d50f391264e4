package room

import (
	"log"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
	"github.com/palemoky/mighty/internal/types"
)

// CreateRoom 创建房间，创建者自动加入
func (rm *RoomManager) CreateRoom(client types.ClientInterface) (*Room, error) {
	if client.GetRoom() != "" {
		return nil, apperrors.ErrAlreadyInRoom
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	room := newRoom(uuid.NewString())

	room.mu.Lock()
	defer room.mu.Unlock()

	room.Players[client.GetID()] = &RoomPlayer{Client: client}
	room.PlayerOrder = append(room.PlayerOrder, client.GetID())
	client.SetRoom(room.Code)

	rm.rooms[room.Code] = room
	rm.persist(room)
	rm.notifyLobby()

	log.Printf("🏠 房间 %s 已创建，玩家 %s", room.Code, client.GetName())

	return room, nil
}

// JoinRoom 加入房间
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	if client.GetRoom() != "" {
		return nil, apperrors.ErrAlreadyInRoom
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, exists := rm.rooms[code]
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if len(room.Players) >= MaxPlayers {
		return nil, apperrors.ErrRoomFull
	}
	if room.Phase != PhaseReady {
		return nil, apperrors.ErrGameActive
	}

	room.Players[client.GetID()] = &RoomPlayer{Client: client}
	room.PlayerOrder = append(room.PlayerOrder, client.GetID())
	client.SetRoom(code)
	room.touch()

	log.Printf("👤 玩家 %s 加入房间 %s", client.GetName(), code)

	room.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgJoinRoom, protocol.PlayerJoinedPayload{
		RoomID:  code,
		Player:  room.GetPlayerInfo(client.GetID()),
		Players: room.GetAllPlayersInfo(),
	}))

	rm.persist(room)

	return room, nil
}

// LeaveRoom 主动离开房间，只允许在准备阶段
func (rm *RoomManager) LeaveRoom(client types.ClientInterface) error {
	return rm.leave(client, false)
}

// ForcedLeave 断线离开，任何阶段都允许；牌局中会先作废本局
func (rm *RoomManager) ForcedLeave(client types.ClientInterface) {
	if client.GetRoom() == "" {
		return
	}
	if err := rm.leave(client, true); err != nil {
		log.Printf("⚠️ 玩家 %s 强制离开房间失败: %v", client.GetID(), err)
	}
}

func (rm *RoomManager) leave(client types.ClientInterface, forced bool) error {
	code := client.GetRoom()
	if code == "" {
		return apperrors.ErrNotInRoom
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, exists := rm.rooms[code]
	if !exists {
		client.SetRoom("")
		return apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	id := client.GetID()
	if _, exists := room.Players[id]; !exists {
		client.SetRoom("")
		return apperrors.ErrNotInRoom
	}

	if room.Phase != PhaseReady {
		if !forced {
			return apperrors.ErrGameActive
		}
		rm.fullReset(room, ResetPlayerLeft, id)
	}

	rm.removePlayer(room, client)
	return nil
}

// removePlayer 将玩家移出房间，最后一人离开时解散房间；调用方需持有 rm.mu 和 room.mu
func (rm *RoomManager) removePlayer(room *Room, client types.ClientInterface) {
	id := client.GetID()
	delete(room.Players, id)
	if i := slices.Index(room.PlayerOrder, id); i >= 0 {
		room.PlayerOrder = slices.Delete(room.PlayerOrder, i, i+1)
	}
	client.SetRoom("")
	room.touch()

	log.Printf("👋 玩家 %s 离开房间 %s", client.GetName(), room.Code)

	if len(room.Players) == 0 {
		delete(rm.rooms, room.Code)
		rm.forget(room.Code)
		rm.notifyLobby()
		log.Printf("🏠 房间 %s 已解散", room.Code)
		return
	}

	room.Broadcast(codec.MustNewMessage(protocol.MsgLeaveRoom, protocol.PlayerLeftPayload{
		PlayerID:   id,
		PlayerList: room.playerList(),
	}))
	rm.persist(room)
}

// withRoom 定位玩家所在房间，并在房间锁内执行 fn；fn 成功后保存快照
func (rm *RoomManager) withRoom(client types.ClientInterface, fn func(r *Room, p *RoomPlayer) error) error {
	code := client.GetRoom()
	if code == "" {
		return apperrors.ErrNotInRoom
	}

	rm.mu.RLock()
	room, exists := rm.rooms[code]
	rm.mu.RUnlock()
	if !exists {
		return apperrors.ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	player, exists := room.Players[client.GetID()]
	if !exists {
		return apperrors.ErrNotInRoom
	}

	if err := fn(room, player); err != nil {
		return err
	}

	room.touch()
	rm.persist(room)
	return nil
}

// SetReady 设置准备状态，五人全部准备后发牌
func (rm *RoomManager) SetReady(client types.ClientInterface, ready bool) error {
	return rm.withRoom(client, func(r *Room, p *RoomPlayer) error {
		if err := r.requirePhase(PhaseReady); err != nil {
			return err
		}

		p.Ready = ready
		r.Broadcast(codec.MustNewMessage(protocol.MsgReady, protocol.PlayerReadyPayload{
			PlayerID: client.GetID(),
			Ready:    ready,
		}))

		if r.checkAllReady() {
			rm.deal(r)
		}
		return nil
	})
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// GetRoomList 获取所有房间
func (rm *RoomManager) GetRoomList() []protocol.RoomListItem {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	rooms := make([]protocol.RoomListItem, 0, len(rm.rooms))
	for code, room := range rm.rooms {
		room.mu.RLock()
		rooms = append(rooms, protocol.RoomListItem{
			RoomID:      code,
			PlayerCount: len(room.Players),
			MaxPlayers:  MaxPlayers,
			Phase:       room.Phase.String(),
		})
		room.mu.RUnlock()
	}
	slices.SortFunc(rooms, func(a, b protocol.RoomListItem) int {
		return strings.Compare(a.RoomID, b.RoomID)
	})
	return rooms
}

// GetRoomCount 房间总数
func (rm *RoomManager) GetRoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// GetActiveGamesCount 获取进行中的牌局数量
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	count := 0
	for _, room := range rm.rooms {
		room.mu.RLock()
		if room.Phase != PhaseReady {
			count++
		}
		room.mu.RUnlock()
	}
	return count
}
