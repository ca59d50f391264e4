package handler

import (
	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/types"
)

// handleRoomList 获取房间列表
func (h *Handler) handleRoomList(types.ClientInterface, *protocol.Message) (any, error) {
	return h.roomManager.GetRoomList(), nil
}

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface, _ *protocol.Message) (any, error) {
	if h.server.IsMaintenanceMode() {
		return nil, apperrors.ErrMaintenance.WithMessage("服务器维护中，暂停创建房间")
	}

	room, err := h.roomManager.CreateRoom(client)
	if err != nil {
		return nil, err
	}
	return room.Info(), nil
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) (any, error) {
	if h.server.IsMaintenanceMode() {
		return nil, apperrors.ErrMaintenance.WithMessage("服务器维护中，暂停加入房间")
	}

	payload, err := parse[protocol.JoinRoomPayload](msg)
	if err != nil {
		return nil, err
	}

	room, err := h.roomManager.JoinRoom(client, payload.RoomID)
	if err != nil {
		return nil, err
	}
	return room.Info(), nil
}

// handleLeaveRoom 处理离开房间
func (h *Handler) handleLeaveRoom(client types.ClientInterface, _ *protocol.Message) (any, error) {
	return nil, h.roomManager.LeaveRoom(client)
}

// handleReady 处理准备和取消准备
func (h *Handler) handleReady(client types.ClientInterface, msg *protocol.Message) (any, error) {
	payload, err := parse[protocol.ReadyPayload](msg)
	if err != nil {
		return nil, err
	}
	return nil, h.roomManager.SetReady(client, payload.Ready)
}
