package types

import (
	"context"
	"time"

	"github.com/palemoky/mighty/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
	BroadcastToLobby(msg *protocol.Message)
	GetClientByID(id string) ClientInterface
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	GetName() string
	SetName(name string)
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}

// PlayerOutcome 单个玩家在一局中的结果
type PlayerOutcome struct {
	ID     string
	Name   string
	Role   string // president/friend/opposition
	Points int    // 吃到的得分牌数
	Won    bool
}

// RoundResult 一局结束后的结算记录
type RoundResult struct {
	RoomID       string
	President    string
	Friend       string // 可能为空
	Giruda       string
	Score        int
	ContractMade bool
	Players      []PlayerOutcome
	FinishedAt   time.Time
}

// ResultRecorder 结算记录器（排行榜、归档）
type ResultRecorder interface {
	RecordRound(ctx context.Context, result *RoundResult) error
}
