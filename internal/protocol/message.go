package protocol

import "encoding/json"

// Message 基础消息结构，ID 由客户端生成并在 ack 中原样返回
type Message struct {
	Type    MessageType     `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 大厅与房间
	MsgRoomList      MessageType = "room-list"      // 房间列表
	MsgCreateRoom    MessageType = "create-room"    // 创建房间
	MsgJoinRoom      MessageType = "join-room"      // 加入房间（同名广播）
	MsgLeaveRoom     MessageType = "leave-room"     // 离开房间（同名广播）
	MsgSetNickname   MessageType = "set-nickname"   // 设置昵称
	MsgNicknameQuery MessageType = "nickname-query" // 查询昵称
	MsgReady         MessageType = "ready"          // 准备（同名广播）

	// 游戏操作
	MsgDealMiss        MessageType = "deal-miss"        // 宣告或确认 deal-miss
	MsgCommitment      MessageType = "commitment"       // 叫牌或不叫（同名广播）
	MsgFriendSelection MessageType = "friend-selection" // 主公弃牌、选友（同名广播）
	MsgPlay            MessageType = "play"             // 出牌

	// 排行榜与历史
	MsgGetStats       MessageType = "get-stats"       // 获取个人统计
	MsgGetLeaderboard MessageType = "get-leaderboard" // 获取排行榜
	MsgGetHistory     MessageType = "get-history"     // 获取最近对局
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong
	MsgAck       MessageType = "ack"       // 请求应答

	// 游戏流程
	MsgReset             MessageType = "reset"              // 本局作废，回到准备阶段
	MsgDeal              MessageType = "deal"               // 发牌（私有）
	MsgCommitmentRequest MessageType = "commitment-request" // 轮到叫牌
	MsgWaitingPresident  MessageType = "waiting-president"  // 等待主公选友
	MsgFloorCards        MessageType = "floor-cards"        // 底牌（仅主公）
	MsgTurn              MessageType = "turn"               // 轮到出牌
	MsgTrickResult       MessageType = "trick-result"       // 一墩结算
	MsgResult            MessageType = "result"             // 本局结果

	// 系统通知
	MsgMaintenance MessageType = "maintenance" // 维护通知

	// 错误
	MsgError MessageType = "error" // 错误消息
)
