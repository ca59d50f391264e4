package protocol

// 牌在线上一律使用两字符编码，例如 "SA"、"HT"、"JK"

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomID string `json:"room_id"`
}

// SetNicknamePayload 设置昵称
type SetNicknamePayload struct {
	Name string `json:"name"`
}

// NicknameQueryPayload 批量查询昵称
type NicknameQueryPayload struct {
	IDs []string `json:"ids"`
}

// ReadyPayload 准备状态
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

// DealMissPayload true 为宣告 deal-miss，false 为确认手牌无误
type DealMissPayload struct {
	Declare bool `json:"declare"`
}

// Bid 叫牌
type Bid struct {
	Giruda string `json:"giruda"` // S/D/C/H/N
	Score  int    `json:"score"`
}

// CommitmentPayload 叫牌请求，Bid 为 nil 表示不叫
type CommitmentPayload struct {
	Bid *Bid `json:"bid"`
}

// FriendInfo 朋友选择
type FriendInfo struct {
	Mode     string `json:"mode"` // first-trick/player/card
	PlayerID string `json:"player_id,omitempty"`
	Card     string `json:"card,omitempty"`
}

// FriendSelectionPayload 主公弃牌、选友、可选加价
type FriendSelectionPayload struct {
	FloorCards []string   `json:"floor_cards"`
	Friend     FriendInfo `json:"friend"`
	Bid        *Bid       `json:"bid,omitempty"`
}

// PlayPayload 出牌请求
type PlayPayload struct {
	Card      string `json:"card"`
	Suit      string `json:"suit,omitempty"` // 首出王牌时声明的花色
	JokerCall bool   `json:"joker_call,omitempty"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Type   string `json:"type"`   // total/daily/weekly
	Offset int    `json:"offset"` // 偏移量
	Limit  int    `json:"limit"`  // 数量
}

// GetHistoryPayload 获取最近对局请求
type GetHistoryPayload struct {
	Limit int `json:"limit"`
}

// --- 服务端响应 Payloads ---

// AckPayload 请求应答
type AckPayload struct {
	OK      bool   `json:"ok"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PlayerInfo 房间内玩家信息
type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// RoomListItem 房间列表项
type RoomListItem struct {
	RoomID      string `json:"room_id"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	Phase       string `json:"phase"`
}

// RoomListPayload 大厅房间列表推送，房间创建或解散时发给未入座的玩家
type RoomListPayload struct {
	Rooms []RoomListItem `json:"rooms"`
}

// RoomInfo 创建或加入房间的应答数据
type RoomInfo struct {
	RoomID  string       `json:"room_id"`
	Players []PlayerInfo `json:"players"`
}

// PlayerJoinedPayload 有玩家加入
type PlayerJoinedPayload struct {
	RoomID  string       `json:"room_id"`
	Player  PlayerInfo   `json:"player"`
	Players []PlayerInfo `json:"players"`
}

// PlayerLeftPayload 有玩家离开
type PlayerLeftPayload struct {
	PlayerID   string   `json:"player_id"`
	PlayerList []string `json:"player_list"`
}

// PlayerReadyPayload 准备状态变化
type PlayerReadyPayload struct {
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

// ResetPayload 本局重置
type ResetPayload struct {
	Reason     string   `json:"reason"`
	PlayerList []string `json:"player_list"`
}

// DealPayload 发牌（每人私有）
type DealPayload struct {
	Hand       []string `json:"hand"`
	PlayerList []string `json:"player_list"`
}

// CommitmentRequestPayload 轮到叫牌
type CommitmentRequestPayload struct {
	PlayerID string `json:"player_id"`
	Current  *Bid   `json:"current,omitempty"`
}

// CommitmentBroadcastPayload 某玩家叫牌或不叫
type CommitmentBroadcastPayload struct {
	PlayerID string `json:"player_id"`
	Bid      *Bid   `json:"bid"`
}

// WaitingPresidentPayload 等待主公弃牌选友
type WaitingPresidentPayload struct {
	President string `json:"president"`
	Bid       Bid    `json:"bid"`
}

// FloorCardsPayload 底牌（仅发给主公）
type FloorCardsPayload struct {
	Cards []string `json:"cards"`
}

// FriendAnnouncePayload 选友结果公告
type FriendAnnouncePayload struct {
	President     string     `json:"president"`
	Friend        FriendInfo `json:"friend"`
	Bid           Bid        `json:"bid"`
	Mighty        string     `json:"mighty"`
	JokerCallCard string     `json:"joker_call_card"`
}

// PlayInfo 一次出牌
type PlayInfo struct {
	PlayerID string `json:"player_id"`
	Card     string `json:"card"`
}

// TrickState 当前墩状态
type TrickState struct {
	TrickIndex int        `json:"trick_index"`
	LeadSuit   string     `json:"lead_suit"`
	LastCard   string     `json:"last_card"`
	JokerCall  bool       `json:"joker_call"`
	Plays      []PlayInfo `json:"plays"`
}

// TurnPayload 轮到出牌，Trick 为 nil 表示新一墩
type TurnPayload struct {
	PlayerID string      `json:"player_id"`
	Trick    *TrickState `json:"trick"`
}

// TrickResultPayload 一墩结算
type TrickResultPayload struct {
	TrickIndex int        `json:"trick_index"`
	Winner     string     `json:"winner"`
	Points     int        `json:"points"`
	Plays      []PlayInfo `json:"plays"`
	Friend     string     `json:"friend,omitempty"` // 第一墩赢家成为朋友时公布
}

// PlayerResult 单个玩家的结算
type PlayerResult struct {
	Score int    `json:"score"`
	Role  string `json:"role"`
}

// ResultPayload 本局结果
type ResultPayload struct {
	Players      map[string]PlayerResult `json:"players"`
	President    string                  `json:"president"`
	Friend       string                  `json:"friend,omitempty"`
	Bid          Bid                     `json:"bid"`
	ContractMade bool                    `json:"contract_made"`
}

// StatsResultPayload 个人统计结果
type StatsResultPayload struct {
	PlayerID        string  `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	TotalGames      int     `json:"total_games"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"win_rate"`
	PresidentGames  int     `json:"president_games"`
	PresidentWins   int     `json:"president_wins"`
	FriendGames     int     `json:"friend_games"`
	OppositionGames int     `json:"opposition_games"`
	Score           int     `json:"score"`
	Rank            int     `json:"rank"`
	CurrentStreak   int     `json:"current_streak"`
	MaxWinStreak    int     `json:"max_win_streak"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Type    string             `json:"type"`
	Entries []LeaderboardEntry `json:"entries"`
}

// HistoryRound 最近对局条目，从请求方视角记录
type HistoryRound struct {
	RoomID       string `json:"room_id"`
	President    string `json:"president"`
	Friend       string `json:"friend,omitempty"`
	Giruda       string `json:"giruda"`
	Score        int    `json:"score"`
	ContractMade bool   `json:"contract_made"`
	Role         string `json:"role"`
	Points       int    `json:"points"`
	Won          bool   `json:"won"`
	FinishedAt   int64  `json:"finished_at"`
}

// HistoryResultPayload 最近对局结果
type HistoryResultPayload struct {
	Rounds []HistoryRound `json:"rounds"`
}

// MaintenancePayload 维护通知
type MaintenancePayload struct {
	Maintenance bool   `json:"maintenance"`
	Message     string `json:"message"`
}
