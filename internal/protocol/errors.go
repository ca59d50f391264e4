package protocol

// 错误码
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeRateLimit         = 1002 // 速率限制
	ErrCodeRoomNotFound      = 2001
	ErrCodeRoomFull          = 2002
	ErrCodeNotInRoom         = 2003
	ErrCodeGameStarted       = 2004 // 游戏已开始
	ErrCodeAlreadyInRoom     = 2005
	ErrCodeRoomIdle          = 2006 // 房间闲置被关闭
	ErrCodeWrongPhase        = 3001
	ErrCodeNotYourTurn       = 3002
	ErrCodeNotPresident      = 3003
	ErrCodeCardNotOwned      = 3004
	ErrCodeInvalidBid        = 3005
	ErrCodeIllegalPlay       = 3006
	ErrCodeInvalidDiscard    = 3007
	ErrCodeInvalidFriend     = 3008
	ErrCodeDealMissDenied    = 3009
	ErrCodeInvalidNickname   = 4001
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "未知错误",
	ErrCodeInvalidMsg:        "无效的消息格式",
	ErrCodeRateLimit:         "请求过于频繁",
	ErrCodeRoomNotFound:      "房间不存在",
	ErrCodeRoomFull:          "房间已满",
	ErrCodeNotInRoom:         "您不在房间中",
	ErrCodeGameStarted:       "游戏已开始",
	ErrCodeAlreadyInRoom:     "您已在其他房间中",
	ErrCodeRoomIdle:          "房间闲置超时已关闭",
	ErrCodeWrongPhase:        "当前阶段不能执行该操作",
	ErrCodeNotYourTurn:       "还没轮到您",
	ErrCodeNotPresident:      "只有主公可以执行该操作",
	ErrCodeCardNotOwned:      "您没有这张牌",
	ErrCodeInvalidBid:        "叫牌无效",
	ErrCodeIllegalPlay:       "不能出这张牌",
	ErrCodeInvalidDiscard:    "必须弃掉 3 张不同的牌",
	ErrCodeInvalidFriend:     "无效的朋友选择",
	ErrCodeDealMissDenied:    "手牌点数不为 0，不能宣告 deal-miss",
	ErrCodeInvalidNickname:   "昵称无效",
	ErrCodeServerMaintenance: "服务器维护中",
}
