package apperrors

import (
	"github.com/palemoky/mighty/internal/protocol"
)

// Kind 错误分类
type Kind int

const (
	KindInvalidRequest Kind = iota // 请求格式错误、房间不存在等
	KindPhase                      // 当前阶段不允许该操作
	KindTurn                       // 不是当前行动者
	KindOwnership                  // 指定的牌不在手牌或底牌中
	KindRule                       // 违反叫牌、出牌或选友规则
	KindCapacity                   // 房间已满或已在其他房间
)

var kindNames = map[Kind]string{
	KindInvalidRequest: "InvalidRequest",
	KindPhase:          "PhaseViolation",
	KindTurn:           "TurnViolation",
	KindOwnership:      "OwnershipViolation",
	KindRule:           "RuleViolation",
	KindCapacity:       "CapacityViolation",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Kind    Kind
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Is 按错误码判等，使 WithMessage 派生的错误仍可与预定义错误匹配
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	return ok && t.Code == e.Code
}

// WithMessage 复制错误并替换描述
func (e *GameError) WithMessage(msg string) *GameError {
	return &GameError{Kind: e.Kind, Code: e.Code, Message: msg}
}

func newError(kind Kind, code int) *GameError {
	return &GameError{Kind: kind, Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrInvalidRequest = newError(KindInvalidRequest, protocol.ErrCodeInvalidMsg)
	ErrRoomNotFound   = newError(KindInvalidRequest, protocol.ErrCodeRoomNotFound)
	ErrNotInRoom      = newError(KindInvalidRequest, protocol.ErrCodeNotInRoom)
	ErrMaintenance    = newError(KindInvalidRequest, protocol.ErrCodeServerMaintenance)

	ErrRoomFull      = newError(KindCapacity, protocol.ErrCodeRoomFull)
	ErrAlreadyInRoom = newError(KindCapacity, protocol.ErrCodeAlreadyInRoom)

	ErrWrongPhase = newError(KindPhase, protocol.ErrCodeWrongPhase)
	ErrGameActive = newError(KindPhase, protocol.ErrCodeGameStarted)

	ErrNotYourTurn  = newError(KindTurn, protocol.ErrCodeNotYourTurn)
	ErrNotPresident = newError(KindTurn, protocol.ErrCodeNotPresident)

	ErrCardNotOwned = newError(KindOwnership, protocol.ErrCodeCardNotOwned)

	ErrInvalidBid      = newError(KindRule, protocol.ErrCodeInvalidBid)
	ErrIllegalPlay     = newError(KindRule, protocol.ErrCodeIllegalPlay)
	ErrInvalidDiscard  = newError(KindRule, protocol.ErrCodeInvalidDiscard)
	ErrInvalidFriend   = newError(KindRule, protocol.ErrCodeInvalidFriend)
	ErrDealMissDenied  = newError(KindRule, protocol.ErrCodeDealMissDenied)
	ErrInvalidNickname = newError(KindRule, protocol.ErrCodeInvalidNickname)
)
