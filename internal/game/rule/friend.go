package rule

import (
	"fmt"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/game/card"
)

// FriendSelection 朋友选择方式，nil 表示尚未选择
type FriendSelection interface {
	Mode() FriendMode
}

// FriendMode 线上传输的朋友选择方式
type FriendMode string

const (
	ModeFirstTrick FriendMode = "first-trick"
	ModePlayer     FriendMode = "player"
	ModeCard       FriendMode = "card"
)

// FirstTrickWinner 第一墩的赢家成为朋友
type FirstTrickWinner struct{}

// NamedPlayer 直接指定玩家
type NamedPlayer struct {
	PlayerID string
}

// NamedCard 持有该牌的玩家成为朋友
type NamedCard struct {
	Card card.Card
}

func (FirstTrickWinner) Mode() FriendMode { return ModeFirstTrick }
func (NamedPlayer) Mode() FriendMode      { return ModePlayer }
func (NamedCard) Mode() FriendMode        { return ModeCard }

// ParseFriendSelection 从线上字段构造朋友选择
func ParseFriendSelection(mode FriendMode, playerID, code string) (FriendSelection, error) {
	switch mode {
	case ModeFirstTrick:
		return FirstTrickWinner{}, nil
	case ModePlayer:
		if playerID == "" {
			return nil, apperrors.ErrInvalidFriend.WithMessage("未指定朋友玩家")
		}
		return NamedPlayer{PlayerID: playerID}, nil
	case ModeCard:
		c, err := card.Parse(code)
		if err != nil {
			return nil, apperrors.ErrInvalidFriend.WithMessage(err.Error())
		}
		return NamedCard{Card: c}, nil
	default:
		return nil, apperrors.ErrInvalidFriend.WithMessage(fmt.Sprintf("未知的朋友选择方式: %q", mode))
	}
}
