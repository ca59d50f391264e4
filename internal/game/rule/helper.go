package rule

import (
	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/game/card"
)

// LastJokerTrick 仍持有王牌的玩家必须在这一墩（从 0 开始）打出王牌
const LastJokerTrick = 8

// PlayContext 判断出牌合法性所需的牌局信息
type PlayContext struct {
	Giruda     Giruda
	TrickIndex int
	Leading    bool      // 是否是本墩首出
	LeadSuit   card.Suit // 本墩花色，首出时忽略
	JokerCall  bool      // 本墩是否处于叫王状态
}

// CheckPlay 校验出牌，c 必须已确认在手牌中
func CheckPlay(ctx PlayContext, hand card.Hand, c card.Card) error {
	mighty := Mighty(ctx.Giruda)
	holdsJoker := hand.Contains(card.JokerCode)

	if ctx.TrickIndex == LastJokerTrick && holdsJoker && !c.IsJoker() {
		return apperrors.ErrIllegalPlay.WithMessage("第 9 墩必须打出王牌")
	}

	if ctx.Leading {
		trump, ok := ctx.Giruda.Suit()
		if ctx.TrickIndex == 0 && ok && c.Suit == trump && !hand.OnlySuits(trump, card.Joker) {
			return apperrors.ErrIllegalPlay.WithMessage("第一墩不能首出主牌")
		}
		return nil
	}

	if c.IsJoker() || c == mighty {
		return nil
	}
	if ctx.JokerCall && holdsJoker {
		return apperrors.ErrIllegalPlay.WithMessage("叫王时必须打出王牌")
	}
	if c.Suit != ctx.LeadSuit && hand.HasSuit(ctx.LeadSuit) {
		return apperrors.ErrIllegalPlay.WithMessage("必须跟出同花色的牌")
	}
	return nil
}

// ActivatesJokerCall 首出叫王牌并声明叫王，且王牌尚未出现时，本墩进入叫王状态
func ActivatesJokerCall(g Giruda, lead card.Card, declared, jokerOut bool) bool {
	return declared && !jokerOut && lead == JokerCallCard(g)
}
