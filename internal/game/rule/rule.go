package rule

import (
	"fmt"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/game/card"
)

// Giruda 主牌花色（或无主）
type Giruda string

const (
	GirudaSpade   Giruda = "S"
	GirudaDiamond Giruda = "D"
	GirudaClub    Giruda = "C"
	GirudaHeart   Giruda = "H"
	GirudaNone    Giruda = "N"
)

var girudaSuits = map[Giruda]card.Suit{
	GirudaSpade:   card.Spade,
	GirudaDiamond: card.Diamond,
	GirudaClub:    card.Club,
	GirudaHeart:   card.Heart,
}

// Valid 是否是合法的主牌取值
func (g Giruda) Valid() bool {
	_, ok := girudaSuits[g]
	return ok || g == GirudaNone
}

// Suit 返回主牌对应的花色，无主时 ok 为 false
func (g Giruda) Suit() (card.Suit, bool) {
	s, ok := girudaSuits[g]
	return s, ok
}

// 叫牌分数范围
const (
	MinBidScore = 12
	MaxBidScore = 20

	// ImmediateEffective 有效值达到该值时立即成为主公
	ImmediateEffective = 21
	// GirudaChangeMargin 主公更换主牌时需要额外提高的有效值
	GirudaChangeMargin = 2
)

// Commitment 叫牌
type Commitment struct {
	Giruda Giruda `json:"giruda"`
	Score  int    `json:"score"`
}

// Baseline 尚无人叫牌时的基准
var Baseline = Commitment{Giruda: GirudaNone, Score: MinBidScore - 1}

// Effective 有效值：无主叫牌额外加 1
func (c Commitment) Effective() int {
	if c.Giruda == GirudaNone {
		return c.Score + 1
	}
	return c.Score
}

func (c Commitment) String() string {
	return fmt.Sprintf("%s%d", c.Giruda, c.Score)
}

func checkRange(bid Commitment) error {
	if !bid.Giruda.Valid() {
		return apperrors.ErrInvalidBid.WithMessage(fmt.Sprintf("无效的主牌: %q", bid.Giruda))
	}
	if bid.Score < MinBidScore || bid.Score > MaxBidScore {
		return apperrors.ErrInvalidBid.WithMessage(
			fmt.Sprintf("叫牌分数必须在 %d 到 %d 之间", MinBidScore, MaxBidScore))
	}
	return nil
}

// ValidateBid 校验叫牌阶段的加价，current 为 nil 表示尚无人叫牌
func ValidateBid(current *Commitment, bid Commitment) error {
	if err := checkRange(bid); err != nil {
		return err
	}
	if current != nil && bid.Effective() <= current.Effective() {
		return apperrors.ErrInvalidBid.WithMessage(
			fmt.Sprintf("叫牌 %s 必须高于当前的 %s", bid, *current))
	}
	return nil
}

// ValidateRaise 校验主公在选友阶段对最终叫牌的调整
func ValidateRaise(current, raise Commitment) error {
	if err := checkRange(raise); err != nil {
		return err
	}
	if raise == current {
		return nil
	}
	need := current.Effective() + 1
	if raise.Giruda != current.Giruda {
		need = current.Effective() + GirudaChangeMargin
	}
	if raise.Effective() < need {
		return apperrors.ErrInvalidBid.WithMessage(
			fmt.Sprintf("调整后的叫牌有效值至少为 %d", need))
	}
	return nil
}

// Mighty 最大的牌：通常是黑桃 A，主牌为黑桃时是方块 A
func Mighty(g Giruda) card.Card {
	if g == GirudaSpade {
		return card.Card{Suit: card.Diamond, Rank: card.RankA}
	}
	return card.Card{Suit: card.Spade, Rank: card.RankA}
}

// JokerCallCard 叫王牌：通常是梅花 3，主牌为梅花时是红心 3
func JokerCallCard(g Giruda) card.Card {
	if g == GirudaClub {
		return card.Card{Suit: card.Heart, Rank: card.Rank3}
	}
	return card.Card{Suit: card.Club, Rank: card.Rank3}
}
