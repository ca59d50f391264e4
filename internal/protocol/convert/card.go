package convert

import (
	"github.com/palemoky/mighty/internal/game/card"
)

// CardsToCodes 将 []card.Card 转换为线上编码
func CardsToCodes(cards []card.Card) []string {
	return card.Hand(cards).Codes()
}

// CodesToCards 将线上编码转换为 []card.Card
func CodesToCards(codes []string) ([]card.Card, error) {
	return card.ParseHand(codes)
}

// SuitToString 花色编码，王牌为空串
func SuitToString(s card.Suit) string {
	if s == card.Joker {
		return ""
	}
	return s.String()
}

// SuitFromString 解析首出王牌时声明的花色
func SuitFromString(s string) (card.Suit, error) {
	return card.SuitFromLetter(s)
}
