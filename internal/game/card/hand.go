package card

import (
	"slices"
)

// Hand 手牌，按编码增删
type Hand []Card

// ParseHand 批量解析牌编码
func ParseHand(codes []string) (Hand, error) {
	hand := make(Hand, 0, len(codes))
	for _, code := range codes {
		c, err := Parse(code)
		if err != nil {
			return nil, err
		}
		hand = append(hand, c)
	}
	return hand, nil
}

// Index 返回指定编码的位置，不存在时为 -1
func (h Hand) Index(code string) int {
	return slices.IndexFunc(h, func(c Card) bool { return c.Code() == code })
}

// Contains 是否持有指定编码的牌
func (h Hand) Contains(code string) bool {
	return h.Index(code) >= 0
}

// HasSuit 是否持有某花色（王牌不算任何普通花色）
func (h Hand) HasSuit(s Suit) bool {
	return slices.ContainsFunc(h, func(c Card) bool { return c.Suit == s })
}

// OnlySuits 手牌是否只由给定花色组成
func (h Hand) OnlySuits(suits ...Suit) bool {
	for _, c := range h {
		if !slices.Contains(suits, c.Suit) {
			return false
		}
	}
	return true
}

// Remove 移除一张牌，返回新手牌
func (h Hand) Remove(code string) (Hand, bool) {
	i := h.Index(code)
	if i < 0 {
		return h, false
	}
	return slices.Delete(h, i, i+1), true
}

// Codes 返回编码列表
func (h Hand) Codes() []string {
	codes := make([]string, len(h))
	for i, c := range h {
		codes[i] = c.Code()
	}
	return codes
}

// Points 得分牌总数
func (h Hand) Points() int {
	total := 0
	for _, c := range h {
		total += c.Point()
	}
	return total
}

// DealPoints 用于 deal-miss 判断的点数和
func (h Hand) DealPoints() int {
	total := 0
	for _, c := range h {
		total += c.DealPoint()
	}
	return total
}

// Sort 按花色、点数从大到小排序，王牌在最前
func (h Hand) Sort() {
	slices.SortFunc(h, func(a, b Card) int {
		if a.IsJoker() != b.IsJoker() {
			if a.IsJoker() {
				return -1
			}
			return 1
		}
		if a.Suit != b.Suit {
			return int(a.Suit) - int(b.Suit)
		}
		return int(b.Rank) - int(a.Rank)
	})
}
