package rule

import (
	"github.com/palemoky/mighty/internal/game/card"
)

// RankingTable 构造一墩的牌力表，下标越小牌越大：
// mighty、王牌（叫王墩中排最后）、主牌花色、首出花色、其余花色按 S D C H 兜底。
func RankingTable(g Giruda, lead card.Suit, jokerCall bool) []card.Card {
	mighty := Mighty(g)
	table := make([]card.Card, 0, card.DeckSize)
	table = append(table, mighty)
	if !jokerCall {
		table = append(table, card.JokerCard)
	}

	done := make(map[card.Suit]bool, len(card.PlainSuits))
	appendSuit := func(s card.Suit) {
		if done[s] {
			return
		}
		done[s] = true
		for r := card.RankA; r >= card.Rank2; r-- {
			c := card.Card{Suit: s, Rank: r}
			if c != mighty {
				table = append(table, c)
			}
		}
	}

	if trump, ok := g.Suit(); ok {
		appendSuit(trump)
	}
	if lead != card.Joker {
		appendSuit(lead)
	}
	for _, s := range card.PlainSuits {
		appendSuit(s)
	}

	if jokerCall {
		table = append(table, card.JokerCard)
	}
	return table
}

// TrickResult 一墩的结算结果
type TrickResult struct {
	Winner int // 赢家在出牌顺序中的下标
	Points int // 本墩得分牌总数
}

// ResolveTrick 按牌力表结算一墩，plays 按出牌顺序排列
func ResolveTrick(plays []card.Card, g Giruda, lead card.Suit, jokerCall bool) TrickResult {
	table := RankingTable(g, lead, jokerCall)
	rank := make(map[card.Card]int, len(table))
	for i, c := range table {
		rank[c] = i
	}

	result := TrickResult{Winner: -1}
	best := len(table)
	for i, c := range plays {
		result.Points += c.Point()
		if r, ok := rank[c]; ok && r < best {
			best = r
			result.Winner = i
		}
	}
	return result
}
