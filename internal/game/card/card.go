package card

import (
	"fmt"
	"math/rand/v2"
)

// Suit 定义花色
type Suit int

// Rank 定义点数
type Rank int

const (
	Spade   Suit = iota // 黑桃
	Diamond             // 方块
	Club                // 梅花
	Heart               // 红心
	Joker               // 王牌
)

// PlainSuits 四种普通花色，顺序即兜底排序顺序
var PlainSuits = [...]Suit{Spade, Diamond, Club, Heart}

// suitLetters 花色字母映射表
var suitLetters = map[Suit]byte{
	Spade:   'S',
	Diamond: 'D',
	Club:    'C',
	Heart:   'H',
}

var letterToSuit = map[byte]Suit{
	'S': Spade,
	'D': Diamond,
	'C': Club,
	'H': Heart,
}

func (s Suit) String() string {
	if s == Joker {
		return "JK"
	}
	if l, ok := suitLetters[s]; ok {
		return string(l)
	}
	return "?"
}

// SuitFromLetter 解析花色字母（S/D/C/H）
func SuitFromLetter(letter string) (Suit, error) {
	if len(letter) == 1 {
		if s, ok := letterToSuit[letter[0]]; ok {
			return s, nil
		}
	}
	return 0, fmt.Errorf("无法识别的花色: %q", letter)
}

const (
	RankJoker Rank = 0
	Rank2     Rank = iota + 1
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
)

const rankSymbols = "23456789TJQKA"

func (r Rank) String() string {
	if r >= Rank2 && r <= RankA {
		return string(rankSymbols[r-Rank2])
	}
	return ""
}

// JokerCode 王牌保留编码
const JokerCode = "JK"

// 牌局规模
const (
	PlayerCount = 5
	HandSize    = 10
	FloorSize   = 3
	DeckSize    = PlayerCount*HandSize + FloorSize
)

// Card 定义一张牌，以编码判等
type Card struct {
	Suit Suit
	Rank Rank
}

// JokerCard 王牌
var JokerCard = Card{Suit: Joker, Rank: RankJoker}

// IsJoker 是否是王牌
func (c Card) IsJoker() bool { return c.Suit == Joker }

// Code 返回两字符编码，例如 "SA"、"HT"、"JK"
func (c Card) Code() string {
	if c.IsJoker() {
		return JokerCode
	}
	return c.Suit.String() + c.Rank.String()
}

func (c Card) String() string { return c.Code() }

// Point 得分牌（A、K、Q、J、10）记 1 分
func (c Card) Point() int {
	if !c.IsJoker() && c.Rank >= Rank10 {
		return 1
	}
	return 0
}

// DealPoint 用于判断是否可以宣告"deal-miss"，与 Point 同一张表：王牌不计点，
// 手里没有 A、K、Q、J、10 才能宣告
func (c Card) DealPoint() int {
	return c.Point()
}

// MarshalText 以编码形式序列化
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.Code()), nil
}

// UnmarshalText 从编码反序列化
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse 解析牌编码，与 Code 互逆
func Parse(code string) (Card, error) {
	if code == JokerCode {
		return JokerCard, nil
	}
	if len(code) != 2 {
		return Card{}, fmt.Errorf("无效的牌编码: %q", code)
	}
	suit, ok := letterToSuit[code[0]]
	if !ok {
		return Card{}, fmt.Errorf("无效的牌编码: %q", code)
	}
	for i := range len(rankSymbols) {
		if rankSymbols[i] == code[1] {
			return Card{Suit: suit, Rank: Rank2 + Rank(i)}, nil
		}
	}
	return Card{}, fmt.Errorf("无效的牌编码: %q", code)
}

// MustParse 解析失败时 panic，仅用于常量和测试
func MustParse(code string) Card {
	c, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Deck 定义一副牌
type Deck []Card

// NewDeck 创建 52 张普通牌加一张王牌
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for _, s := range PlainSuits {
		for r := Rank2; r <= RankA; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return append(deck, JokerCard)
}

func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Deal 将整副牌分成 5 手 10 张与 3 张底牌，最后一组是底牌
func (d Deck) Deal() ([PlayerCount + 1]Hand, error) {
	var groups [PlayerCount + 1]Hand
	if len(d) != DeckSize {
		return groups, fmt.Errorf("牌数错误: %d", len(d))
	}
	for i := range PlayerCount {
		groups[i] = append(Hand(nil), d[i*HandSize:(i+1)*HandSize]...)
		groups[i].Sort()
	}
	groups[PlayerCount] = append(Hand(nil), d[PlayerCount*HandSize:]...)
	return groups, nil
}

// ShuffleAndDeal 生成一局新牌
func ShuffleAndDeal() [PlayerCount + 1]Hand {
	deck := NewDeck()
	deck.Shuffle()
	groups, _ := deck.Deal()
	return groups
}
