package room

import (
	"fmt"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/game/card"
)

// Phase 房间阶段
type Phase int

const (
	PhaseReady           Phase = iota // 等待五人准备
	PhaseDealMissPending              // 已发牌，等待确认或宣告 deal-miss
	PhaseCommitment                   // 叫牌
	PhasePresidentReady               // 主公弃牌、选友
	PhaseMainGame                     // 出牌
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseDealMissPending:
		return "deal-miss-pending"
	case PhaseCommitment:
		return "commitment"
	case PhasePresidentReady:
		return "president-ready"
	case PhaseMainGame:
		return "main-game"
	default:
		return "unknown"
	}
}

// requirePhase 校验当前阶段
func (r *Room) requirePhase(want Phase) error {
	switch r.Phase {
	case PhaseReady, PhaseDealMissPending, PhaseCommitment, PhasePresidentReady, PhaseMainGame:
		if r.Phase != want {
			return apperrors.ErrWrongPhase.WithMessage(fmt.Sprintf("当前阶段 %s 不允许该操作", r.Phase))
		}
		return nil
	default:
		return apperrors.ErrWrongPhase.WithMessage("未知的房间阶段")
	}
}

// Role 本局身份
type Role int

const (
	RoleNone Role = iota
	RolePresident
	RoleFriend
	RoleOpposition
)

func (r Role) String() string {
	switch r {
	case RolePresident:
		return "president"
	case RoleFriend:
		return "friend"
	case RoleOpposition:
		return "opposition"
	default:
		return "none"
	}
}

// CommitStatus 叫牌状态
type CommitStatus int

const (
	CommitNone CommitStatus = iota
	CommitCommitted
	CommitPassed
)

// PlayerStatus 玩家本局状态，每局重置
type PlayerStatus struct {
	Hand        card.Hand
	Role        Role
	Played      *card.Card // 本墩已出的牌
	Ready       bool
	CommitReady bool // 已确认手牌无需 deal-miss
	Commit      CommitStatus
	Score       int // 本局吃到的得分牌
}

// trickPlay 一墩中的一次出牌
type trickPlay struct {
	playerID string
	card     card.Card
}

// trickState 当前墩，两墩之间为 nil
type trickState struct {
	leadSuit  card.Suit
	jokerCall bool
	plays     []trickPlay
}

func (t *trickState) lastCard() card.Card {
	return t.plays[len(t.plays)-1].card
}

func (t *trickState) cards() []card.Card {
	cards := make([]card.Card, len(t.plays))
	for i, p := range t.plays {
		cards[i] = p.card
	}
	return cards
}
