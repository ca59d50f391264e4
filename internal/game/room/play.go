package room

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/game/card"
	"github.com/palemoky/mighty/internal/game/rule"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
	"github.com/palemoky/mighty/internal/protocol/convert"
	"github.com/palemoky/mighty/internal/types"
)

// TrickCount 每局墩数
const TrickCount = card.HandSize

const recordTimeout = 5 * time.Second

// Play 出牌；首出王牌时 declaredSuit 为声明的花色，jokerCall 表示首出叫王牌时是否叫王
func (rm *RoomManager) Play(client types.ClientInterface, code, declaredSuit string, jokerCall bool) error {
	return rm.withRoom(client, func(r *Room, p *RoomPlayer) error {
		if err := r.requirePhase(PhaseMainGame); err != nil {
			return err
		}
		id := client.GetID()
		if r.currentID() != id {
			return apperrors.ErrNotYourTurn
		}

		c, err := card.Parse(code)
		if err != nil {
			return apperrors.ErrInvalidRequest.WithMessage(err.Error())
		}
		if !p.Hand.Contains(c.Code()) {
			return apperrors.ErrCardNotOwned
		}

		giruda := r.commitment.Giruda
		ctx := rule.PlayContext{Giruda: giruda, TrickIndex: r.trickIndex, Leading: r.trick == nil}
		if r.trick != nil {
			ctx.LeadSuit = r.trick.leadSuit
			ctx.JokerCall = r.trick.jokerCall
		}
		if err := rule.CheckPlay(ctx, p.Hand, c); err != nil {
			return err
		}

		if r.trick == nil {
			lead := c.Suit
			if c.IsJoker() {
				if lead, err = card.SuitFromLetter(declaredSuit); err != nil {
					return apperrors.ErrIllegalPlay.WithMessage("首出王牌必须声明花色")
				}
			}
			r.trick = &trickState{
				leadSuit:  lead,
				jokerCall: rule.ActivatesJokerCall(giruda, c, jokerCall, r.jokerOut),
			}
		}

		p.Hand, _ = p.Hand.Remove(c.Code())
		played := c
		p.Played = &played
		r.trick.plays = append(r.trick.plays, trickPlay{playerID: id, card: c})
		if c.IsJoker() {
			r.jokerOut = true
		}

		if len(r.trick.plays) < len(r.PlayerOrder) {
			r.turn = (r.turn + 1) % len(r.PlayerOrder)
			r.Broadcast(codec.MustNewMessage(protocol.MsgTurn, protocol.TurnPayload{
				PlayerID: r.currentID(),
				Trick:    r.trickPayload(),
			}))
			return nil
		}

		rm.resolveTrick(r)
		return nil
	})
}

// trickPayload 当前墩的公开状态
func (r *Room) trickPayload() *protocol.TrickState {
	if r.trick == nil {
		return nil
	}
	return &protocol.TrickState{
		TrickIndex: r.trickIndex,
		LeadSuit:   convert.SuitToString(r.trick.leadSuit),
		LastCard:   r.trick.lastCard().Code(),
		JokerCall:  r.trick.jokerCall,
		Plays:      r.trick.playInfos(),
	}
}

func (t *trickState) playInfos() []protocol.PlayInfo {
	infos := make([]protocol.PlayInfo, len(t.plays))
	for i, p := range t.plays {
		infos[i] = protocol.PlayInfo{PlayerID: p.playerID, Card: p.card.Code()}
	}
	return infos
}

// resolveTrick 结算一墩，赢家首出下一墩
func (rm *RoomManager) resolveTrick(r *Room) {
	trick := r.trick
	res := rule.ResolveTrick(trick.cards(), r.commitment.Giruda, trick.leadSuit, trick.jokerCall)
	winnerID := trick.plays[res.Winner].playerID
	r.Players[winnerID].Score += res.Points

	revealed := ""
	if _, ok := r.friendSel.(rule.FirstTrickWinner); ok && r.trickIndex == 0 && winnerID != r.president {
		r.friend = winnerID
		r.Players[winnerID].Role = RoleFriend
		revealed = winnerID
	}

	r.Broadcast(codec.MustNewMessage(protocol.MsgTrickResult, protocol.TrickResultPayload{
		TrickIndex: r.trickIndex,
		Winner:     winnerID,
		Points:     res.Points,
		Plays:      trick.playInfos(),
		Friend:     revealed,
	}))

	for _, p := range r.Players {
		p.Played = nil
	}
	r.trick = nil
	r.trickIndex++

	if r.trickIndex == TrickCount {
		rm.finishRound(r)
		return
	}

	r.rotateTo(winnerID)
	r.Broadcast(codec.MustNewMessage(protocol.MsgTurn, protocol.TurnPayload{PlayerID: winnerID}))
}

// finishRound 广播本局结果，记录战绩并回到准备阶段
func (rm *RoomManager) finishRound(r *Room) {
	declarerPoints := r.Players[r.president].Score
	if f, ok := r.Players[r.friend]; ok {
		declarerPoints += f.Score
	}
	contractMade := declarerPoints >= r.commitment.Score

	result := &types.RoundResult{
		RoomID:       r.Code,
		President:    r.president,
		Friend:       r.friend,
		Giruda:       string(r.commitment.Giruda),
		Score:        r.commitment.Score,
		ContractMade: contractMade,
		Players:      make([]types.PlayerOutcome, 0, len(r.PlayerOrder)),
		FinishedAt:   time.Now(),
	}
	players := make(map[string]protocol.PlayerResult, len(r.Players))
	for _, id := range r.PlayerOrder {
		p := r.Players[id]
		players[id] = protocol.PlayerResult{Score: p.Score, Role: p.Role.String()}
		result.Players = append(result.Players, types.PlayerOutcome{
			ID:     id,
			Name:   p.Client.GetName(),
			Role:   p.Role.String(),
			Points: p.Score,
			Won:    (p.Role == RoleOpposition) != contractMade,
		})
	}

	r.Broadcast(codec.MustNewMessage(protocol.MsgResult, protocol.ResultPayload{
		Players:      players,
		President:    r.president,
		Friend:       r.friend,
		Bid:          convert.BidToProtocol(*r.commitment),
		ContractMade: contractMade,
	}))

	outcome := "失败"
	if contractMade {
		outcome = "成功"
	}
	log.Printf("🏁 房间 %s 本局结束，主公 %s 叫牌 %s，得分 %d，%s",
		r.Code, r.president, r.commitment, declarerPoints, outcome)

	if rm.recorder != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
			defer cancel()
			if err := rm.recorder.RecordRound(ctx, result); err != nil {
				log.Printf("⚠️ 记录房间 %s 战绩失败: %v", result.RoomID, err)
			}
		}()
	}

	rm.fullReset(r, ResetRoundOver, "")
}
