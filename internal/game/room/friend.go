package room

import (
	"fmt"
	"log"
	"slices"

	"github.com/palemoky/mighty/internal/apperrors"
	"github.com/palemoky/mighty/internal/game/card"
	"github.com/palemoky/mighty/internal/game/rule"
	"github.com/palemoky/mighty/internal/protocol"
	"github.com/palemoky/mighty/internal/protocol/codec"
	"github.com/palemoky/mighty/internal/protocol/convert"
	"github.com/palemoky/mighty/internal/types"
)

// SelectFriend 主公扣牌、选友，可同时调整最终叫牌
func (rm *RoomManager) SelectFriend(client types.ClientInterface, discard []string, sel rule.FriendSelection, raise *rule.Commitment) error {
	return rm.withRoom(client, func(r *Room, p *RoomPlayer) error {
		id := client.GetID()
		if err := r.requirePresident(id); err != nil {
			return err
		}

		kept, floor, err := exchangeFloor(p.Hand, r.floor, discard)
		if err != nil {
			return err
		}
		if err := r.validateFriend(sel); err != nil {
			return err
		}
		if raise != nil {
			if err := rule.ValidateRaise(*r.commitment, *raise); err != nil {
				return err
			}
		}

		// 校验全部通过后再修改状态
		p.Hand = kept
		r.floor = floor
		r.jokerOut = floor.Contains(card.JokerCode)
		if raise != nil {
			c := *raise
			r.commitment = &c
		}
		r.friendSel = sel
		r.assignRoles()

		r.rotateTo(id)
		r.trickIndex = 0
		r.trick = nil
		r.Phase = PhaseMainGame

		giruda := r.commitment.Giruda
		r.Broadcast(codec.MustNewMessage(protocol.MsgFriendSelection, protocol.FriendAnnouncePayload{
			President:     id,
			Friend:        convert.FriendToProtocol(sel),
			Bid:           convert.BidToProtocol(*r.commitment),
			Mighty:        rule.Mighty(giruda).Code(),
			JokerCallCard: rule.JokerCallCard(giruda).Code(),
		}))
		r.Broadcast(codec.MustNewMessage(protocol.MsgTurn, protocol.TurnPayload{PlayerID: id}))

		log.Printf("🤝 房间 %s 主公 %s 选友方式 %s，叫牌 %s", r.Code, id, sel.Mode(), r.commitment)
		return nil
	})
}

// RequirePresident 校验玩家所在房间处于选友阶段，且玩家是主公
func (rm *RoomManager) RequirePresident(client types.ClientInterface) error {
	code := client.GetRoom()
	if code == "" {
		return apperrors.ErrNotInRoom
	}

	room := rm.GetRoom(code)
	if room == nil {
		return apperrors.ErrRoomNotFound
	}

	room.mu.RLock()
	defer room.mu.RUnlock()
	if _, exists := room.Players[client.GetID()]; !exists {
		return apperrors.ErrNotInRoom
	}
	return room.requirePresident(client.GetID())
}

func (r *Room) requirePresident(id string) error {
	if err := r.requirePhase(PhasePresidentReady); err != nil {
		return err
	}
	if id != r.president {
		return apperrors.ErrNotPresident
	}
	return nil
}

// exchangeFloor 从手牌和底牌的并集中扣下三张，返回新手牌和新底牌
func exchangeFloor(hand, floor card.Hand, discard []string) (card.Hand, card.Hand, error) {
	if len(discard) != card.FloorSize {
		return nil, nil, apperrors.ErrInvalidDiscard.WithMessage(fmt.Sprintf("必须扣下 %d 张牌", card.FloorSize))
	}

	pool := slices.Concat(hand, floor)
	seen := make(map[string]bool, len(discard))
	newFloor := make(card.Hand, 0, card.FloorSize)
	for _, code := range discard {
		c, err := card.Parse(code)
		if err != nil {
			return nil, nil, apperrors.ErrInvalidDiscard.WithMessage(err.Error())
		}
		if seen[c.Code()] {
			return nil, nil, apperrors.ErrInvalidDiscard.WithMessage("扣牌不能重复")
		}
		seen[c.Code()] = true

		var ok bool
		if pool, ok = pool.Remove(c.Code()); !ok {
			return nil, nil, apperrors.ErrCardNotOwned.WithMessage(fmt.Sprintf("%s 不在手牌或底牌中", c))
		}
		newFloor = append(newFloor, c)
	}

	pool.Sort()
	return pool, newFloor, nil
}

// validateFriend 校验选友方式
func (r *Room) validateFriend(sel rule.FriendSelection) error {
	switch s := sel.(type) {
	case rule.FirstTrickWinner, rule.NamedCard:
		return nil
	case rule.NamedPlayer:
		if s.PlayerID == r.president {
			return apperrors.ErrInvalidFriend.WithMessage("不能选择自己作为朋友")
		}
		if _, ok := r.Players[s.PlayerID]; !ok {
			return apperrors.ErrInvalidFriend.WithMessage("指定的玩家不在房间中")
		}
		return nil
	case nil:
		return apperrors.ErrInvalidFriend.WithMessage("未选择朋友")
	default:
		return apperrors.ErrInvalidFriend
	}
}

// assignRoles 按选友方式分配身份；第一墩赢家方式在第一墩结算时确定朋友
func (r *Room) assignRoles() {
	r.friend = ""
	switch s := r.friendSel.(type) {
	case rule.NamedPlayer:
		r.friend = s.PlayerID
	case rule.NamedCard:
		for _, id := range r.PlayerOrder {
			if id != r.president && r.Players[id].Hand.Contains(s.Card.Code()) {
				r.friend = id
				break
			}
		}
	case rule.FirstTrickWinner:
	}

	for id, p := range r.Players {
		switch id {
		case r.president:
			p.Role = RolePresident
		case r.friend:
			p.Role = RoleFriend
		default:
			p.Role = RoleOpposition
		}
	}
}
