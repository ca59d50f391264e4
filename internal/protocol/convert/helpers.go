package convert

import (
	"github.com/palemoky/mighty/internal/game/rule"
	"github.com/palemoky/mighty/internal/protocol"
)

// --- Bid conversion ---

func BidToProtocol(c rule.Commitment) protocol.Bid {
	return protocol.Bid{Giruda: string(c.Giruda), Score: c.Score}
}

func BidPtrToProtocol(c *rule.Commitment) *protocol.Bid {
	if c == nil {
		return nil
	}
	b := BidToProtocol(*c)
	return &b
}

func ProtocolToBid(b protocol.Bid) rule.Commitment {
	return rule.Commitment{Giruda: rule.Giruda(b.Giruda), Score: b.Score}
}

func ProtocolToBidPtr(b *protocol.Bid) *rule.Commitment {
	if b == nil {
		return nil
	}
	c := ProtocolToBid(*b)
	return &c
}

// --- Friend selection conversion ---

func FriendToProtocol(sel rule.FriendSelection) protocol.FriendInfo {
	switch s := sel.(type) {
	case rule.FirstTrickWinner:
		return protocol.FriendInfo{Mode: string(rule.ModeFirstTrick)}
	case rule.NamedPlayer:
		return protocol.FriendInfo{Mode: string(rule.ModePlayer), PlayerID: s.PlayerID}
	case rule.NamedCard:
		return protocol.FriendInfo{Mode: string(rule.ModeCard), Card: s.Card.Code()}
	default:
		return protocol.FriendInfo{}
	}
}

func ProtocolToFriend(info protocol.FriendInfo) (rule.FriendSelection, error) {
	return rule.ParseFriendSelection(rule.FriendMode(info.Mode), info.PlayerID, info.Card)
}
