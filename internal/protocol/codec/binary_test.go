package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/mighty/internal/protocol"
)

func TestBinary_RoundTrip(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgFriendSelection, protocol.FriendSelectionPayload{
		FloorCards: []string{"S2", "D3", "C4"},
		Friend:     protocol.FriendInfo{Mode: "card", Card: "HK"},
		Bid:        &protocol.Bid{Giruda: "H", Score: 15},
	})
	msg.ID = "abc"

	data, err := EncodeBinary(msg)
	require.NoError(t, err)

	decoded, err := DecodeBinary(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgFriendSelection, decoded.Type)
	assert.Equal(t, "abc", decoded.ID)

	payload, err := ParsePayload[protocol.FriendSelectionPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, []string{"S2", "D3", "C4"}, payload.FloorCards)
	assert.Equal(t, "HK", payload.Friend.Card)
	require.NotNil(t, payload.Bid)
	assert.Equal(t, 15, payload.Bid.Score)
}

func TestBinary_NoPayload(t *testing.T) {
	t.Parallel()

	data, err := EncodeBinary(&protocol.Message{Type: protocol.MsgCreateRoom})
	require.NoError(t, err)

	decoded, err := DecodeBinary(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgCreateRoom, decoded.Type)
	assert.Empty(t, decoded.ID)
	assert.Nil(t, decoded.Payload)
}

func TestBinary_Invalid(t *testing.T) {
	t.Parallel()

	_, err := DecodeBinary([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)

	// 合法的空 Struct 但缺少 type
	_, err = DecodeBinary([]byte{})
	assert.Error(t, err)

	_, err = EncodeBinary(&protocol.Message{Type: protocol.MsgPlay, Payload: []byte("{bad")})
	assert.Error(t, err)
}
