package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/mighty/internal/game/card"
)

func TestCardsRoundTrip(t *testing.T) {
	t.Parallel()

	originals := []card.Card{
		{Suit: card.Spade, Rank: card.Rank3},
		{Suit: card.Heart, Rank: card.RankQ},
		card.JokerCard,
	}

	codes := CardsToCodes(originals)
	assert.Equal(t, []string{"S3", "HQ", "JK"}, codes)

	results, err := CodesToCards(codes)
	require.NoError(t, err)
	assert.Equal(t, originals, results)
}

func TestCodesToCards_Invalid(t *testing.T) {
	t.Parallel()

	_, err := CodesToCards([]string{"SA", "??"})
	assert.Error(t, err)
}

func TestSuitConversion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "D", SuitToString(card.Diamond))
	assert.Empty(t, SuitToString(card.Joker))

	s, err := SuitFromString("H")
	require.NoError(t, err)
	assert.Equal(t, card.Heart, s)

	_, err = SuitFromString("")
	assert.Error(t, err)
}
