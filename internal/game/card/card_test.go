package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTripsEveryCard(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	seen := make(map[string]bool)
	for _, c := range deck {
		code := c.Code()
		assert.Len(t, code, 2)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true

		parsed, err := Parse(code)
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
		assert.Equal(t, code, parsed.Code())
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "S", "SAA", "X2", "S1", "s2", "JJ", "K"} {
		_, err := Parse(code)
		assert.Error(t, err, code)
	}
}

func TestCard_Point(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code  string
		point int
	}{
		{"SA", 1},
		{"HK", 1},
		{"DQ", 1},
		{"CJ", 1},
		{"ST", 1},
		{"S9", 0},
		{"H2", 0},
		{"JK", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.point, MustParse(tt.code).Point(), tt.code)
	}

	total := 0
	for _, c := range NewDeck() {
		total += c.Point()
	}
	assert.Equal(t, 20, total)
}

func TestCard_DealPoint(t *testing.T) {
	t.Parallel()

	for _, c := range NewDeck() {
		assert.Equal(t, c.Point(), c.DealPoint(), c.Code())
	}
	assert.Zero(t, MustParse(JokerCode).DealPoint(), "王牌不计点")
}

func TestCard_JSONUsesCode(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]Card{MustParse("SA"), JokerCard})
	require.NoError(t, err)
	assert.JSONEq(t, `["SA","JK"]`, string(data))

	var cards []Card
	require.NoError(t, json.Unmarshal([]byte(`["HT","C3"]`), &cards))
	assert.Equal(t, []Card{{Suit: Heart, Rank: Rank10}, {Suit: Club, Rank: Rank3}}, cards)

	assert.Error(t, json.Unmarshal([]byte(`["ZZ"]`), &cards))
}

func TestDeck_Deal(t *testing.T) {
	t.Parallel()

	groups := ShuffleAndDeal()

	total := 0
	seen := make(map[string]bool)
	for i, g := range groups {
		if i == PlayerCount {
			assert.Len(t, g, FloorSize)
		} else {
			assert.Len(t, g, HandSize)
		}
		for _, c := range g {
			assert.False(t, seen[c.Code()])
			seen[c.Code()] = true
		}
		total += len(g)
	}
	assert.Equal(t, DeckSize, total)
}

func TestDeck_DealRejectsShortDeck(t *testing.T) {
	t.Parallel()

	_, err := NewDeck()[:50].Deal()
	assert.Error(t, err)
}

func TestSuitFromLetter(t *testing.T) {
	t.Parallel()

	s, err := SuitFromLetter("C")
	require.NoError(t, err)
	assert.Equal(t, Club, s)

	_, err = SuitFromLetter("JK")
	assert.Error(t, err)
	_, err = SuitFromLetter("")
	assert.Error(t, err)
}
