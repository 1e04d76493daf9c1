package game

import "math/rand/v2"

// Rank is both the rank and the name of a card; the deck holds duplicates.
type Rank string

const (
	RankQueen Rank = "QUEEN"
	RankKing  Rank = "KING"
	RankAce   Rank = "ACE"
	RankJoker Rank = "JOKER" // wildcard, always truthful
)

// tableRanks are the ranks a round can be played on. The wildcard is never one.
var tableRanks = []Rank{RankQueen, RankKing, RankAce}

const (
	HandSize    = 5
	MinPlaySize = 1
	MaxPlaySize = 3
	ChamberSize = 6
)

// deckComposition is the fixed 20-card play deck.
var deckComposition = []struct {
	rank  Rank
	count int
}{
	{RankQueen, 6},
	{RankKing, 6},
	{RankAce, 6},
	{RankJoker, 2},
}

// NewDeck returns a freshly shuffled play deck of card names.
func NewDeck(r *rand.Rand) []string {
	deck := make([]string, 0, 20)
	for _, c := range deckComposition {
		for i := 0; i < c.count; i++ {
			deck = append(deck, string(c.rank))
		}
	}
	r.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// RandomTableRank picks a table rank uniformly, independent of earlier rounds.
func RandomTableRank(r *rand.Rand) Rank {
	return tableRanks[r.IntN(len(tableRanks))]
}

// IsTruthful reports whether every card in a play matches the table rank or is the wildcard.
func IsTruthful(table Rank, cards []string) bool {
	for _, c := range cards {
		if Rank(c) != table && Rank(c) != RankJoker {
			return false
		}
	}
	return true
}

// Slot is one chamber position of the revolver.
type Slot string

const (
	SlotSafe Slot = "safe"
	SlotLive Slot = "live"
)

// Chamber is the shuffled queue of revolver slots shared by a whole game.
type Chamber struct {
	slots []Slot
}

// NewChamber loads 5 safe slots and 1 live slot in random order.
func NewChamber(r *rand.Rand) *Chamber {
	c := &Chamber{}
	c.reload(r)
	return c
}

func (c *Chamber) reload(r *rand.Rand) {
	c.slots = make([]Slot, ChamberSize)
	for i := range c.slots {
		c.slots[i] = SlotSafe
	}
	c.slots[ChamberSize-1] = SlotLive
	r.Shuffle(len(c.slots), func(i, j int) {
		c.slots[i], c.slots[j] = c.slots[j], c.slots[i]
	})
}

// Draw consumes the next slot. An empty chamber is reloaded first, never a partial one.
func (c *Chamber) Draw(r *rand.Rand) Slot {
	if len(c.slots) == 0 {
		c.reload(r)
	}
	s := c.slots[0]
	c.slots = c.slots[1:]
	return s
}

// Remaining is the number of undrawn slots.
func (c *Chamber) Remaining() int {
	return len(c.slots)
}
