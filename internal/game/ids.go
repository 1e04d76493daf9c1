package game

import (
	"math/rand/v2"
	"strings"
)

const (
	// roomCodeChars leaves out I, L, O, 0 and 1.
	roomCodeChars  = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	roomCodeLength = 5

	playerIDChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
	playerIDLength = 10
)

func randomCode(r *rand.Rand, alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[r.IntN(len(alphabet))])
	}
	return b.String()
}

// newRoomCode draws codes until taken reports false.
func newRoomCode(r *rand.Rand, taken func(string) bool) string {
	for {
		code := randomCode(r, roomCodeChars, roomCodeLength)
		if !taken(code) {
			return code
		}
	}
}

func newPlayerID(r *rand.Rand, taken func(string) bool) string {
	for {
		id := randomCode(r, playerIDChars, playerIDLength)
		if !taken(id) {
			return id
		}
	}
}

// NormalizeRoomCode makes room codes case-insensitive.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// newRand seeds an independent generator for a room or store.
func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
