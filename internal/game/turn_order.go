package game

// rotationStep is the seat offset between consecutive turns.
const rotationStep = 1

// NextEligible walks the seating order from fromID, one rotation step at a time
// and wrapping around, for at most len(order) steps. The last step lands back on
// fromID. It returns false only when no seat satisfies isEligible.
// An id missing from order walks as if it sat at seat 0.
func NextEligible(order []string, fromID string, isEligible func(id string) bool) (string, bool) {
	n := len(order)
	if n == 0 {
		return "", false
	}
	start := 0
	for i, id := range order {
		if id == fromID {
			start = i
			break
		}
	}
	for step := 1; step <= n; step++ {
		idx := ((start+step*rotationStep)%n + n) % n
		if isEligible(order[idx]) {
			return order[idx], true
		}
	}
	return "", false
}
