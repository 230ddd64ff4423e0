package server

import "math/rand/v2"

// rollDie draws a uniform value in [1,6]. The store keeps the die as a
// swappable func so tests can script rolls.
func rollDie() int {
	return rand.IntN(6) + 1
}
