package utils

import "math/rand"

// Shuffle permutes s in place with Fisher-Yates.
func Shuffle[T any](s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
