package pkg

import (
	"math/rand"
)

// RandomCouponCode returns an upper-case alphanumeric code. Ambiguous glyphs
// (0/O, 1/I) are excluded so codes survive being read over the phone.
func RandomCouponCode(n int) string {
	runes := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = runes[rand.Intn(len(runes))]
	}
	return string(b)
}
