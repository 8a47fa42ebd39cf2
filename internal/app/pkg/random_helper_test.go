package pkg

import (
	"strings"
	"testing"
)

func TestRandomCouponCodeShape(t *testing.T) {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	for i := 0; i < 100; i++ {
		code := RandomCouponCode(10)
		if len(code) != 10 {
			t.Fatalf("expected length 10, got %d (%q)", len(code), code)
		}
		for _, r := range code {
			if !strings.ContainsRune(charset, r) {
				t.Fatalf("code %q contains %q outside the charset", code, r)
			}
		}
	}
}
