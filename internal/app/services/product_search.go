package services

import (
	"strings"
	"unicode"

	"github.com/gerailabs/gerai-core/internal/app/models"
)

// consonantSkeleton lowercases s and strips vowels and anything that is not
// a letter or digit. "Kopi Gula Aren" and "kp gl arn" reduce to the same
// skeleton, which is what makes abbreviated queries land.
func consonantSkeleton(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// matchesQuery reports whether a product name matches the search query,
// either by case-insensitive substring or by consonant-skeleton containment.
func matchesQuery(name, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
		return true
	}

	skeleton := consonantSkeleton(query)
	if skeleton == "" {
		return false
	}
	return strings.Contains(consonantSkeleton(name), skeleton)
}

// filterProducts returns the products whose name or SKU matches query,
// preserving input order.
func filterProducts(products []models.Product, query string) []models.Product {
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matchesQuery(p.Name, query) || matchesQuery(p.SKU, query) {
			matched = append(matched, p)
		}
	}
	return matched
}
