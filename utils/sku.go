package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// GenerateSKU builds a readable stock code from a product name, e.g.
// "Vitamin C 1000mg" becomes "VITAMIN-C-1000MG-3F9A". The random suffix keeps
// products with the same name apart.
func GenerateSKU(name string) string {
	base := strings.ToUpper(slug.Make(name))
	if len(base) > 24 {
		base = strings.TrimRight(base[:24], "-")
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	if base == "" {
		return "SKU-" + suffix
	}
	return base + "-" + suffix
}

// NormalizeSKU uppercases a caller supplied SKU and drops surrounding space
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
