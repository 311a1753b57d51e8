package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var skuSequencePattern = regexp.MustCompile(`(\d{3})$`)

// skuSequence extracts the trailing 3-digit sequence from a SKU.
// Anything without that suffix (including "") counts as sequence 0.
func skuSequence(sku string) int {
	m := skuSequencePattern.FindStringSubmatch(sku)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// deriveSKU composes the category-scoped sequential identifier:
// {CAT}-{TIT}-{TIT}-{seq+1}. The title code appears twice to match the
// shape of the SKUs already in the table.
func deriveSKU(categoryName, title string, lastSequence int) string {
	categoryCode := strings.ToUpper(firstRunes(categoryName, 3))
	titleCode := strings.ToUpper(firstRunes(title, 3))
	return fmt.Sprintf("%s-%s-%s-%03d", categoryCode, titleCode, titleCode, lastSequence+1)
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
