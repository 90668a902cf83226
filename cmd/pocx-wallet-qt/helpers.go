package main

import (
	"fmt"
	"strings"

	"github.com/bitcoin-pocx/pocx-wallet/pkg/descriptor"
)

// scriptTypesOf returns the distinct script types in a descriptor set,
// in first-seen order.
func scriptTypesOf(descs []descriptor.Info) []string {
	seen := make(map[descriptor.ScriptType]bool, len(descs))
	types := make([]string, 0, 4)
	for _, d := range descs {
		if !seen[d.ScriptType] {
			seen[d.ScriptType] = true
			types = append(types, string(d.ScriptType))
		}
	}
	return types
}

// formatBalance renders a coin amount with full precision and no
// scientific notation, trimming trailing zeros down to two decimals.
func formatBalance(amount float64) string {
	s := fmt.Sprintf("%.8f", amount)
	for strings.HasSuffix(s, "0") && !strings.HasSuffix(s, ".00") {
		s = s[:len(s)-1]
	}
	return s
}
