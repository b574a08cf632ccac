// Package ordered provides the deterministic map-key iteration helper
// package registry needs to list family names reproducibly. Adapted
// from utils.GetSortedKeys in the teacher repository (see
// utils/slices.go), trimmed to the one function func actually needs.
package ordered

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// SortedKeys returns m's keys in ascending order.
func SortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
