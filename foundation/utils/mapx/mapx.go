// File: mapx.go
// Title: Map Utilities
// Description: Generic helpers for the argument and binding maps of the
//              command engine: sorted key listing, cloning and merging.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core map utilities
// - 2026-10-19 v0.2.0: Reduced to the helpers the engine uses, SortedKeys added

// Package mapx provides generic map helpers.
package mapx

import (
	"cmp"
	"slices"
)

// Keys returns the keys of m in unspecified order
func Keys[K comparable, V any](m map[K]V) []K {
	if m == nil {
		return nil
	}
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys returns the keys of m in ascending order. The result is
// never nil.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a shallow copy of m. A nil map clones to an empty one.
func Clone[K comparable, V any](m map[K]V) map[K]V {
	result := make(map[K]V, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// Merge combines maps into a new map. Later maps win on key conflicts.
func Merge[K comparable, V any](maps ...map[K]V) map[K]V {
	size := 0
	for _, m := range maps {
		size += len(m)
	}
	result := make(map[K]V, size)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}
