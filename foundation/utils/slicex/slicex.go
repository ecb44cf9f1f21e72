// File: slicex.go
// Title: Slice Utilities
// Description: Generic functional helpers over slices used by the
//              registry and the abbreviation resolver.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive slice operations
// - 2026-10-19 v0.2.0: Reduced to Filter, Map, Unique and Contains

// Package slicex provides generic slice helpers.
package slicex

// Filter returns the elements for which predicate holds, in order
func Filter[T any](slice []T, predicate func(T) bool) []T {
	var result []T
	for _, v := range slice {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// Map applies mapper to every element
func Map[T, R any](slice []T, mapper func(T) R) []R {
	if slice == nil {
		return nil
	}
	result := make([]R, len(slice))
	for i, v := range slice {
		result[i] = mapper(v)
	}
	return result
}

// Unique drops repeated elements, keeping the first occurrence
func Unique[T comparable](slice []T) []T {
	if slice == nil {
		return nil
	}
	seen := make(map[T]struct{}, len(slice))
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

// Contains reports whether element is in slice
func Contains[T comparable](slice []T, element T) bool {
	for _, v := range slice {
		if v == element {
			return true
		}
	}
	return false
}
