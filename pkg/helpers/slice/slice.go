package slice

import (
	"github.com/cnf/structhash"
	"github.com/google/go-cmp/cmp"
)

// Contains returns true if a slice contains an element
func Contains[T any](elems []T, v T) bool {
	return IndexOf(elems, v) >= 0
}

// IndexOf returns the index of an element in a slice, if exists (otherwise -1)
func IndexOf[T any](elems []T, v T) int {
	for i, s := range elems {
		if cmp.Equal(v, s) {
			return i
		}
	}
	return -1
}

func Map[T any, R any](elems []T, fn func(T) R) []R {
	result := make([]R, len(elems))
	for i, e := range elems {
		result[i] = fn(e)
	}
	return result
}

// Deduplicate keeps the first occurrence of every element, preserving order.
func Deduplicate[T any](elems []T) []T {
	resultMap := make(map[string]struct{})
	result := make([]T, 0, len(elems))
	for _, item := range elems {
		key := string(structhash.Sha1(item, 1))
		if _, exists := resultMap[key]; !exists {
			resultMap[key] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}

// Concat joins slices in order into a new slice.
func Concat[T any](parts ...[]T) []T {
	size := 0
	for _, part := range parts {
		size += len(part)
	}
	result := make([]T, 0, size)
	for _, part := range parts {
		result = append(result, part...)
	}
	return result
}
