package entities

import (
	"fmt"
	"sort"
)

// SortByOrder sorts items by order index, breaking ties by creation time
// so that a scope with drifted or duplicate indices still reads stably.
func SortByOrder(items []MediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].OrderIndex != items[j].OrderIndex {
			return items[i].OrderIndex < items[j].OrderIndex
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

// Renumber returns a copy of items whose order indices are rewritten to
// their positions 0..n-1. The input order is kept.
func Renumber(items []MediaItem) []MediaItem {
	out := make([]MediaItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].OrderIndex = i
	}
	return out
}

// MoveItem moves the item at from to position to and renumbers every item,
// including the ones that did not move. The input slice is not modified.
func MoveItem(items []MediaItem, from, to int) ([]MediaItem, error) {
	n := len(items)
	if from < 0 || from >= n {
		return nil, NewValidationError("from", fmt.Sprintf("index %d out of range [0,%d)", from, n))
	}
	if to < 0 || to >= n {
		return nil, NewValidationError("to", fmt.Sprintf("index %d out of range [0,%d)", to, n))
	}

	out := make([]MediaItem, 0, n)
	moved := items[from]
	for i, item := range items {
		if i == from {
			continue
		}
		out = append(out, item)
	}

	out = append(out, MediaItem{})
	copy(out[to+1:], out[to:])
	out[to] = moved

	return Renumber(out), nil
}

// NextOrderIndex returns max(order_index)+1, or 0 for an empty scope.
func NextOrderIndex(items []MediaItem) int {
	next := 0
	for _, item := range items {
		if item.OrderIndex+1 > next {
			next = item.OrderIndex + 1
		}
	}
	return next
}

// IsDense reports whether the order indices are exactly {0..n-1}.
func IsDense(items []MediaItem) bool {
	seen := make([]bool, len(items))
	for _, item := range items {
		if item.OrderIndex < 0 || item.OrderIndex >= len(items) || seen[item.OrderIndex] {
			return false
		}
		seen[item.OrderIndex] = true
	}
	return true
}
