package entities

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItems(n int) []MediaItem {
	now := time.Now()
	items := make([]MediaItem, n)
	for i := range items {
		items[i] = MediaItem{
			ID:         uuid.New(),
			Type:       MediaTypeSlider,
			OrderIndex: i,
			CreatedAt:  now.Add(time.Duration(i) * time.Second),
		}
	}
	return items
}

func ids(items []MediaItem) []uuid.UUID {
	out := make([]uuid.UUID, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func indices(items []MediaItem) []int {
	out := make([]int, len(items))
	for i, item := range items {
		out[i] = item.OrderIndex
	}
	return out
}

func TestMoveItem(t *testing.T) {
	items := newItems(4)
	a, b, c, d := items[0].ID, items[1].ID, items[2].ID, items[3].ID

	tests := []struct {
		name    string
		from    int
		to      int
		wantIDs []uuid.UUID
	}{
		{name: "last to first", from: 3, to: 0, wantIDs: []uuid.UUID{d, a, b, c}},
		{name: "first to last", from: 0, to: 3, wantIDs: []uuid.UUID{b, c, d, a}},
		{name: "middle forward", from: 1, to: 2, wantIDs: []uuid.UUID{a, c, b, d}},
		{name: "middle backward", from: 2, to: 1, wantIDs: []uuid.UUID{a, c, b, d}},
		{name: "no-op", from: 2, to: 2, wantIDs: []uuid.UUID{a, b, c, d}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveItem(items, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(got))
			assert.Equal(t, []int{0, 1, 2, 3}, indices(got))
		})
	}

	// input untouched
	assert.Equal(t, []uuid.UUID{a, b, c, d}, ids(items))
}

func TestMoveItem_OutOfRange(t *testing.T) {
	items := newItems(2)

	tests := []struct {
		name string
		from int
		to   int
	}{
		{name: "negative from", from: -1, to: 0},
		{name: "from past end", from: 2, to: 0},
		{name: "to past end", from: 0, to: 2},
		{name: "negative to", from: 1, to: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MoveItem(items, tt.from, tt.to)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}

	_, err := MoveItem(nil, 0, 0)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestMoveItem_RestoresDensityAfterDrift(t *testing.T) {
	items := newItems(3)
	items[0].OrderIndex = 4
	items[1].OrderIndex = 7
	items[2].OrderIndex = 7

	got, err := MoveItem(items, 0, 1)
	require.NoError(t, err)
	assert.True(t, IsDense(got))
}

func TestMoveItem_RandomSequencesStayDensePermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := newItems(9)
	want := map[uuid.UUID]bool{}
	for _, id := range ids(items) {
		want[id] = true
	}

	for i := 0; i < 500; i++ {
		from, to := rng.Intn(len(items)), rng.Intn(len(items))
		next, err := MoveItem(items, from, to)
		require.NoError(t, err)
		require.True(t, IsDense(next), "step %d not dense: %v", i, indices(next))
		require.Len(t, next, len(items))

		got := map[uuid.UUID]bool{}
		for _, id := range ids(next) {
			got[id] = true
		}
		require.Equal(t, want, got)
		items = next
	}
}

func TestNextOrderIndex(t *testing.T) {
	assert.Equal(t, 0, NextOrderIndex(nil))
	assert.Equal(t, 3, NextOrderIndex(newItems(3)))

	sparse := newItems(2)
	sparse[1].OrderIndex = 5
	assert.Equal(t, 6, NextOrderIndex(sparse))
}

func TestSortByOrder(t *testing.T) {
	items := newItems(3)
	items[0].OrderIndex, items[2].OrderIndex = 9, 0
	want := []uuid.UUID{items[2].ID, items[1].ID, items[0].ID}

	SortByOrder(items)
	assert.Equal(t, want, ids(items))
}

func TestIsDense(t *testing.T) {
	assert.True(t, IsDense(nil))
	assert.True(t, IsDense(newItems(4)))

	gap := newItems(3)
	gap[2].OrderIndex = 3
	assert.False(t, IsDense(gap))

	dup := newItems(3)
	dup[2].OrderIndex = 1
	assert.False(t, IsDense(dup))
}
