package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_SnapshotModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mode     SelectionMode
		snapshot []string
		want     []string
	}{
		{name: "all room takes the snapshot", mode: ModeAllRoom, snapshot: []string{"a", "b", "c"}, want: []string{"a", "b", "c"}},
		{name: "all mic takes the snapshot", mode: ModeAllMic, snapshot: []string{"b"}, want: []string{"b"}},
		{name: "manual clears regardless of snapshot", mode: ModeManual, snapshot: []string{"a", "b"}, want: []string{}},
		{name: "empty ids are dropped", mode: ModeAllRoom, snapshot: []string{"a", "", "b"}, want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sel := NewSelection()
			sel.SetMode(tt.mode, tt.snapshot)
			assert.Equal(t, tt.mode, sel.Mode())
			assert.ElementsMatch(t, tt.want, sel.IDs())
		})
	}
}

func TestSelection_SnapshotIsNotLive(t *testing.T) {
	t.Parallel()

	sel := NewSelection()
	snapshot := []string{"a", "b"}
	sel.SetMode(ModeAllRoom, snapshot)

	// Mutating the list the snapshot was taken from must not change the
	// selection.
	snapshot[0] = "z"
	assert.ElementsMatch(t, []string{"a", "b"}, sel.IDs())
}

func TestSelection_ToggleOnlyUnderManual(t *testing.T) {
	t.Parallel()

	sel := NewSelection()

	sel.Toggle("a")
	assert.True(t, sel.Has("a"))
	sel.Toggle("a")
	assert.False(t, sel.Has("a"))

	sel.SetMode(ModeAllMic, []string{"x"})
	sel.Toggle("a")
	assert.False(t, sel.Has("a"), "toggle is a no-op under all-mic")
	sel.Toggle("x")
	assert.True(t, sel.Has("x"), "toggle must not remove snapshot members either")

	sel.SetMode(ModeManual, nil)
	assert.Zero(t, sel.Len(), "switching to manual empties the set")
}

func TestGiftByID(t *testing.T) {
	t.Parallel()

	g, ok := GiftByID("4")
	require.True(t, ok)
	assert.Equal(t, int64(9999), g.Price)

	_, ok = GiftByID("999")
	assert.False(t, ok)
}

func TestGift_Cost(t *testing.T) {
	t.Parallel()

	g, ok := GiftByID("2")
	require.True(t, ok)

	assert.Equal(t, int64(100), g.Cost(1, 1))
	assert.Equal(t, int64(700), g.Cost(7, 1))
	assert.Equal(t, int64(2100), g.Cost(7, 3))
	assert.Zero(t, g.Cost(0, 3))
	assert.Zero(t, g.Cost(7, 0))
}

func TestValidQuantity(t *testing.T) {
	t.Parallel()

	for _, q := range Quantities {
		assert.True(t, ValidQuantity(q))
	}
	assert.False(t, ValidQuantity(2))
	assert.False(t, ValidQuantity(0))
	assert.False(t, ValidQuantity(-1))
}
