package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomID(t *testing.T) {
	t.Parallel()

	for range 50 {
		id, err := CustomID()
		require.NoError(t, err)
		assert.True(t, IsValidCustomID(id), "generated ID %q should validate", id)
		assert.NotEqual(t, byte('0'), id[0])
	}
}

func TestIsValidCustomID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "valid", id: "12345678", want: true},
		{name: "leading zero still valid", id: "01234567", want: true},
		{name: "too short", id: "1234567", want: false},
		{name: "too long", id: "123456789", want: false},
		{name: "letters", id: "1234567a", want: false},
		{name: "empty", id: "", want: false},
		{name: "unicode digits", id: "١٢٣٤٥٦٧٨", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValidCustomID(tt.id))
		})
	}
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 20 {
		key, err := ObjectKey()
		require.NoError(t, err)
		assert.Len(t, key, ObjectKeyLength)
		assert.True(t, IsBase62(key))
		assert.False(t, seen[key], "object keys should not repeat")
		seen[key] = true
	}
}

func TestIsBase62(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBase62("abcXYZ019"))
	assert.False(t, IsBase62(""))
	assert.False(t, IsBase62("has space"))
	assert.False(t, IsBase62("under_score"))
}
