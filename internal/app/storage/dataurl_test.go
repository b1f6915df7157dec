package storage

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURL(t *testing.T) {
	t.Parallel()

	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))

	mime, raw, err := ParseDataURL("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte("fake png bytes"), raw)
}

func TestParseDataURLRejections(t *testing.T) {
	t.Parallel()

	valid := base64.StdEncoding.EncodeToString([]byte("x"))

	tests := []struct {
		name string
		in   string
	}{
		{name: "plain URL", in: "https://example.com/image.png"},
		{name: "no payload", in: "data:image/png;base64"},
		{name: "not base64 encoded", in: "data:image/png;utf8,hello"},
		{name: "disallowed mime", in: "data:text/html;base64," + valid},
		{name: "svg not allowed", in: "data:image/svg+xml;base64," + valid},
		{name: "broken base64", in: "data:image/png;base64,@@@"},
		{name: "empty payload", in: "data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := ParseDataURL(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestParseDataURLSizeCap(t *testing.T) {
	t.Parallel()

	huge := strings.Repeat("A", base64.StdEncoding.EncodedLen(MaxImageBytes+1024))
	_, _, err := ParseDataURL("data:image/png;base64," + huge)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestIsDataURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDataURL("data:image/png;base64,AAAA"))
	assert.False(t, IsDataURL("https://example.com/a.png"))
	assert.False(t, IsDataURL(""))
}
