package storage

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageDataURI(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	subtype, data, err := ParseImageDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", subtype)
	assert.Equal(t, payload, data)
}

func TestParseImageDataURISubtypes(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("img"))

	for _, subtype := range []string{"png", "webp", "gif"} {
		got, _, err := ParseImageDataURI("data:image/" + subtype + ";base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, subtype, got)
	}
}

func TestParseImageDataURIRejectsMissingPrefix(t *testing.T) {
	_, _, err := ParseImageDataURI(base64.StdEncoding.EncodeToString([]byte("img")))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, _, err = ParseImageDataURI("data:text/plain;base64,aGVsbG8=")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestParseImageDataURIRejectsBadBase64(t *testing.T) {
	_, _, err := ParseImageDataURI("data:image/png;base64,!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestRandomKeyLength(t *testing.T) {
	a := randomKey()
	b := randomKey()
	assert.Len(t, a, 6)
	assert.Len(t, b, 6)
	assert.NotEqual(t, a, b)
}
