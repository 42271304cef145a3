package digest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256Bytes(t *testing.T) {
	// well-known vectors
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		SHA256Bytes(nil))
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		SHA256Bytes([]byte("hello")))
}

func TestSHA256Bytes_Properties(t *testing.T) {
	d := SHA256Bytes([]byte("payload"))
	assert.Len(t, d, 64)
	assert.Equal(t, strings.ToLower(d), d)

	assert.Equal(t, d, SHA256Bytes([]byte("payload")))
	assert.NotEqual(t, d, SHA256Bytes([]byte("payload2")))
}

func TestSHA256Stream_MatchesBytes(t *testing.T) {
	data := strings.Repeat("abc123", 10000)

	got, err := SHA256Stream(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, SHA256Bytes([]byte(data)), got)
}
