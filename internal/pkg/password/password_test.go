package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = Params{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(testParams)

	cred, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(cred, "$argon2id$v=19$m=64,t=1,p=1$"), cred)
	assert.NotContains(t, cred, "correct horse")
	assert.True(t, h.Verify("correct horse", cred))
	assert.False(t, h.Verify("Correct horse", cred))
	assert.False(t, h.Verify("", cred))
}

func TestHasher_FreshSaltPerHash(t *testing.T) {
	h := NewHasher(testParams)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same", a))
	assert.True(t, h.Verify("same", b))
}

func TestHasher_VerifyUsesParamsFromCredential(t *testing.T) {
	cred, err := NewHasher(testParams).Hash("pw")
	require.NoError(t, err)

	stronger := NewHasher(Params{Memory: 128, Iterations: 2, Parallelism: 1, SaltLength: 8, KeyLength: 16})
	assert.True(t, stronger.Verify("pw", cred))
}

func TestHasher_MalformedCredential(t *testing.T) {
	h := NewHasher(testParams)
	good, err := h.Hash("pw")
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	cases := map[string]string{
		"empty":         "",
		"plain text":    "pw",
		"bcrypt":        "$2a$10$abcdefghijklmnopqrstuuJ6Q2QbVxkqQ6rYp7C6o5Ch4FQxZ2S0m",
		"wrong alg":     strings.Replace(good, "argon2id", "argon2i", 1),
		"wrong version": strings.Replace(good, "v=19", "v=16", 1),
		"huge memory":   strings.Join([]string{"", parts[1], parts[2], "m=99999999,t=1,p=1", parts[4], parts[5]}, "$"),
		"zero time":     strings.Join([]string{"", parts[1], parts[2], "m=64,t=0,p=1", parts[4], parts[5]}, "$"),
		"bad salt":      strings.Join([]string{"", parts[1], parts[2], parts[3], "!!!", parts[5]}, "$"),
		"missing hash":  strings.Join([]string{"", parts[1], parts[2], parts[3], parts[4]}, "$"),
	}
	for name, cred := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, h.Verify("pw", cred))
		})
	}
}
