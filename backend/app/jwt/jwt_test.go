package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParse(t *testing.T) {
	s := &Signer{Secret: []byte("s3cret"), Issuer: "quicksort", ExpMin: 5}
	tok, err := s.Sign("cli", "api")
	require.NoError(t, err)

	c, err := s.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "cli", c.Subject)
	assert.Equal(t, "api", c.Scope)
	assert.Equal(t, "quicksort", c.Issuer)
}

func TestParseRejects(t *testing.T) {
	s := &Signer{Secret: []byte("s3cret"), Issuer: "quicksort", ExpMin: 5}
	other := &Signer{Secret: []byte("other"), Issuer: "quicksort", ExpMin: 5}
	tok, err := other.Sign("cli", "")
	require.NoError(t, err)
	_, err = s.Parse(tok)
	assert.Error(t, err)

	wrongIss := &Signer{Secret: []byte("s3cret"), Issuer: "someone-else", ExpMin: 5}
	tok, err = wrongIss.Sign("cli", "")
	require.NoError(t, err)
	_, err = s.Parse(tok)
	assert.Error(t, err)

	expired := &Signer{Secret: []byte("s3cret"), Issuer: "quicksort", ExpMin: -1}
	tok, err = expired.Sign("cli", "")
	require.NoError(t, err)
	_, err = s.Parse(tok)
	assert.Error(t, err)
}

func TestDisabledSigner(t *testing.T) {
	s := &Signer{}
	assert.False(t, s.Enabled())
	_, err := s.Sign("cli", "")
	assert.ErrorIs(t, err, ErrNoSecret)
}
