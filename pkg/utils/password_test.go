package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := CreateBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("S3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "S3cret!", hash)

	assert.True(t, h.Verify("S3cret!", hash))
	assert.False(t, h.Verify("s3cret!", hash))
	assert.False(t, h.Verify("S3cret!", ""))
	assert.False(t, h.Verify("S3cret!", "not-a-bcrypt-hash"))
}

func TestBcryptHasherRejectsEmptyPassword(t *testing.T) {
	_, err := CreateBcryptHasher(bcrypt.MinCost).Hash("")
	assert.Error(t, err)
}

func TestCreateBcryptHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, CreateBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, CreateBcryptHasher(99).cost)
}

func TestBcryptHasherRejectsOverlongPassword(t *testing.T) {
	h := CreateBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
