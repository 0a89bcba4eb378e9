package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBcryptHashAndCheck(t *testing.T) {
	hashed := BcryptHash("secret-password")

	assert.True(t, BcryptIsHashed(hashed))
	assert.NotEqual(t, "secret-password", hashed)
	assert.True(t, BcryptCheck("secret-password", hashed))
	assert.False(t, BcryptCheck("wrong-password", hashed))
}

func TestBcryptIsHashed(t *testing.T) {
	assert.False(t, BcryptIsHashed("plain"))
	assert.False(t, BcryptIsHashed(""))
}
