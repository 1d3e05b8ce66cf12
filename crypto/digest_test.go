package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestFixedVectors(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("315f5bdb76d078c43b8ac0064e4a0164612b1fce77c869345bfc94c75894edd3", DigestHex([]byte("Hello, world!")))
	assert.Equal("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", DigestHex(nil))
	assert.Equal(64, len(DigestHex([]byte("anything"))))

	d := Digest([]byte("Hello, world!"))
	assert.Equal(DigestLength, len(d))
}
