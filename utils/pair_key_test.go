package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeySymmetric(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
}

func TestPairKeyDistinguishesPairs(t *testing.T) {
	assert.NotEqual(t, PairKey("alice", "bob"), PairKey("alice", "carol"))
}
