package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthResult(t *testing.T) {
	token, ok := Granted("T").Token()
	assert.True(t, ok)
	assert.Equal(t, "T", token)

	token, ok = Denied().Token()
	assert.False(t, ok)
	assert.Empty(t, token)

	// 零值等同于被拒绝
	_, ok = AuthResult{}.Token()
	assert.False(t, ok)
	assert.Equal(t, Denied(), AuthResult{})
}

func TestGranted_EmptyTokenStillGranted(t *testing.T) {
	token, ok := Granted("").Token()
	assert.True(t, ok)
	assert.Empty(t, token)
}
