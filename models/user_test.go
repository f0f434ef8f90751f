package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Responses serialize User directly, so the struct itself must never leak
// the password hash or a reset code.
func TestUserJSONHidesSensitiveFields(t *testing.T) {
	user := User{
		ID:        primitive.NewObjectID(),
		Username:  "a1b2c3",
		Email:     "seller@example.com",
		Password:  "$2a$12$secrethash",
		ResetCode: "d4e5f6",
		Role:      []string{RoleBuyer, RoleSeller},
		Wishlist:  []primitive.ObjectID{primitive.NewObjectID()},
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secrethash")
	assert.NotContains(t, string(data), "password")
	assert.NotContains(t, string(data), "d4e5f6")
	assert.NotContains(t, string(data), "resetCode")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "email")
	assert.Contains(t, decoded, "wishlist")
	assert.Contains(t, decoded, "role")
}
