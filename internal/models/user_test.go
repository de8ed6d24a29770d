package models

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullStringJSON(t *testing.T) {
	t.Run("Marshal Valid", func(t *testing.T) {
		ns := NullString{NullString: sql.NullString{String: "hello", Valid: true}}
		data, err := json.Marshal(ns)
		require.NoError(t, err)
		assert.Equal(t, `"hello"`, string(data))
	})

	t.Run("Marshal Null", func(t *testing.T) {
		ns := NullString{}
		data, err := json.Marshal(ns)
		require.NoError(t, err)
		assert.Equal(t, `null`, string(data))
	})

	t.Run("Unmarshal Value", func(t *testing.T) {
		var ns NullString
		require.NoError(t, json.Unmarshal([]byte(`"world"`), &ns))
		assert.True(t, ns.Valid)
		assert.Equal(t, "world", ns.String)
	})

	t.Run("Unmarshal Null", func(t *testing.T) {
		var ns NullString
		require.NoError(t, json.Unmarshal([]byte(`null`), &ns))
		assert.False(t, ns.Valid)
	})
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := User{Email: "rider@example.com", PasswordHash: "secret-hash"}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-hash")
	assert.Contains(t, string(data), "rider@example.com")
}
