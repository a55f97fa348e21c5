package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSetAllowList(t *testing.T) {
	set := NewUpdateSet("name", "notes")

	require.NoError(t, set.Set("name", "fern"))
	require.NoError(t, set.Set("notes", "water weekly"))

	err := set.Set("user_id", "someone-else")
	require.Error(t, err, "ownership column must never be updatable")
	assert.Contains(t, err.Error(), "user_id")

	assert.Equal(t, []string{"name", "notes"}, set.Columns())
	assert.Equal(t, map[string]interface{}{"name": "fern", "notes": "water weekly"}, set.Assignments())
}

func TestUpdateSetEmpty(t *testing.T) {
	set := NewUpdateSet("name")
	assert.True(t, set.Empty())
	assert.Empty(t, set.Assignments())

	require.NoError(t, set.Set("name", "x"))
	assert.False(t, set.Empty())
}

func TestUpdateSetLastWriteWins(t *testing.T) {
	set := NewUpdateSet("name", "notes")
	require.NoError(t, set.Set("name", "first"))
	require.NoError(t, set.Set("notes", "n"))
	require.NoError(t, set.Set("name", "second"))

	assert.Equal(t, []string{"name", "notes"}, set.Columns())
	assert.Equal(t, "second", set.Assignments()["name"])
}
