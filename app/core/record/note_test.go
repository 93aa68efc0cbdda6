package record

import (
	"testing"
	"time"

	"github.com/pocketbook/pocketbook/app/core/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNote(t *testing.T) {
	n, err := NewNote("buy milk", "shop", "home", "shop")
	require.NoError(t, err)
	assert.Len(t, n.ID(), 8)
	assert.Equal(t, n.ID(), n.Key())
	assert.Equal(t, "buy milk", n.Text())
	assert.Equal(t, []string{"shop", "home"}, n.Tags())

	_, err = NewNote("  ")
	assert.ErrorIs(t, err, field.ErrEmptyRequired)

	_, err = RestoreNote("", "text", time.Now())
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestNoteIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n, err := NewNote("x")
		require.NoError(t, err)
		assert.False(t, seen[n.ID()])
		seen[n.ID()] = true
	}
}

func TestNoteEditText(t *testing.T) {
	n, err := RestoreNote("abc", "first", time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, n.EditText(""), field.ErrEmptyRequired)
	assert.Equal(t, "first", n.Text())

	require.NoError(t, n.EditText("second"))
	assert.Equal(t, "second", n.Text())
}

func TestNoteHasTags(t *testing.T) {
	n, err := RestoreNote("abc", "text", time.Now(), "a", "b")
	require.NoError(t, err)

	assert.True(t, n.HasTags([]string{"a"}, false))
	assert.True(t, n.HasTags([]string{"a", "z"}, false))
	assert.False(t, n.HasTags([]string{"a", "z"}, true))
	assert.True(t, n.HasTags([]string{"a", "b"}, true))
	assert.False(t, n.HasTags(nil, true))
	assert.False(t, n.HasTags([]string{"z"}, false))
}

func TestNoteMatchesAndRender(t *testing.T) {
	n, err := RestoreNote("abc", "call the plumber", time.Now(), "house")
	require.NoError(t, err)

	assert.True(t, n.Matches("plumber"))
	assert.True(t, n.Matches("hous"))
	assert.False(t, n.Matches("Plumber"))
	assert.Equal(t, "Note id: abc, tags: house\ncall the plumber", n.Render())

	n.AddTag("urgent")
	assert.ErrorIs(t, n.RemoveTag("nope"), ErrTagNotFound)
	require.NoError(t, n.RemoveTag("house"))
	assert.Equal(t, []string{"urgent"}, n.Tags())
}

func TestNoteClone(t *testing.T) {
	n, err := RestoreNote("abc", "text", time.Now(), "a")
	require.NoError(t, err)

	c := n.Clone()
	require.NoError(t, c.EditText("changed"))
	c.AddTag("b")

	assert.Equal(t, "text", n.Text())
	assert.Equal(t, []string{"a"}, n.Tags())
	assert.Equal(t, n.CreatedAt(), c.CreatedAt())
}
