package components

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopList(t *testing.T) {
	sl := NewStopList([]string{"The", "a", "and", "a"})

	assert.True(t, sl.IsStopWord("the"))
	assert.True(t, sl.IsStopWord("a"))
	assert.False(t, sl.IsStopWord("hello"))
	assert.Equal(t, 3, sl.Len())
}

func TestLoadStopList(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/stop.yaml", []byte("terms:\n  - der\n  - Die\n  - das\n"), 0644))

	sl, err := LoadStopList(fs, "/stop.yaml")
	require.NoError(t, err)

	assert.Equal(t, 3, sl.Len())
	assert.True(t, sl.IsStopWord("die"))
	assert.False(t, sl.IsStopWord("the"))

	_, err = LoadStopList(fs, "/missing.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("terms: [unclosed"), 0644))
	_, err = LoadStopList(fs, "/bad.yaml")
	assert.Error(t, err)
}
