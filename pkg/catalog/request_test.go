package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInitialSkipsUnmatched(t *testing.T) {
	c := Build([]RawPackage{
		{Name: "A", Version: "1", Size: 10},
	}, testLogger())

	initial, err := ParseInitial(c, []string{"A=1", "nonexistent"}, testLogger())
	require.NoError(t, err)
	assert.Len(t, initial, 1)
	_, ok := initial[1]
	assert.True(t, ok)
}

func TestParseInitialFirstMatchOnly(t *testing.T) {
	c := Build([]RawPackage{
		{Name: "A", Version: "1", Size: 10},
		{Name: "A", Version: "2", Size: 5},
	}, testLogger())

	initial, err := ParseInitial(c, []string{"A"}, testLogger())
	require.NoError(t, err)
	assert.Len(t, initial, 1)
	_, ok := initial[1]
	assert.True(t, ok, "should resolve to the first variant in catalog order")
}

func TestParseConstraints(t *testing.T) {
	c := Build([]RawPackage{
		{Name: "A", Version: "1", Size: 10},
		{Name: "B", Version: "1", Size: 5},
	}, testLogger())

	install, uninstall, err := ParseConstraints(c, []string{"+A=1", "-B=1"}, testLogger())
	require.NoError(t, err)
	require.Len(t, install, 1)
	assert.Equal(t, "A", install[0].Name)
	assert.Contains(t, uninstall, ID(2))
}

func TestParseConstraintsRejectsMissingPrefix(t *testing.T) {
	c := Build([]RawPackage{{Name: "A", Version: "1", Size: 10}}, testLogger())
	_, _, err := ParseConstraints(c, []string{"A=1"}, testLogger())
	assert.Error(t, err)
}
