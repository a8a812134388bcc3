//nolint:testpackage // Testing internal parsing logic
package flatpak

import (
	"testing"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	out := []byte("org.mozilla.firefox\tuser\n\norg.gimp.GIMP\tsystem\n  com.example.Bare  \n")

	items, err := parseList(out)
	require.NoError(t, err)
	assert.Equal(t, []domain.AppItem{
		{ID: "org.mozilla.firefox", Scope: domain.ScopeUser},
		{ID: "org.gimp.GIMP", Scope: domain.ScopeSystem},
		{ID: "com.example.Bare"},
	}, items)
}

func TestParseList_Empty(t *testing.T) {
	items, err := parseList(nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGroupByScope(t *testing.T) {
	groups := groupByScope([]domain.AppItem{
		{ID: "a", Scope: domain.ScopeSystem},
		{ID: "b", Scope: domain.ScopeUser},
		{ID: "c", Scope: domain.ScopeSystem},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, domain.ScopeSystem, groups[0].scope)
	assert.Equal(t, []string{"a", "c"}, groups[0].ids)
	assert.Equal(t, domain.ScopeUser, groups[1].scope)
	assert.Equal(t, []string{"b"}, groups[1].ids)
}
