package domain_test

import (
	"testing"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apps(ids ...string) []domain.AppItem {
	out := make([]domain.AppItem, len(ids))
	for i, id := range ids {
		out[i] = domain.AppItem{ID: id, Scope: domain.ScopeUser}
	}
	return out
}

func TestDifference(t *testing.T) {
	tests := []struct {
		name   string
		first  []domain.AppItem
		second []domain.AppItem
		want   []string
		ok     bool
	}{
		{
			name:   "disjoint",
			first:  apps("a", "b"),
			second: apps("c"),
			want:   []string{"a", "b"},
			ok:     true,
		},
		{
			name:   "overlap",
			first:  apps("a", "b", "c"),
			second: apps("b"),
			want:   []string{"a", "c"},
			ok:     true,
		},
		{
			name:   "subset",
			first:  apps("a"),
			second: apps("a", "b"),
			ok:     false,
		},
		{
			name: "both empty",
			ok:   false,
		},
		{
			name:   "duplicates collapse",
			first:  apps("a", "a", "b", "a"),
			second: nil,
			want:   []string{"a", "b"},
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.Difference(tt.first, tt.second)
			assert.Equal(t, tt.ok, ok)
			assert.ElementsMatch(t, tt.want, domain.Keys(got))
		})
	}
}

func TestDifference_IdentityOnly(t *testing.T) {
	desired := []domain.BinaryItem{{Name: "jq", URL: "https://example.com/jq-1.7"}}
	installed := []domain.BinaryItem{{Name: "jq", URL: "https://example.com/jq-1.6", Version: "1.6"}}

	_, ok := domain.Difference(desired, installed)
	assert.False(t, ok, "items with equal names are the same package")
}

func TestDifference_PermutationInvariant(t *testing.T) {
	first := apps("a", "b", "c", "d")
	second := apps("b", "d")

	base, ok := domain.Difference(first, second)
	require.True(t, ok)

	permuted := apps("d", "c", "b", "a")
	reversed := apps("d", "b")
	other, ok := domain.Difference(permuted, reversed)
	require.True(t, ok)

	assert.ElementsMatch(t, domain.Keys(base), domain.Keys(other))
}

func TestDifference_Disjoint(t *testing.T) {
	desired := apps("a", "b", "c")
	installed := apps("b", "x")

	toInstall, _ := domain.Difference(desired, installed)
	toRemove, _ := domain.Difference(installed, desired)

	for _, key := range domain.Keys(toInstall) {
		assert.NotContains(t, domain.Keys(toRemove), key)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, domain.Keys(toInstall))
	assert.ElementsMatch(t, []string{"x"}, domain.Keys(toRemove))
}
