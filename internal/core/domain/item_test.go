package domain_test

import (
	"testing"

	"github.com/NoSpawnn/bow/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Scope
		ok   bool
	}{
		{"user", domain.ScopeUser, true},
		{"System", domain.ScopeSystem, true},
		{" user ", domain.ScopeUser, true},
		{"global", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := domain.ParseScope(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestScope_Flag(t *testing.T) {
	assert.Equal(t, "--user", domain.ScopeUser.Flag())
	assert.Equal(t, "--system", domain.ScopeSystem.Flag())
}
