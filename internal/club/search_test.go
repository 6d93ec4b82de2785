package club

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "ake ostlund", normalizeName("  Ake   Ostlund!! "))
	assert.Equal(t, "", normalizeName("123"))
}

func TestMatchMembers_ClosestFirst(t *testing.T) {
	members := []Member{
		{ID: "1", FullName: "Maria Andersson"},
		{ID: "2", FullName: "Mia Ek"},
		{ID: "3", FullName: "Erik Holm"},
	}

	got := matchMembers("mia", members)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "2", got[0].ID)
		assert.Equal(t, "1", got[1].ID)
	}
	assert.Empty(t, matchMembers("   ", members))
}
