package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedNames(t *testing.T) {
	names := []string{"zebra", "Apple", "apple pie", "Éclair", "default"}
	sorted := SortedNames(names)

	assert.Equal(t, []string{"Apple", "apple pie", "default", "Éclair", "zebra"}, sorted)
	// Input must not be mutated.
	assert.Equal(t, "zebra", names[0])
}

func TestSortNamesCaseInsensitive(t *testing.T) {
	names := []string{"beta", "Alpha", "ALPHA centauri"}
	SortNames(names)

	assert.Equal(t, "Alpha", names[0])
	assert.Equal(t, "ALPHA centauri", names[1])
	assert.Equal(t, "beta", names[2])
}
