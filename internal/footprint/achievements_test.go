package footprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAchievements(t *testing.T) {
	table := DefaultAchievements()

	d, ok := table.ForCategory("Theatre")
	require.True(t, ok)
	assert.Equal(t, "theatre_enthusiast", d.Key)
	assert.Equal(t, "🎭", d.Icon)

	_, ok = table.ForCategory("theatre")
	assert.False(t, ok)

	require.Len(t, table.Milestones, 3)
	assert.Equal(t, int64(1), table.Milestones[0].Threshold)
	assert.Equal(t, "first_collection", table.Milestones[0].Key)
}

func TestParseAchievements_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"duplicate category", `
categories:
  - {category: Museum, key: a, icon: x, name: A}
  - {category: Museum, key: b, icon: y, name: B}
`},
		{"missing key", `
categories:
  - {category: Museum, icon: x, name: A}
`},
		{"non increasing thresholds", `
milestones:
  - {threshold: 10, key: a, icon: x, name: A}
  - {threshold: 10, key: b, icon: y, name: B}
`},
		{"zero threshold", `
milestones:
  - {threshold: 0, key: a, icon: x, name: A}
`},
		{"malformed", "categories: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAchievements([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadAchievements(t *testing.T) {
	table, err := LoadAchievements("")
	require.NoError(t, err)
	assert.Len(t, table.Categories, 4)

	path := filepath.Join(t.TempDir(), "achievements.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - category: Library
    key: bookworm
    icon: "📚"
    name: Bookworm
milestones:
  - threshold: 3
    key: starter
    icon: "⭐"
    name: Starter
`), 0o600))

	table, err = LoadAchievements(path)
	require.NoError(t, err)
	d, ok := table.ForCategory("Library")
	require.True(t, ok)
	assert.Equal(t, "Bookworm", d.Name)
	assert.Equal(t, int64(3), table.Milestones[0].Threshold)

	_, err = LoadAchievements(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
