package footprint

import (
	"testing"

	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = []models.Category{
	{ID: 1, Name: "Museum"},
	{ID: 2, Name: "Theatre"},
	{ID: 3, Name: "Public Art"},
	{ID: 4, Name: "Restaurant"},
	{ID: 5, Name: "Library"},
}

func achievementKeys(s *Stats) []string {
	keys := make([]string, 0, len(s.Achievements))
	for _, a := range s.Achievements {
		keys = append(keys, a.Key)
	}
	return keys
}

func TestBuildStats_Empty(t *testing.T) {
	s := BuildStats(0, 0, testCategories, nil, DefaultAchievements())

	assert.Equal(t, int64(0), s.Total)
	assert.Equal(t, float64(0), s.Percentage)
	assert.Equal(t, int64(0), s.Medals)
	assert.Equal(t, int64(0), s.NextMilestoneProgress)
	assert.Len(t, s.CategoryStats, len(testCategories))
	assert.NotNil(t, s.Achievements)
	assert.Empty(t, s.Achievements)
}

func TestBuildStats_Milestones(t *testing.T) {
	tests := []struct {
		total    int64
		medals   int64
		progress int64
	}{
		{1, 0, 1},
		{4, 0, 4},
		{5, 1, 0},
		{12, 2, 2},
		{100, 20, 0},
	}
	for _, tt := range tests {
		s := BuildStats(tt.total, 200, testCategories, nil, DefaultAchievements())
		assert.Equal(t, tt.medals, s.Medals, "total=%d", tt.total)
		assert.Equal(t, tt.progress, s.NextMilestoneProgress, "total=%d", tt.total)
	}
}

func TestBuildStats_Percentage(t *testing.T) {
	assert.Equal(t, 6.0, BuildStats(12, 200, nil, nil, DefaultAchievements()).Percentage)
	assert.Equal(t, 33.3, BuildStats(1, 3, nil, nil, DefaultAchievements()).Percentage)
	assert.Equal(t, 66.7, BuildStats(2, 3, nil, nil, DefaultAchievements()).Percentage)
	assert.Equal(t, float64(0), BuildStats(3, 0, nil, nil, DefaultAchievements()).Percentage)
}

func TestBuildStats_CategoryAchievements(t *testing.T) {
	counts := map[uint]int64{1: 7, 2: 4, 3: 5, 5: 9}

	s := BuildStats(25, 200, testCategories, counts, DefaultAchievements())

	require.Len(t, s.CategoryStats, 5)
	assert.Equal(t, int64(0), s.CategoryStats[3].Count)
	assert.Equal(t, "Restaurant", s.CategoryStats[3].Category)

	// Library has no table entry, Theatre is below the threshold.
	assert.Equal(t, []string{"museum_lover", "art_collector", "first_collection", "wanderer"}, achievementKeys(s))

	museum := s.Achievements[0]
	assert.Equal(t, "7/5", museum.Progress)
	assert.True(t, museum.Completed)
	assert.Equal(t, "Museum Lover", museum.Name)

	assert.Equal(t, ProgressCompleted, s.Achievements[2].Progress)
}

func TestBuildStats_AchievementsMonotonic(t *testing.T) {
	table := DefaultAchievements()
	prev := map[string]bool{}
	for total := int64(0); total <= 120; total++ {
		counts := map[uint]int64{1: total / 2, 4: total / 3}
		s := BuildStats(total, 200, testCategories, counts, table)

		cur := map[string]bool{}
		for _, k := range achievementKeys(s) {
			cur[k] = true
		}
		for k := range prev {
			assert.True(t, cur[k], "achievement %s lost at total=%d", k, total)
		}
		prev = cur
	}
	assert.True(t, prev["ambassador"])
}
